package main

import (
	"fmt"
	"time"

	"botfarm/internal/controller"
	"botfarm/internal/utils"
	"github.com/spf13/cobra"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Manage saved device browser profiles",
}

var profilesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved profiles",
	RunE:  runProfilesList,
}

var profilesExportCmd = &cobra.Command{
	Use:   "export [device-id]",
	Short: "Download a device profile to profile_<device-id>.json",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfilesExport,
}

var profilesImportCmd = &cobra.Command{
	Use:   "import [device-id] [file]",
	Short: "Upload an exported profile file to a device",
	Args:  cobra.ExactArgs(2),
	RunE:  runProfilesImport,
}

var profilesDeleteCmd = &cobra.Command{
	Use:   "delete [device-id]",
	Short: "Delete a device profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfilesDelete,
}

func init() {
	rootCmd.AddCommand(profilesCmd)
	profilesCmd.AddCommand(profilesListCmd)
	profilesCmd.AddCommand(profilesExportCmd)
	profilesCmd.AddCommand(profilesImportCmd)
	profilesCmd.AddCommand(profilesDeleteCmd)

	profilesExportCmd.Flags().String("dir", ".", "Directory to write the profile file to")
}

func runProfilesList(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, controller.Options{})
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signalContext()
	defer cancel()

	profiles, err := a.ctrl.ListProfiles(ctx)
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		fmt.Println("No saved profiles.")
		return nil
	}

	for _, id := range utils.SortedIDs(profiles) {
		p := profiles[id]
		login := "Not logged in"
		if p.GoogleLoggedIn {
			login = "Logged in as " + p.GoogleEmail
		}
		last := "never"
		if p.LastLogin > 0 {
			last = time.Unix(int64(p.LastLogin), 0).Format("2006-01-02 15:04")
		}
		fmt.Printf("%s: %s (last login %s)\n", id, login, last)
	}
	return nil
}

func runProfilesExport(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, controller.Options{})
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signalContext()
	defer cancel()

	dir, _ := cmd.Flags().GetString("dir")
	path, err := a.ctrl.ExportProfile(ctx, args[0], dir)
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}

func runProfilesImport(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, controller.Options{})
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signalContext()
	defer cancel()

	return a.ctrl.ImportProfile(ctx, args[0], args[1])
}

func runProfilesDelete(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, controller.Options{})
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signalContext()
	defer cancel()

	return a.ctrl.DeleteProfile(ctx, args[0])
}
