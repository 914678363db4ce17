package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"botfarm/internal/accounts"
	"botfarm/internal/controller"
	"botfarm/internal/logger"
	"botfarm/internal/utils"
	"botfarm/pkg/models"
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Compile the current scenario into devices and tasks without starting",
	RunE:  runPlan,
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the bot farm with the current scenario",
	Long: `Start compiles the current scenario with the given Google accounts and sends the
devices and tasks to the backend. With --watch it keeps monitoring until interrupted.`,
	RunE: runStart,
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the bot farm",
	RunE:  runStop,
}

var forceStopCmd = &cobra.Command{
	Use:   "force-stop",
	Short: "Terminate all farm sessions immediately",
	RunE:  runForceStop,
}

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Send Google accounts to the backend",
	Long: "Accounts are read one per line as email:password, for example:\n\n" +
		accounts.Sample,
	RunE: runAccounts,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show farm statistics",
	RunE:  runStats,
}

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "Show device status",
	RunE:  runDevices,
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll stats and devices until interrupted",
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(forceStopCmd)
	rootCmd.AddCommand(accountsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(watchCmd)

	addAccountFlags(planCmd)
	addAccountFlags(startCmd)
	addAccountFlags(accountsCmd)

	startCmd.Flags().Bool("watch", false, "Keep monitoring after the farm starts")
}

func runPlan(cmd *cobra.Command, args []string) error {
	text, err := readAccounts(cmd)
	if err != nil {
		return err
	}

	a, err := newApp(cmd, controller.Options{})
	if err != nil {
		return err
	}
	defer a.Close()

	plan, err := a.ctrl.Plan(text)
	if err != nil {
		return err
	}
	return printJSON(plan.Request())
}

func runStart(cmd *cobra.Command, args []string) error {
	text, err := readAccounts(cmd)
	if err != nil {
		return err
	}

	watch, _ := cmd.Flags().GetBool("watch")
	opts := controller.Options{}
	if watch {
		opts.OnStats = printStats
		opts.OnDevices = printDevices
	}

	a, err := newApp(cmd, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signalContext()
	defer cancel()

	start := time.Now()
	err = a.ctrl.StartFarm(ctx, text)
	logger.LogOperation("start farm", start, err)
	if err != nil {
		return err
	}

	if watch {
		<-ctx.Done()
	}
	return nil
}

func runStop(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, controller.Options{})
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signalContext()
	defer cancel()

	return a.ctrl.StopFarm(ctx)
}

func runForceStop(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, controller.Options{})
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signalContext()
	defer cancel()

	if err := a.ctrl.ForceStopFarm(ctx); err != nil {
		return err
	}
	if stats, _ := a.ctrl.Snapshot(); stats != nil {
		printStats(stats)
	}
	return nil
}

func runAccounts(cmd *cobra.Command, args []string) error {
	text, err := readAccounts(cmd)
	if err != nil {
		return err
	}

	a, err := newApp(cmd, controller.Options{})
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signalContext()
	defer cancel()

	_, err = a.ctrl.UpdateAccounts(ctx, text)
	return err
}

func runStats(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, controller.Options{})
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signalContext()
	defer cancel()

	stats, err := a.ctrl.RefreshStats(ctx)
	if err != nil {
		return err
	}
	printStats(stats)
	return nil
}

func runDevices(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, controller.Options{})
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signalContext()
	defer cancel()

	devices, err := a.ctrl.RefreshDevices(ctx)
	if err != nil {
		return err
	}
	printDevices(devices)
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, controller.Options{OnStats: printStats, OnDevices: printDevices})
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signalContext()
	defer cancel()

	logger.Info("Watching %s (Ctrl+C to stop)", a.client.BaseURL())
	a.ctrl.StartMonitoring()
	<-ctx.Done()
	return nil
}

func printStats(stats *models.FarmStats) {
	status := "Stopped"
	if stats.IsRunning {
		status = "Running"
	}
	fmt.Printf("Status: %s | Devices: %d/%d | Tasks: %d | Logins: %s | Uptime: %s\n",
		status, stats.ActiveDevices, stats.TotalDevices, stats.TotalTasksCompleted,
		utils.LoginRatio(*stats), utils.FormatUptime(stats.Uptime))
}

func printDevices(devices map[string]models.DeviceStatus) {
	if len(devices) == 0 {
		fmt.Println("No devices.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DEVICE\tSTATE\tLOGIN\tTASK\tSESSION")
	for _, id := range utils.SortedIDs(devices) {
		d := devices[id]
		state := "Inactive"
		if d.IsActive {
			state = "Active"
		}
		login := "❌"
		if d.GoogleLoginSuccess {
			login = "✅"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", id, state, login, utils.TaskLabel(d), utils.SessionMinutes(d.SessionDuration))
	}
	w.Flush()
}
