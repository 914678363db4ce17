package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"botfarm/internal/activity"
	"botfarm/internal/config"
	"botfarm/internal/controller"
	"botfarm/internal/farm"
	"botfarm/internal/logger"
	"botfarm/internal/state"
	"botfarm/pkg/models"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "botfarm",
	Short: "Control panel for the bot farm backend",
	Long: `botfarm configures scenarios, compiles them into per-device tasks with your Google
accounts, and starts, stops and monitors the bot farm backend.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Keep stdout for command output.
		logger.SetOutput(os.Stderr)
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().String("backend-url", "", "Bot farm backend URL")
	rootCmd.PersistentFlags().String("data-dir", "", "Directory for the local state database")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug mode for detailed logging")
}

func loadAndValidateConfig(cmd *cobra.Command) (*models.Config, error) {
	// Set up debug mode first
	debug, _ := cmd.Flags().GetBool("debug")
	logger.SetDebugMode(debug)

	logger.Debug("Loading configuration...")

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	backendURL, _ := cmd.Flags().GetString("backend-url")
	dataDir, _ := cmd.Flags().GetString("data-dir")
	config.MergeWithFlags(cfg, backendURL, dataDir)

	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}

	logger.Debug("Configuration loaded - backend: %s", cfg.BackendURL)
	return cfg, nil
}

// app is the wiring shared by every command that talks to the backend.
type app struct {
	cfg    *models.Config
	store  *state.Store
	client *farm.Client
	ctrl   *controller.Controller
}

func newApp(cmd *cobra.Command, opts controller.Options) (*app, error) {
	cfg, err := loadAndValidateConfig(cmd)
	if err != nil {
		return nil, err
	}

	statePath, err := config.StatePath(cfg)
	if err != nil {
		return nil, err
	}
	store, err := state.Open(statePath)
	if err != nil {
		return nil, err
	}

	opts.RetryDelay = cfg.RetryDelay
	opts.StatsInterval = cfg.StatsInterval
	opts.DevicesInterval = cfg.DevicesInterval

	client := farm.NewClient(cfg.BackendURL, cfg.RequestTimeout)
	ctrl := controller.New(client, store, activity.New(os.Stdout), opts)
	if err := ctrl.LoadSavedScenario(); err != nil {
		store.Close()
		return nil, err
	}

	return &app{cfg: cfg, store: store, client: client, ctrl: ctrl}, nil
}

func (a *app) Close() {
	a.ctrl.Close()
	if err := a.store.Close(); err != nil {
		logger.Warn("Failed to close state database: %v", err)
	}
}

// signalContext is cancelled on interrupt or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-sigChan:
			logger.Info("Received interrupt signal, shutting down...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}

// readAccounts returns the account text from --accounts-file ("-" is stdin),
// or from the --accounts flag.
func readAccounts(cmd *cobra.Command) (string, error) {
	inline, _ := cmd.Flags().GetStringSlice("accounts")
	path, _ := cmd.Flags().GetString("accounts-file")

	if path == "" {
		return strings.Join(inline, "\n"), nil
	}

	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read accounts: %w", err)
	}
	return string(data), nil
}

func addAccountFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("accounts", nil, "Google accounts as email:password (repeatable)")
	cmd.Flags().String("accounts-file", "", "File with one email:password per line, - for stdin")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
