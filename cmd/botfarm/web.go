package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"botfarm/internal/controller"
	"botfarm/internal/logger"
	"botfarm/internal/web"
	"github.com/spf13/cobra"
)

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Start the local dashboard server",
	RunE:  runWeb,
}

func init() {
	rootCmd.AddCommand(webCmd)
	webCmd.Flags().Int("port", 8080, "Port to serve the dashboard on")
}

func runWeb(cmd *cobra.Command, args []string) error {
	logger.Info("Starting dashboard server")

	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("invalid port: %w", err)
	}

	a, err := newApp(cmd, controller.Options{})
	if err != nil {
		logger.Error("Failed to load configuration: %v", err)
		return err
	}
	defer a.Close()

	logger.Debug("Dashboard configuration - Port: %d, backend: %s", port, a.cfg.BackendURL)

	server := web.NewServer(a.ctrl, port, a.cfg.RequestTimeout)

	ctx, cancel := signalContext()
	defer cancel()

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for either interrupt signal or server error
	select {
	case <-ctx.Done():
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := server.Stop(shutdownCtx); err != nil {
			logger.Error("Error during shutdown: %v", err)
			return err
		}
		logger.Info("Server shut down gracefully")
		return nil

	case err := <-serverErr:
		logger.Error("Server error: %v", err)
		return fmt.Errorf("server error: %w", err)
	}
}
