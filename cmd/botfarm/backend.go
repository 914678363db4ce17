package main

import (
	"context"
	"fmt"
	"time"

	"botfarm/internal/config"
	"botfarm/internal/docker"
	"botfarm/internal/farm"
	"botfarm/internal/logger"
	"github.com/spf13/cobra"
)

var backendCmd = &cobra.Command{
	Use:   "backend",
	Short: "Run the bot farm backend in a local Docker container",
}

var backendUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Pull and start the backend container",
	RunE:  runBackendUp,
}

var backendDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Stop and remove the backend container",
	RunE:  runBackendDown,
}

var backendStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show backend container and API health",
	RunE:  runBackendStatus,
}

func init() {
	rootCmd.AddCommand(backendCmd)
	backendCmd.AddCommand(backendUpCmd)
	backendCmd.AddCommand(backendDownCmd)
	backendCmd.AddCommand(backendStatusCmd)

	backendUpCmd.Flags().Int("wait", 8, "Health checks to wait for the backend API, 0 to skip")
}

func runBackendUp(cmd *cobra.Command, args []string) error {
	cfg, err := loadAndValidateConfig(cmd)
	if err != nil {
		return err
	}

	dockerManager, err := docker.NewManager()
	if err != nil {
		return err
	}
	defer dockerManager.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	info, err := dockerManager.StartBackend(ctx, cfg.Backend)
	if err != nil {
		return err
	}
	if err := config.SaveBackend(info); err != nil {
		logger.Warn("Failed to save backend info: %v", err)
	}

	url := docker.BackendURL(info)
	fmt.Printf("Backend container %s started on %s\n", info.ContainerName, url)

	attempts, _ := cmd.Flags().GetInt("wait")
	if attempts <= 0 {
		return nil
	}

	client := farm.NewClient(url, 5*time.Second)
	if err := client.WaitForConnection(ctx, attempts); err != nil {
		return fmt.Errorf("backend did not become healthy: %w", err)
	}
	fmt.Println("Backend is healthy")
	return nil
}

func runBackendDown(cmd *cobra.Command, args []string) error {
	debug, _ := cmd.Flags().GetBool("debug")
	logger.SetDebugMode(debug)

	dockerManager, err := docker.NewManager()
	if err != nil {
		return err
	}
	defer dockerManager.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := dockerManager.StopBackend(ctx); err != nil {
		return err
	}
	if err := config.RemoveBackend(); err != nil {
		logger.Warn("Failed to remove backend info: %v", err)
	}

	fmt.Println("Backend stopped")
	return nil
}

func runBackendStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadAndValidateConfig(cmd)
	if err != nil {
		return err
	}

	dockerManager, err := docker.NewManager()
	if err != nil {
		return err
	}
	defer dockerManager.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	status, err := dockerManager.BackendStatus(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Container: %s (%s)\n", docker.ContainerName, status)

	if info, err := config.LoadBackend(); err == nil && info != nil {
		fmt.Printf("  Image: %s\n", info.Image)
		fmt.Printf("  Started: %s\n", info.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	health, err := farm.NewClient(cfg.BackendURL, 5*time.Second).Health(ctx)
	if err != nil {
		fmt.Printf("API: unreachable at %s (%v)\n", cfg.BackendURL, err)
		return nil
	}
	fmt.Printf("API: %s at %s (farm manager initialized: %t, environment: %s)\n",
		health.Status, cfg.BackendURL, health.FarmManagerInitialized, health.Environment)
	return nil
}
