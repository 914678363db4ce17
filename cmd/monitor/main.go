package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"botfarm/internal/farm"
	"botfarm/internal/logger"
	"botfarm/internal/monitor"
	"botfarm/internal/utils"
	"botfarm/pkg/models"
)

func loadConfig() *models.MonitorConfig {
	config := &models.MonitorConfig{}

	// Define flags
	backendURL := flag.String("backend-url", "", "Bot farm backend URL")
	statsInterval := flag.Duration("stats-interval", monitor.DefaultStatsInterval, "Stats polling interval")
	devicesInterval := flag.Duration("devices-interval", monitor.DefaultDevicesInterval, "Device status polling interval")
	timeout := flag.Duration("timeout", 10*time.Second, "Request timeout")
	debug := flag.Bool("debug", false, "Enable debug logging")

	flag.Parse()
	logger.SetDebugMode(*debug)

	// Get from flags or environment variables
	config.BackendURL = getConfigValue(*backendURL, "BOTFARM_BACKEND_URL")
	if config.BackendURL == "" {
		config.BackendURL = "http://localhost:5000"
	}
	config.StatsInterval = getDuration(*statsInterval, "STATS_INTERVAL")
	config.DevicesInterval = getDuration(*devicesInterval, "DEVICES_INTERVAL")
	config.RequestTimeout = *timeout

	return config
}

func getConfigValue(flagValue, envVar string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(envVar)
}

// getDuration lets envVar override a flag left at its default.
func getDuration(flagValue time.Duration, envVar string) time.Duration {
	if env := os.Getenv(envVar); env != "" {
		if parsed, err := time.ParseDuration(env); err == nil {
			return parsed
		}
		logger.Warn("Ignoring invalid %s=%q", envVar, env)
	}
	return flagValue
}

func main() {
	config := loadConfig()

	logger.Info("Monitor starting with config:")
	logger.Info("  Backend URL: %s", config.BackendURL)
	logger.Info("  Stats interval: %v", config.StatsInterval)
	logger.Info("  Devices interval: %v", config.DevicesInterval)

	client := farm.NewClient(config.BackendURL, config.RequestTimeout)

	m := monitor.New(client, config.StatsInterval, config.DevicesInterval)
	m.OnStats = func(stats *models.FarmStats) {
		logger.Info("running=%t devices=%d/%d tasks=%d logins=%s uptime=%s",
			stats.IsRunning, stats.ActiveDevices, stats.TotalDevices, stats.TotalTasksCompleted,
			utils.LoginRatio(*stats), utils.FormatUptime(stats.Uptime))
	}
	m.OnDevices = func(devices map[string]models.DeviceStatus) {
		active := 0
		for _, d := range devices {
			if d.IsActive {
				active++
			}
		}
		logger.Info("devices: %d reported, %d active", len(devices), active)
		if !logger.IsDebugMode() {
			return
		}
		for _, id := range utils.SortedIDs(devices) {
			d := devices[id]
			logger.Debug("  %s active=%t login=%t task=%s session=%s",
				id, d.IsActive, d.GoogleLoginSuccess, utils.TaskLabel(d), utils.SessionMinutes(d.SessionDuration))
		}
	}

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Received shutdown signal")
		cancel()
	}()

	if err := m.Run(ctx); err != nil && err != context.Canceled {
		logger.Fatal("Monitor failed: %v", err)
	}

	logger.Info("Monitor shutdown complete")
}
