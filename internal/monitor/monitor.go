// Package monitor polls farm statistics and device status on fixed intervals.
package monitor

import (
	"context"
	"time"

	"botfarm/internal/logger"
	"botfarm/pkg/models"
)

const (
	DefaultStatsInterval   = 3 * time.Second
	DefaultDevicesInterval = 5 * time.Second
)

// Source is the part of the backend client the monitor polls.
type Source interface {
	Stats(ctx context.Context) (*models.FarmStats, error)
	Devices(ctx context.Context) (map[string]models.DeviceStatus, error)
}

type Monitor struct {
	source          Source
	statsInterval   time.Duration
	devicesInterval time.Duration

	OnStats   func(*models.FarmStats)
	OnDevices func(map[string]models.DeviceStatus)
	OnError   func(what string, err error)
}

func New(source Source, statsInterval, devicesInterval time.Duration) *Monitor {
	if statsInterval <= 0 {
		statsInterval = DefaultStatsInterval
	}
	if devicesInterval <= 0 {
		devicesInterval = DefaultDevicesInterval
	}
	return &Monitor{
		source:          source,
		statsInterval:   statsInterval,
		devicesInterval: devicesInterval,
	}
}

// Run polls both endpoints immediately and then on their intervals until
// ctx is cancelled. A failed poll is reported and the loop carries on.
func (m *Monitor) Run(ctx context.Context) error {
	logger.Debug("Monitor starting (stats every %v, devices every %v)", m.statsInterval, m.devicesInterval)

	statsTicker := time.NewTicker(m.statsInterval)
	defer statsTicker.Stop()
	devicesTicker := time.NewTicker(m.devicesInterval)
	defer devicesTicker.Stop()

	// Initial poll for immediate responsiveness
	m.pollStats(ctx)
	m.pollDevices(ctx)

	for {
		select {
		case <-ctx.Done():
			logger.Debug("Monitor shutting down...")
			return ctx.Err()
		case <-statsTicker.C:
			m.pollStats(ctx)
		case <-devicesTicker.C:
			m.pollDevices(ctx)
		}
	}
}

func (m *Monitor) pollStats(ctx context.Context) {
	stats, err := m.source.Stats(ctx)
	if err != nil {
		m.fail(ctx, "stats", err)
		return
	}
	if m.OnStats != nil {
		m.OnStats(stats)
	}
}

func (m *Monitor) pollDevices(ctx context.Context) {
	devices, err := m.source.Devices(ctx)
	if err != nil {
		m.fail(ctx, "devices", err)
		return
	}
	if m.OnDevices != nil {
		m.OnDevices(devices)
	}
}

func (m *Monitor) fail(ctx context.Context, what string, err error) {
	if ctx.Err() != nil {
		return
	}
	logger.Warn("Error fetching %s: %v", what, err)
	if m.OnError != nil {
		m.OnError(what, err)
	}
}
