// Package controller owns the dashboard's runtime state and implements every
// operator action against the farm backend.
package controller

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"sync"
	"time"

	"botfarm/internal/activity"
	"botfarm/internal/keywords"
	"botfarm/internal/monitor"
	"botfarm/internal/tasks"
	"botfarm/pkg/models"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("botfarm/controller")

var (
	ErrNoScenario       = errors.New("please configure a scenario first")
	ErrAccountsRequired = errors.New("YouTube scenario requires Google accounts, please add Google accounts first")
	ErrNoDevice         = errors.New("please select a device")
	ErrInvalidDeviceID  = errors.New("device ID must not contain path elements")
	ErrNoProfileFile    = errors.New("please select a file and enter device ID")
	ErrInvalidProfile   = errors.New("invalid profile file")
)

// FarmAPI is the backend surface the controller drives. *farm.Client implements it.
type FarmAPI interface {
	SaveScenario(ctx context.Context, scenario models.ScenarioConfig) error
	StartFarm(ctx context.Context, req models.StartRequest) error
	StopFarm(ctx context.Context) error
	ForceStop(ctx context.Context) error
	UpdateAccounts(ctx context.Context, accounts []models.Account) error
	Stats(ctx context.Context) (*models.FarmStats, error)
	Devices(ctx context.Context) (map[string]models.DeviceStatus, error)
	ListProfiles(ctx context.Context) (map[string]models.Profile, error)
	ExportProfile(ctx context.Context, deviceID string) (*models.ProfileBlob, error)
	ImportProfile(ctx context.Context, deviceID string, profileData json.RawMessage) error
	DeleteProfile(ctx context.Context, deviceID string) error
}

// ScenarioStore persists the current scenario. *state.Store implements it.
type ScenarioStore interface {
	SaveScenario(cfg models.ScenarioConfig) error
	LoadScenario() (*models.ScenarioConfig, error)
	ClearScenario() error
}

// Rand drives task variation and keyword shuffling. *rand.Rand implements it.
type Rand interface {
	tasks.Rand
	keywords.Shuffler
}

type Options struct {
	RetryDelay      time.Duration
	StatsInterval   time.Duration
	DevicesInterval time.Duration
	Rand            Rand

	// Called after each successful poll while monitoring.
	OnStats   func(*models.FarmStats)
	OnDevices func(map[string]models.DeviceStatus)
}

type Controller struct {
	api   FarmAPI
	store ScenarioStore
	log   *activity.Log
	opts  Options

	genMu    sync.Mutex
	rng      Rand
	compiler *tasks.Compiler

	mu          sync.Mutex
	current     *models.ScenarioConfig
	stopMonitor context.CancelFunc
	monitorDone chan struct{}
	stats       *models.FarmStats
	devices     map[string]models.DeviceStatus

	sleep func(ctx context.Context, d time.Duration) error
}

func New(api FarmAPI, store ScenarioStore, log *activity.Log, opts Options) *Controller {
	if log == nil {
		log = activity.New(nil)
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 2 * time.Second
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &Controller{
		api:      api,
		store:    store,
		log:      log,
		opts:     opts,
		rng:      opts.Rand,
		compiler: tasks.NewCompiler(opts.Rand),
		sleep:    sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Log is the controller's activity log.
func (c *Controller) Log() *activity.Log {
	return c.log
}

// CurrentScenario returns a copy of the current scenario, or nil.
func (c *Controller) CurrentScenario() *models.ScenarioConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return nil
	}
	cfg := *c.current
	return &cfg
}

// Snapshot returns the latest polled stats and devices.
func (c *Controller) Snapshot() (*models.FarmStats, map[string]models.DeviceStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var stats *models.FarmStats
	if c.stats != nil {
		s := *c.stats
		stats = &s
	}
	devices := make(map[string]models.DeviceStatus, len(c.devices))
	for id, d := range c.devices {
		devices[id] = d
	}
	return stats, devices
}

// Keywords draws count keywords from category for an auto-mode search scenario.
func (c *Controller) Keywords(category string, count int) []string {
	c.genMu.Lock()
	selected := keywords.Select(category, count, c.rng)
	c.genMu.Unlock()

	if category == "" {
		category = keywords.DefaultCategory
	}
	c.log.Info("Loaded %d auto-generated keywords for %s category", len(selected), category)
	return selected
}

// StartMonitoring (re)starts background polling of stats and devices.
// The previous poller, if any, is swapped out under the lock and stopped,
// so concurrent callers leave exactly one poller running.
func (c *Controller) StartMonitoring() {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	m := monitor.New(c.api, c.opts.StatsInterval, c.opts.DevicesInterval)
	m.OnStats = c.setStats
	m.OnDevices = c.setDevices

	c.mu.Lock()
	oldCancel, oldDone := c.stopMonitor, c.monitorDone
	c.stopMonitor = cancel
	c.monitorDone = done
	go func() {
		defer close(done)
		_ = m.Run(ctx)
	}()
	c.mu.Unlock()

	// The old poller takes c.mu in its callbacks, so wait outside the lock.
	if oldCancel != nil {
		oldCancel()
		<-oldDone
	}

	c.log.Info("Started real-time monitoring")
}

// StopMonitoring cancels polling and waits for the poller to exit.
func (c *Controller) StopMonitoring() {
	c.mu.Lock()
	cancel, done := c.stopMonitor, c.monitorDone
	c.stopMonitor, c.monitorDone = nil, nil
	c.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (c *Controller) IsMonitoring() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopMonitor != nil
}

// Close stops monitoring.
func (c *Controller) Close() {
	c.StopMonitoring()
}

func (c *Controller) setStats(stats *models.FarmStats) {
	c.mu.Lock()
	c.stats = stats
	c.mu.Unlock()
	if c.opts.OnStats != nil {
		c.opts.OnStats(stats)
	}
}

func (c *Controller) setDevices(devices map[string]models.DeviceStatus) {
	c.mu.Lock()
	c.devices = devices
	c.mu.Unlock()
	if c.opts.OnDevices != nil {
		c.opts.OnDevices(devices)
	}
}

// RefreshStats fetches stats once outside the polling loop.
func (c *Controller) RefreshStats(ctx context.Context) (*models.FarmStats, error) {
	stats, err := c.api.Stats(ctx)
	if err != nil {
		return nil, err
	}
	c.setStats(stats)
	return stats, nil
}

// RefreshDevices fetches device status once outside the polling loop.
func (c *Controller) RefreshDevices(ctx context.Context) (map[string]models.DeviceStatus, error) {
	devices, err := c.api.Devices(ctx)
	if err != nil {
		return nil, err
	}
	c.setDevices(devices)
	return devices, nil
}
