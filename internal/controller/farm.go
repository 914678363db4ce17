package controller

import (
	"context"
	"errors"
	"strings"

	"botfarm/internal/accounts"
	"botfarm/internal/farm"
	"botfarm/internal/logger"
	"botfarm/internal/scenario"
	"botfarm/internal/tasks"
	"botfarm/pkg/models"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// alreadyRunning is the backend message that triggers the one cleanup-and-retry.
const alreadyRunning = "already running"

// Plan is what StartFarm would submit for the current scenario.
type Plan struct {
	Scenario models.ScenarioConfig `json:"scenario"`
	Accounts []models.Account      `json:"accounts"`
	Devices  []models.Device       `json:"devices"`
	Tasks    models.TaskList       `json:"tasks"`
}

func (p *Plan) Request() models.StartRequest {
	return models.StartRequest{Devices: p.Devices, Tasks: p.Tasks}
}

// Plan compiles devices and tasks for the current scenario and the accounts
// in accountsText without contacting the backend.
func (c *Controller) Plan(accountsText string) (*Plan, error) {
	cfg := c.CurrentScenario()
	if cfg == nil {
		return nil, ErrNoScenario
	}

	accts := accounts.Parse(accountsText)
	if cfg.Type == models.ScenarioYouTube && len(accts) == 0 {
		return nil, ErrAccountsRequired
	}

	c.genMu.Lock()
	resolved := scenario.ResolveKeywords(*cfg, c.rng)
	list := c.compiler.Compile(resolved, accts)
	c.genMu.Unlock()

	if err := scenario.Validate(resolved); errors.Is(err, scenario.ErrUnknownType) {
		c.log.Warning("Unknown scenario type %q, no tasks generated", resolved.Type)
	}
	c.log.Info("Generated %d tasks for %s scenario", len(list.Tasks), resolved.Name)

	return &Plan{
		Scenario: resolved,
		Accounts: accts,
		Devices:  tasks.GenerateDevices(len(accts)),
		Tasks:    list,
	}, nil
}

// StartFarm compiles the current scenario and starts the farm. If the
// backend reports the farm is already running, it force-stops, waits
// RetryDelay and tries exactly once more.
func (c *Controller) StartFarm(ctx context.Context, accountsText string) error {
	ctx, span := tracer.Start(ctx, "controller.StartFarm")
	defer span.End()

	err := c.startFarm(ctx, span, accountsText, true)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (c *Controller) startFarm(ctx context.Context, span trace.Span, accountsText string, retry bool) error {
	plan, err := c.Plan(accountsText)
	if err != nil {
		return err
	}
	span.SetAttributes(
		attribute.String("scenario.type", string(plan.Scenario.Type)),
		attribute.Int("farm.devices", len(plan.Devices)),
		attribute.Int("farm.tasks", len(plan.Tasks.Tasks)),
	)

	c.log.Info("Starting bot farm with %s scenario...", plan.Scenario.Name)

	err = c.api.StartFarm(ctx, plan.Request())
	if err == nil {
		c.log.Success("Bot farm started successfully with %s scenario!", plan.Scenario.Name)
		c.StartMonitoring()
		return nil
	}

	var apiErr *farm.APIError
	if !errors.As(err, &apiErr) {
		c.log.Error("Error starting bot farm: %v", err)
		return err
	}

	c.log.Error("Failed to start bot farm: %s", apiErr.Message)
	if !retry || !strings.Contains(apiErr.Message, alreadyRunning) {
		return err
	}

	c.log.Warning("Attempting force cleanup...")
	if ferr := c.api.ForceStop(ctx); ferr != nil {
		logger.Warn("Force cleanup before retry failed: %v", ferr)
	}
	if err := c.sleep(ctx, c.opts.RetryDelay); err != nil {
		return err
	}
	span.AddEvent("retry after force cleanup")

	return c.startFarm(ctx, span, accountsText, false)
}

func (c *Controller) StopFarm(ctx context.Context) error {
	c.log.Warning("Stopping bot farm...")
	if err := c.api.StopFarm(ctx); err != nil {
		c.log.Error("Error stopping bot farm: %v", err)
		return err
	}

	c.log.Success("Bot farm stopped successfully.")
	c.StopMonitoring()
	return nil
}

// ForceStopFarm terminates all sessions immediately.
func (c *Controller) ForceStopFarm(ctx context.Context) error {
	c.log.Warning("Force stopping bot farm...")
	if err := c.api.ForceStop(ctx); err != nil {
		c.log.Error("Error force stopping bot farm: %v", err)
		return err
	}

	c.log.Success("Bot farm force stopped successfully.")
	c.StopMonitoring()
	if _, err := c.RefreshStats(ctx); err != nil {
		logger.Warn("Error fetching stats: %v", err)
	}
	return nil
}

// UpdateAccounts parses accountsText and sends the accounts to the backend.
func (c *Controller) UpdateAccounts(ctx context.Context, accountsText string) ([]models.Account, error) {
	accts := accounts.Parse(accountsText)
	if err := c.api.UpdateAccounts(ctx, accts); err != nil {
		c.log.Error("Error updating accounts: %v", err)
		return nil, err
	}

	c.log.Success("Updated %d Google accounts", len(accts))
	return accts, nil
}
