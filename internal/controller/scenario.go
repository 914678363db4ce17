package controller

import (
	"context"
	"errors"
	"time"

	"botfarm/internal/logger"
	"botfarm/internal/scenario"
	"botfarm/internal/state"
	"botfarm/pkg/models"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// LoadSavedScenario restores the last saved scenario from the store.
func (c *Controller) LoadSavedScenario() error {
	cfg, err := c.store.LoadScenario()
	if errors.Is(err, state.ErrNotFound) {
		c.log.Info("Select a scenario and configure it to get started")
		return nil
	}
	if err != nil {
		c.log.Error("Error loading saved scenario: %v", err)
		return err
	}

	c.mu.Lock()
	c.current = cfg
	c.mu.Unlock()

	c.log.Info("Loaded saved scenario: %s", cfg.Name)
	return nil
}

// ClearScenario drops the current scenario locally.
func (c *Controller) ClearScenario() error {
	if err := c.store.ClearScenario(); err != nil {
		c.log.Error("Error clearing scenario: %v", err)
		return err
	}

	c.mu.Lock()
	c.current = nil
	c.mu.Unlock()

	c.log.Info("Scenario cleared")
	return nil
}

// SaveScenario validates cfg, stores it locally as the current scenario and
// pushes it to the backend. A backend failure is only warned about.
func (c *Controller) SaveScenario(ctx context.Context, cfg models.ScenarioConfig) error {
	ctx, span := tracer.Start(ctx, "controller.SaveScenario",
		trace.WithAttributes(attribute.String("scenario.type", string(cfg.Type))))
	defer span.End()

	if err := scenario.Validate(cfg); err != nil {
		return err
	}

	if cfg.Name == "" {
		cfg.Name = scenario.Label(cfg.Type)
	}
	cfg.Timestamp = time.Now().UTC().Format(time.RFC3339)

	if err := c.store.SaveScenario(cfg); err != nil {
		c.log.Error("Error saving scenario: %v", err)
		return err
	}

	c.mu.Lock()
	c.current = &cfg
	c.mu.Unlock()

	if err := c.api.SaveScenario(ctx, cfg); err != nil {
		logger.Warn("Failed to save scenario to server: %v", err)
	}

	c.log.Success("Scenario %q configuration saved", cfg.Name)
	return nil
}
