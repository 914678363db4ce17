package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"botfarm/pkg/models"
)

func (c *Controller) ListProfiles(ctx context.Context) (map[string]models.Profile, error) {
	profiles, err := c.api.ListProfiles(ctx)
	if err != nil {
		c.log.Error("Error loading profiles: %v", err)
		return nil, err
	}
	return profiles, nil
}

// ExportProfile downloads the profile of deviceID into dir as
// profile_<deviceID>.json and returns the written path.
func (c *Controller) ExportProfile(ctx context.Context, deviceID, dir string) (string, error) {
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		return "", ErrNoDevice
	}
	if strings.ContainsAny(deviceID, `/\`) || deviceID == "." || deviceID == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidDeviceID, deviceID)
	}

	blob, err := c.api.ExportProfile(ctx, deviceID)
	if err != nil {
		c.log.Error("Error exporting profile: %v", err)
		return "", err
	}

	data, err := json.MarshalIndent(blob, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal profile: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("profile_%s.json", deviceID))
	if err := os.WriteFile(path, data, 0600); err != nil {
		c.log.Error("Error exporting profile: %v", err)
		return "", fmt.Errorf("failed to write profile file: %w", err)
	}

	c.log.Success("Exported profile for %s", deviceID)
	return path, nil
}

// ImportProfile uploads a file written by ExportProfile to deviceID.
func (c *Controller) ImportProfile(ctx context.Context, deviceID, path string) error {
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" || path == "" {
		return ErrNoProfileFile
	}

	content, err := os.ReadFile(path)
	if err != nil {
		c.log.Error("Error importing profile: %v", err)
		return fmt.Errorf("failed to read profile file: %w", err)
	}

	var file struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(content, &file); err != nil {
		c.log.Error("Error importing profile: %v", err)
		return fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	if len(file.Data) == 0 {
		return fmt.Errorf("%w: missing data field", ErrInvalidProfile)
	}

	if err := c.api.ImportProfile(ctx, deviceID, file.Data); err != nil {
		c.log.Error("Error importing profile: %v", err)
		return err
	}

	c.log.Success("Imported profile for %s", deviceID)
	return nil
}

func (c *Controller) DeleteProfile(ctx context.Context, deviceID string) error {
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		return ErrNoDevice
	}

	if err := c.api.DeleteProfile(ctx, deviceID); err != nil {
		c.log.Error("Error deleting profile: %v", err)
		return err
	}

	c.log.Success("Deleted profile for %s", deviceID)
	return nil
}
