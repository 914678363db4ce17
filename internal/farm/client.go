// Package farm is the HTTP client for the bot farm backend API.
package farm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"botfarm/internal/logger"
	"botfarm/pkg/models"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const statusSuccess = "success"

// APIError is a non-success reply from the backend. Message is the
// backend's own text, passed through unchanged.
type APIError struct {
	Endpoint   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s failed with status %d", e.Endpoint, e.StatusCode)
	}
	return e.Message
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) makeRequest(ctx context.Context, method, endpoint string, body interface{}) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	url := c.baseURL + endpoint
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request to %s: %w", url, err)
	}
	logger.LogHTTPRequest(method, endpoint, resp.StatusCode, time.Since(start))

	return resp, nil
}

// call performs one request and decodes the {status, message, data}
// envelope into out when the backend reports success.
func (c *Client) call(ctx context.Context, method, endpoint string, body, out interface{}) error {
	resp, err := c.makeRequest(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= 400 {
			return &APIError{Endpoint: endpoint, StatusCode: resp.StatusCode}
		}
		return fmt.Errorf("failed to decode response from %s: %w", endpoint, err)
	}

	if env.Status != statusSuccess {
		return &APIError{Endpoint: endpoint, StatusCode: resp.StatusCode, Message: env.Message}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode %s data: %w", endpoint, err)
		}
	}
	return nil
}

// SaveScenario stores the scenario on the backend.
func (c *Client) SaveScenario(ctx context.Context, scenario models.ScenarioConfig) error {
	return c.call(ctx, http.MethodPost, "/api/scenario/save", scenario, nil)
}

// StartFarm submits devices and compiled tasks and starts the farm.
func (c *Client) StartFarm(ctx context.Context, req models.StartRequest) error {
	return c.call(ctx, http.MethodPost, "/api/farm/start", req, nil)
}

func (c *Client) StopFarm(ctx context.Context) error {
	return c.call(ctx, http.MethodGet, "/api/farm/stop", nil, nil)
}

// ForceStop terminates every session immediately and resets backend state.
func (c *Client) ForceStop(ctx context.Context) error {
	return c.call(ctx, http.MethodPost, "/api/farm/force-stop", nil, nil)
}

func (c *Client) UpdateAccounts(ctx context.Context, accounts []models.Account) error {
	body := map[string]interface{}{"accounts": accounts}
	return c.call(ctx, http.MethodPost, "/api/google/accounts", body, nil)
}

func (c *Client) Stats(ctx context.Context) (*models.FarmStats, error) {
	var stats models.FarmStats
	if err := c.call(ctx, http.MethodGet, "/api/farm/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) Devices(ctx context.Context) (map[string]models.DeviceStatus, error) {
	devices := map[string]models.DeviceStatus{}
	if err := c.call(ctx, http.MethodGet, "/api/devices", nil, &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

func (c *Client) ListProfiles(ctx context.Context) (map[string]models.Profile, error) {
	profiles := map[string]models.Profile{}
	if err := c.call(ctx, http.MethodGet, "/api/profiles/list", nil, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

func (c *Client) ExportProfile(ctx context.Context, deviceID string) (*models.ProfileBlob, error) {
	var blob models.ProfileBlob
	endpoint := "/api/profiles/export/" + url.PathEscape(deviceID)
	if err := c.call(ctx, http.MethodGet, endpoint, nil, &blob); err != nil {
		return nil, err
	}
	return &blob, nil
}

// ImportProfile uploads profileData (the data field of an exported blob) for deviceID.
func (c *Client) ImportProfile(ctx context.Context, deviceID string, profileData json.RawMessage) error {
	body := map[string]interface{}{
		"device_id":    deviceID,
		"profile_data": profileData,
	}
	return c.call(ctx, http.MethodPost, "/api/profiles/import", body, nil)
}

func (c *Client) DeleteProfile(ctx context.Context, deviceID string) error {
	endpoint := "/api/profiles/delete/" + url.PathEscape(deviceID)
	return c.call(ctx, http.MethodDelete, endpoint, nil, nil)
}

// Health queries /health, which answers without the usual envelope.
func (c *Client) Health(ctx context.Context) (*models.HealthStatus, error) {
	resp, err := c.makeRequest(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("health check failed with status %d", resp.StatusCode)
	}

	var health models.HealthStatus
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return nil, fmt.Errorf("failed to decode health response: %w", err)
	}
	return &health, nil
}

// WaitForConnection polls /health with exponential backoff until the backend answers.
func (c *Client) WaitForConnection(ctx context.Context, maxAttempts int) error {
	backoff := time.Second

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			logger.Debug("Waiting %v before retry attempt %d/%d", backoff, attempt, maxAttempts)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > 30*time.Second {
				backoff = 30 * time.Second
			}
		}

		if _, err := c.Health(ctx); err != nil {
			logger.Debug("Connection attempt %d/%d failed: %v", attempt, maxAttempts, err)
			continue
		}
		return nil
	}

	return fmt.Errorf("failed to connect to backend after %d attempts", maxAttempts)
}
