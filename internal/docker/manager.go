// Package docker runs the farm backend as a local container.
package docker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"botfarm/internal/logger"
	"botfarm/pkg/models"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	"github.com/docker/docker/errdefs"
	"github.com/docker/go-connections/nat"
)

const (
	NetworkName   = "botfarm"
	ContainerName = "botfarm-backend"
	networkAlias  = "backend"

	StatusRunning  = "running"
	StatusStopped  = "stopped"
	StatusNotFound = "not found"
)

var errContainerNotFound = errors.New("container not found")

type Manager struct {
	client *client.Client
}

func NewManager() (*Manager, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create Docker client: %w", err)
	}

	return &Manager{client: cli}, nil
}

func (m *Manager) Close() error {
	return m.client.Close()
}

func (m *Manager) pullImage(ctx context.Context, imageName string) error {
	reader, err := m.client.ImagePull(ctx, imageName, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("failed to pull image %s: %w", imageName, err)
	}
	defer reader.Close()

	// Must read the response stream completely
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return fmt.Errorf("failed to read pull response for %s: %w", imageName, err)
	}
	return nil
}

func (m *Manager) ensureNetwork(ctx context.Context) error {
	_, err := m.client.NetworkInspect(ctx, NetworkName, network.InspectOptions{})
	if err == nil {
		return nil
	}
	if !errdefs.IsNotFound(err) {
		return fmt.Errorf("failed to inspect network %s: %w", NetworkName, err)
	}

	if _, err := m.client.NetworkCreate(ctx, NetworkName, network.CreateOptions{Driver: "bridge"}); err != nil {
		return fmt.Errorf("failed to create network %s: %w", NetworkName, err)
	}
	return nil
}

// containerPort is the backend's listening port inside the container.
func containerPort(cfg models.BackendConfig) nat.Port {
	return nat.Port(fmt.Sprintf("%d/tcp", cfg.Port))
}

// backendConfigs builds the container, host and network settings for cfg.
// The backend port is published on the same host port.
func backendConfigs(cfg models.BackendConfig) (*container.Config, *container.HostConfig, *network.NetworkingConfig) {
	port := containerPort(cfg)

	env := append([]string{
		"FLASK_ENV=production",
		"PORT=" + strconv.Itoa(cfg.Port),
	}, cfg.Env...)

	containerConfig := &container.Config{
		Image:        cfg.Image,
		ExposedPorts: nat.PortSet{port: struct{}{}},
		Env:          env,
	}

	hostConfig := &container.HostConfig{
		PortBindings: nat.PortMap{
			port: []nat.PortBinding{{HostIP: "127.0.0.1", HostPort: strconv.Itoa(cfg.Port)}},
		},
		Binds:         cfg.Volumes,
		RestartPolicy: container.RestartPolicy{Name: container.RestartPolicyUnlessStopped},
	}

	networkingConfig := &network.NetworkingConfig{
		EndpointsConfig: map[string]*network.EndpointSettings{
			NetworkName: {
				Aliases: []string{networkAlias},
			},
		},
	}

	return containerConfig, hostConfig, networkingConfig
}

func (m *Manager) findContainerByName(ctx context.Context, name string) (string, error) {
	containers, err := m.client.ContainerList(ctx, container.ListOptions{All: true})
	if err != nil {
		return "", fmt.Errorf("failed to list containers: %w", err)
	}

	for _, c := range containers {
		for _, containerName := range c.Names {
			if strings.TrimPrefix(containerName, "/") == name {
				return c.ID, nil
			}
		}
	}

	return "", fmt.Errorf("%w: %s", errContainerNotFound, name)
}

// StartBackend pulls the backend image and starts it on the botfarm network.
// An existing backend container is replaced.
func (m *Manager) StartBackend(ctx context.Context, cfg models.BackendConfig) (*models.BackendInfo, error) {
	logger.Info("Pulling backend image %s...", cfg.Image)
	if err := m.pullImage(ctx, cfg.Image); err != nil {
		return nil, err
	}

	id, err := m.findContainerByName(ctx, ContainerName)
	if err != nil && !errors.Is(err, errContainerNotFound) {
		return nil, err
	}
	if err == nil {
		logger.Info("Replacing existing container %s", ContainerName)
		err := m.client.ContainerRemove(ctx, id, container.RemoveOptions{Force: true})
		logger.LogDockerOperation("remove", ContainerName, err)
		if err != nil {
			return nil, fmt.Errorf("failed to remove existing backend container: %w", err)
		}
	}

	logger.Info("Creating network %s", NetworkName)
	if err := m.ensureNetwork(ctx); err != nil {
		return nil, err
	}

	containerConfig, hostConfig, networkingConfig := backendConfigs(cfg)
	resp, err := m.client.ContainerCreate(ctx, containerConfig, hostConfig, networkingConfig, nil, ContainerName)
	logger.LogDockerOperation("create", ContainerName, err)
	if err != nil {
		m.removeNetwork(ctx)
		return nil, fmt.Errorf("failed to create backend container: %w", err)
	}

	err = m.client.ContainerStart(ctx, resp.ID, container.StartOptions{})
	logger.LogDockerOperation("start", ContainerName, err)
	if err != nil {
		if rmErr := m.StopBackend(ctx); rmErr != nil {
			logger.Warn("Cleanup after failed start: %v", rmErr)
		}
		return nil, fmt.Errorf("failed to start backend container: %w", err)
	}

	return &models.BackendInfo{
		ContainerName: ContainerName,
		NetworkName:   NetworkName,
		Image:         cfg.Image,
		HostPort:      strconv.Itoa(cfg.Port),
		CreatedAt:     time.Now(),
	}, nil
}

func (m *Manager) removeNetwork(ctx context.Context) {
	if err := m.client.NetworkRemove(ctx, NetworkName); err != nil && !errdefs.IsNotFound(err) {
		logger.Warn("Failed to remove network %s: %v", NetworkName, err)
	}
}

// StopBackend stops and removes the backend container and its network.
// A missing container is not an error.
func (m *Manager) StopBackend(ctx context.Context) error {
	id, err := m.findContainerByName(ctx, ContainerName)
	switch {
	case errors.Is(err, errContainerNotFound):
		logger.Info("Container %s not found, skipping", ContainerName)
	case err != nil:
		return err
	default:
		timeout := 30
		err := m.client.ContainerStop(ctx, id, container.StopOptions{Timeout: &timeout})
		logger.LogDockerOperation("stop", ContainerName, err)

		err = m.client.ContainerRemove(ctx, id, container.RemoveOptions{Force: true})
		logger.LogDockerOperation("remove", ContainerName, err)
		if err != nil {
			return fmt.Errorf("failed to remove backend container: %w", err)
		}
	}

	m.removeNetwork(ctx)
	return nil
}

// BackendStatus reports running, stopped or not found.
func (m *Manager) BackendStatus(ctx context.Context) (string, error) {
	id, err := m.findContainerByName(ctx, ContainerName)
	if errors.Is(err, errContainerNotFound) {
		return StatusNotFound, nil
	}
	if err != nil {
		return "", err
	}

	inspect, err := m.client.ContainerInspect(ctx, id)
	if err != nil {
		return "error", err
	}
	if inspect.State == nil || !inspect.State.Running {
		return StatusStopped, nil
	}
	return StatusRunning, nil
}

// BackendURL is the address the published backend answers on.
func BackendURL(info *models.BackendInfo) string {
	return "http://localhost:" + info.HostPort
}
