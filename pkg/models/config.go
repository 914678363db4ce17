package models

import (
	"time"
)

type Config struct {
	BackendURL      string        `yaml:"backend_url"`
	DataDir         string        `yaml:"data_dir"`
	StatsInterval   time.Duration `yaml:"stats_interval"`
	DevicesInterval time.Duration `yaml:"devices_interval"`
	RetryDelay      time.Duration `yaml:"retry_delay"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	Backend         BackendConfig `yaml:"backend"`
}

// BackendConfig describes the docker-managed backend container.
type BackendConfig struct {
	Image   string   `yaml:"image"`
	Port    int      `yaml:"port"`
	Env     []string `yaml:"env,omitempty"`
	Volumes []string `yaml:"volumes,omitempty"`
}

type BackendInfo struct {
	ContainerName string    `yaml:"container_name"`
	NetworkName   string    `yaml:"network_name"`
	Image         string    `yaml:"image"`
	HostPort      string    `yaml:"host_port"`
	CreatedAt     time.Time `yaml:"created_at"`
}

type MonitorConfig struct {
	BackendURL      string
	StatsInterval   time.Duration
	DevicesInterval time.Duration
	RequestTimeout  time.Duration
}
