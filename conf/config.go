package conf

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go/aws/endpoints"
)

// MonitoredMounts left empty means every local mount is sampled.
var MonitoredMounts = []string{}

type Config struct {
	LogFilePath         string   `json:"log-file-path"`
	NodeID              string   `json:"node-id"`
	HostGroup           string   `json:"host-group"`
	Profile             string   `json:"profile"`
	Region              string   `json:"region"`
	Namespace           string   `json:"namespace"`
	IntervalMinutes     int      `json:"interval-minutes"`
	Verbose             bool     `json:"verbose"`
	MonitoredMounts     []string `json:"monitored-mounts"`
	APIPort             string   `json:"api-port"`
	MaxPointsPerRequest int      `json:"max-points-per-request"`
	MaxPublishAttempts  int      `json:"max-publish-attempts"`
	CollectorTimeoutSec int      `json:"collector-timeout-seconds"`
}

func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	config := GetDefaultConfig()
	err = json.Unmarshal(data, config)
	if err != nil {
		return nil, err
	}

	return config, nil
}

func GetDefaultConfig() *Config {
	return &Config{
		LogFilePath:         "cloudwatch-metrics.log",
		Region:              endpoints.UsWest2RegionID,
		Namespace:           "System/Linux",
		IntervalMinutes:     5,
		MonitoredMounts:     MonitoredMounts,
		MaxPointsPerRequest: 20,
		MaxPublishAttempts:  4,
		CollectorTimeoutSec: 30,
	}
}

// Validate is called once at startup; a bad configuration is a fatal
// startup failure, not something the loop should limp along with.
func (config *Config) Validate() error {
	if config.IntervalMinutes <= 0 {
		return fmt.Errorf("interval must be at least 1 minute, got %d", config.IntervalMinutes)
	}
	if config.Namespace == "" {
		return fmt.Errorf("namespace must not be empty")
	}
	if config.MaxPointsPerRequest <= 0 {
		return fmt.Errorf("max-points-per-request must be positive, got %d", config.MaxPointsPerRequest)
	}
	if config.MaxPublishAttempts <= 0 {
		return fmt.Errorf("max-publish-attempts must be positive, got %d", config.MaxPublishAttempts)
	}
	if config.CollectorTimeout() >= config.Interval() {
		return fmt.Errorf("collector timeout %s must be shorter than the interval %s",
			config.CollectorTimeout(), config.Interval())
	}
	return nil
}

func (config *Config) Interval() time.Duration {
	return time.Duration(config.IntervalMinutes) * time.Minute
}

func (config *Config) CollectorTimeout() time.Duration {
	return time.Duration(config.CollectorTimeoutSec) * time.Second
}

func (config *Config) GetMountsToMonitor() []string {
	return config.MonitoredMounts
}

func (config *Config) AddMountToMonitor(mountPath string) {
	config.MonitoredMounts = append(config.MonitoredMounts, mountPath)
}
