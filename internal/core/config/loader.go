package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vietddude/nodewatch/internal/core/domain"
	"gopkg.in/yaml.v2"
)

const (
	DefaultMaxBlocksBehind = 3
	DefaultEnvironmentsDir = "default_configs"
)

// Load reads the run configuration from a YAML file.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// max_blocks_behind is only defaulted when the key is absent; 0 is a valid tolerance.
	cfg := AppConfig{MaxBlocksBehind: DefaultMaxBlocksBehind}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.EnvironmentsDir == "" {
		cfg.EnvironmentsDir = DefaultEnvironmentsDir
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 9090
	}
	if cfg.Serve.Interval == 0 {
		cfg.Serve.Interval = 5 * time.Minute
	}
	if cfg.Probe.Timeout == 0 {
		cfg.Probe.Timeout = 5 * time.Second
	}
	if cfg.Probe.Concurrency <= 0 {
		cfg.Probe.Concurrency = 8
	}
	if cfg.Probe.PingCount <= 0 {
		cfg.Probe.PingCount = 1
	}
	if cfg.Probe.HeightPath == "" {
		cfg.Probe.HeightPath = "/api/blocks/getHeight"
	}
	if cfg.Probe.VersionPath == "" {
		cfg.Probe.VersionPath = "/api/peers/version"
	}
	if cfg.Probe.PeersPath == "" {
		cfg.Probe.PeersPath = "/api/peers"
	}
	if cfg.Notify.Telegram.APIURL == "" {
		cfg.Notify.Telegram.APIURL = "https://api.telegram.org"
	}
	if cfg.Notify.Mail.Port == 0 {
		cfg.Notify.Mail.Port = 587
	}
	if cfg.Notify.Mail.Subject == "" {
		cfg.Notify.Mail.Subject = "nodewatch alert"
	}
}

// Validate checks the fields Load cannot default.
func (c *AppConfig) Validate() error {
	var errs []error
	for id, hosts := range c.Hosts {
		if _, ok := domain.LookupEnvironment(id); !ok {
			errs = append(errs, fmt.Errorf("unknown environment %q", id))
			continue
		}
		for i, h := range hosts {
			if h.Address == "" {
				errs = append(errs, fmt.Errorf("%s host %d: address is required", id, i))
			}
		}
	}
	if c.Notify.Telegram.Enabled && (c.Notify.Telegram.Token == "" || c.Notify.Telegram.ChatID == "") {
		errs = append(errs, errors.New("telegram: token and chat_id are required"))
	}
	if c.Notify.Mail.Enabled && (c.Notify.Mail.Host == "" || len(c.Notify.Mail.To) == 0) {
		errs = append(errs, errors.New("mail: host and at least one recipient are required"))
	}
	return errors.Join(errs...)
}

// EnvironmentPath returns the reference file path of an environment.
func (c *AppConfig) EnvironmentPath(id domain.EnvironmentID) string {
	return filepath.Join(c.EnvironmentsDir, "env_"+string(id)+".yaml")
}

// LoadEnvironment reads the reference data of one environment.
func (c *AppConfig) LoadEnvironment(id domain.EnvironmentID) (*EnvironmentConfig, error) {
	path := c.EnvironmentPath(id)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read environment file: %w", err)
	}

	var env EnvironmentConfig
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &env); err != nil {
		return nil, fmt.Errorf("failed to parse environment file %s: %w", path, err)
	}
	if env.Peers.Limit <= 0 {
		env.Peers.Limit = 100
	}
	return &env, nil
}
