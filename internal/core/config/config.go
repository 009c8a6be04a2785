package config

import (
	"time"

	"github.com/vietddude/nodewatch/internal/core/domain"
)

// AppConfig represents the top-level run configuration.
type AppConfig struct {
	CheckPing        bool   `yaml:"check_ping"`
	CheckBlockHeight bool   `yaml:"check_block_height"`
	CheckVersion     bool   `yaml:"check_version"`
	MaxBlocksBehind  uint64 `yaml:"max_blocks_behind"`

	// EnvironmentsDir holds the env_<id>.yaml reference files.
	EnvironmentsDir string `yaml:"environments_dir"`

	// Hosts are the monitored nodes keyed by environment id.
	Hosts map[domain.EnvironmentID][]domain.Host `yaml:"hosts"`

	Probe   ProbeConfig   `yaml:"probe"`
	Notify  NotifyConfig  `yaml:"notify"`
	Server  ServerConfig  `yaml:"server"`
	Serve   ServeConfig   `yaml:"serve"`
	Logging LoggingConfig `yaml:"logging"`
}

// MonitoredHosts returns the configured hosts of one environment.
func (c *AppConfig) MonitoredHosts(id domain.EnvironmentID) []domain.Host {
	return c.Hosts[id]
}

// ProbeConfig tunes the reachability and status probes.
type ProbeConfig struct {
	Timeout     time.Duration `yaml:"timeout"`
	Concurrency int           `yaml:"concurrency"`
	PingCount   int           `yaml:"ping_count"`
	Privileged  bool          `yaml:"privileged"` // raw ICMP sockets instead of UDP ping
	HeightPath  string        `yaml:"height_path"`
	VersionPath string        `yaml:"version_path"`
	PeersPath   string        `yaml:"peers_path"`
}

// NotifyConfig holds the reporter settings.
type NotifyConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
	Mail     MailConfig     `yaml:"mail"`
}

// TelegramConfig holds Telegram Bot API settings.
type TelegramConfig struct {
	Enabled bool   `yaml:"enabled"`
	Token   string `yaml:"token"`
	ChatID  string `yaml:"chat_id"`
	APIURL  string `yaml:"api_url"`
}

// MailConfig holds SMTP settings.
type MailConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Host     string   `yaml:"host"`
	Port     int      `yaml:"port"`
	Username string   `yaml:"username"`
	Password string   `yaml:"password"`
	From     string   `yaml:"from"`
	To       []string `yaml:"to"`
	Subject  string   `yaml:"subject"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// ServeConfig holds settings for the long-running mode.
type ServeConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// EnvironmentConfig is the static reference data of one environment.
type EnvironmentConfig struct {
	BaseHosts []domain.Host `yaml:"base_hosts"`
	Peers     PeersConfig   `yaml:"peers"`
}

// PeersConfig controls peer discovery through the base hosts.
type PeersConfig struct {
	Discover bool `yaml:"discover"`
	Limit    int  `yaml:"limit"`
}
