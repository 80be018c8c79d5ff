// Package config loads youtube-mcp.yaml, the server's configuration file.
// Every field is optional; getters return defaults for anything unset, and a
// few settings can be overridden from the environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// File names searched for, in order.
const (
	FileName    = "youtube-mcp.yaml"
	AltFileName = "youtube-mcp.yml"
)

// Environment variables that override file settings.
const (
	EnvAPIKey   = "YOUTUBE_API_KEY"
	EnvLogLevel = "YOUTUBE_MCP_LOG_LEVEL"
)

// Defaults applied by the getters.
const (
	DefaultServerName  = "youtube-mcp"
	DefaultVersion     = "dev"
	DefaultTimeout     = 30 * time.Second
	DefaultMaxResults  = 10
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
	DefaultServiceName = "youtube-mcp"
)

// ErrNotFound is returned when no configuration file exists.
var ErrNotFound = errors.New("configuration file not found")

// Config represents a youtube-mcp.yaml file.
type Config struct {
	Server     *ServerConfig     `yaml:"server,omitempty"`
	YouTube    *YouTubeConfig    `yaml:"youtube,omitempty"`
	Logging    *LoggingConfig    `yaml:"logging,omitempty"`
	Validation *ValidationConfig `yaml:"validation,omitempty"`
	Telemetry  *TelemetryConfig  `yaml:"telemetry,omitempty"`
}

// ServerConfig is the implementation info reported to MCP clients.
type ServerConfig struct {
	Name    string `yaml:"name,omitempty"`
	Version string `yaml:"version,omitempty"`
}

// YouTubeConfig configures the upstream Data API client.
type YouTubeConfig struct {
	APIKey string `yaml:"api_key,omitempty"`

	// Timeout bounds each upstream call.
	// Format: Go duration string (e.g., "10s")
	// Default: 30s
	Timeout string `yaml:"timeout,omitempty"`

	// MaxResults is the page size used when a call does not ask for one.
	// Default: 10
	MaxResults int64 `yaml:"max_results,omitempty"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`  // debug, info, warn, error
	Format string `yaml:"format,omitempty"` // text or json
}

// ValidationConfig controls response validation in the MCP adapter.
type ValidationConfig struct {
	// Strict replaces envelopes that fail validation with a failure envelope.
	Strict bool `yaml:"strict,omitempty"`
}

// TelemetryConfig configures trace export. Tracing is off without an endpoint.
type TelemetryConfig struct {
	OTLPEndpoint string `yaml:"otlp_endpoint,omitempty"`
	ServiceName  string `yaml:"service_name,omitempty"`
	Insecure     bool   `yaml:"insecure,omitempty"`
}

// GetName returns the server name or the default value.
func (s *ServerConfig) GetName() string {
	if s == nil || s.Name == "" {
		return DefaultServerName
	}
	return s.Name
}

// GetVersion returns the server version or the default value.
func (s *ServerConfig) GetVersion() string {
	if s == nil || s.Version == "" {
		return DefaultVersion
	}
	return s.Version
}

// GetAPIKey returns the API key, or an empty string when none is set.
func (y *YouTubeConfig) GetAPIKey() string {
	if y == nil {
		return ""
	}
	return y.APIKey
}

// GetTimeout parses the timeout string and returns a duration.
// Returns the default value if not set or invalid.
func (y *YouTubeConfig) GetTimeout() time.Duration {
	if y == nil || y.Timeout == "" {
		return DefaultTimeout
	}
	d, err := time.ParseDuration(y.Timeout)
	if err != nil || d <= 0 {
		return DefaultTimeout
	}
	return d
}

// GetMaxResults returns the default page size.
func (y *YouTubeConfig) GetMaxResults() int64 {
	if y == nil || y.MaxResults <= 0 {
		return DefaultMaxResults
	}
	return y.MaxResults
}

// GetLevel returns the slog level for the configured name. Unknown names
// fall back to info.
func (l *LoggingConfig) GetLevel() slog.Level {
	name := DefaultLogLevel
	if l != nil && l.Level != "" {
		name = l.Level
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// GetFormat returns "json" or "text".
func (l *LoggingConfig) GetFormat() string {
	if l == nil || !strings.EqualFold(l.Format, "json") {
		return DefaultLogFormat
	}
	return "json"
}

// IsStrict reports whether strict response validation is enabled.
func (v *ValidationConfig) IsStrict() bool {
	return v != nil && v.Strict
}

// Enabled reports whether traces should be exported.
func (t *TelemetryConfig) Enabled() bool {
	return t != nil && t.OTLPEndpoint != ""
}

// GetServiceName returns the service name attached to exported telemetry.
func (t *TelemetryConfig) GetServiceName() string {
	if t == nil || t.ServiceName == "" {
		return DefaultServiceName
	}
	return t.ServiceName
}

// Default returns an empty configuration with environment overrides applied.
func Default() *Config {
	c := &Config{}
	c.ApplyEnv()
	return c
}

// ApplyEnv overlays settings taken from the environment.
func (c *Config) ApplyEnv() {
	if key := os.Getenv(EnvAPIKey); key != "" {
		if c.YouTube == nil {
			c.YouTube = &YouTubeConfig{}
		}
		c.YouTube.APIKey = key
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		if c.Logging == nil {
			c.Logging = &LoggingConfig{}
		}
		c.Logging.Level = level
	}
}

// Validate reports settings that are present but unusable.
func (c *Config) Validate() error {
	var errs []error
	if y := c.YouTube; y != nil {
		if y.Timeout != "" {
			if d, err := time.ParseDuration(y.Timeout); err != nil || d <= 0 {
				errs = append(errs, fmt.Errorf("youtube.timeout %q is not a positive duration", y.Timeout))
			}
		}
		if y.MaxResults < 0 || y.MaxResults > 50 {
			errs = append(errs, fmt.Errorf("youtube.max_results must be between 0 and 50, got %d", y.MaxResults))
		}
	}
	if l := c.Logging; l != nil {
		if l.Level != "" {
			var level slog.Level
			if err := level.UnmarshalText([]byte(l.Level)); err != nil {
				errs = append(errs, fmt.Errorf("logging.level %q is not a valid level", l.Level))
			}
		}
		switch strings.ToLower(l.Format) {
		case "", "json", "text":
		default:
			errs = append(errs, fmt.Errorf("logging.format must be json or text, got %q", l.Format))
		}
	}
	return errors.Join(errs...)
}

// Parse decodes a configuration document. Unknown keys are rejected so that
// typos do not silently fall back to defaults.
func Parse(data []byte) (*Config, error) {
	var config Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &config, nil
}

// Load reads and parses a configuration file from the given path.
// If the path is a directory, it looks for youtube-mcp.yaml or youtube-mcp.yml
// in that directory. Environment overrides are applied to the result.
func Load(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}

	configPath := path
	if info.IsDir() {
		configPath = ""
		for _, name := range []string{FileName, AltFileName} {
			candidate := filepath.Join(path, name)
			if _, err := os.Stat(candidate); err == nil {
				configPath = candidate
				break
			}
		}
		if configPath == "" {
			return nil, fmt.Errorf("%w: no %s or %s in %s", ErrNotFound, FileName, AltFileName, path)
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config, err := Parse(data)
	if err != nil {
		return nil, err
	}
	config.ApplyEnv()
	return config, nil
}

// LoadFromDir searches for a configuration file starting from the given
// directory and walking up to parent directories until found or root is
// reached. A file that exists but fails to parse stops the search.
func LoadFromDir(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	for {
		config, err := Load(absDir)
		if err == nil {
			return config, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}

		parent := filepath.Dir(absDir)
		if parent == absDir {
			return nil, fmt.Errorf("%w in %s or parent directories", ErrNotFound, dir)
		}
		absDir = parent
	}
}

// LoadFromCurrentDir loads the configuration from the current working
// directory or one of its parents.
func LoadFromCurrentDir() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}
	return LoadFromDir(cwd)
}
