// Package config loads sniper's settings from YAML files and the environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "github.com/odvcencio/sniper/pkg/errors"
	"github.com/odvcencio/sniper/pkg/logging"
	"github.com/odvcencio/sniper/pkg/paths"
)

// Config is the complete configuration.
type Config struct {
	UI        UIConfig        `yaml:"ui"`
	Recording RecordingConfig `yaml:"recording"`
	Logging   LoggingConfig   `yaml:"logging"`
	Watch     WatchConfig     `yaml:"watch"`
}

// UIConfig tunes the runtime loop and the browser.
type UIConfig struct {
	// PollInterval bounds each wait for input, e.g. "250ms".
	PollInterval time.Duration `yaml:"poll_interval"`
	// MaxUpdateChain caps update calls per input event; 0 disables the cap.
	MaxUpdateChain int `yaml:"max_update_chain"`
	// ShowHidden lists dotfiles.
	ShowHidden bool `yaml:"show_hidden"`
}

// RecordingConfig controls event log recording.
type RecordingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

// LoggingConfig controls the diagnostic log file.
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"`
	Dir     string `yaml:"dir"`
}

// WatchConfig controls refreshing the listing when the directory changes.
type WatchConfig struct {
	Enabled bool `yaml:"enabled"`
}

const (
	minPollInterval = 10 * time.Millisecond
	maxPollInterval = 10 * time.Second
)

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		UI: UIConfig{
			PollInterval: 250 * time.Millisecond,
		},
		Recording: RecordingConfig{
			Dir: paths.SessionsDir(),
		},
		Logging: LoggingConfig{
			Enabled: true,
			Level:   string(logging.LevelInfo),
			Dir:     paths.LogsDir(),
		},
		Watch: WatchConfig{
			Enabled: true,
		},
	}
}

// Load loads configuration from default locations with proper precedence:
// defaults, then ~/.sniper/config.yaml, then ./.sniper/config.yaml, then the
// environment.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv("HOME")
	}
	if home != "" {
		userConfigPath := filepath.Join(home, ".sniper", "config.yaml")
		if err := loadAndMerge(cfg, userConfigPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	projectConfigPath := filepath.Join(".", ".sniper", "config.yaml")
	if err := loadAndMerge(cfg, projectConfigPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	return finish(cfg)
}

// LoadFromPath loads configuration from a specific file path. The file must
// exist.
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := loadAndMerge(cfg, path); err != nil {
		return nil, err
	}
	return finish(cfg)
}

func finish(cfg *Config) (*Config, error) {
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	cfg.Recording.Dir = paths.ExpandHome(cfg.Recording.Dir)
	cfg.Logging.Dir = paths.ExpandHome(cfg.Logging.Dir)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadAndMerge decodes the YAML file at path over cfg. Keys absent from the
// file keep their current values; unknown keys are an error.
func loadAndMerge(cfg *Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeConfigLoad, "open config").
			WithContext("path", path)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return apperrors.Wrap(err, apperrors.ErrCodeConfigParse, "parse config").
			WithContext("path", path)
	}
	return nil
}

// applyEnvOverrides applies SNIPER_* environment variables.
func applyEnvOverrides(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv("SNIPER_POLL_INTERVAL")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return envError("SNIPER_POLL_INTERVAL", v, err)
		}
		cfg.UI.PollInterval = d
	}
	if v := strings.TrimSpace(os.Getenv("SNIPER_MAX_UPDATE_CHAIN")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return envError("SNIPER_MAX_UPDATE_CHAIN", v, err)
		}
		cfg.UI.MaxUpdateChain = n
	}
	if val, ok := envBool("SNIPER_SHOW_HIDDEN"); ok {
		cfg.UI.ShowHidden = val
	}
	if val, ok := envBool("SNIPER_RECORD"); ok {
		cfg.Recording.Enabled = val
	}
	if v := strings.TrimSpace(os.Getenv(paths.EnvRecordDir)); v != "" {
		cfg.Recording.Dir = v
	}
	if val, ok := envBool("SNIPER_LOG"); ok {
		cfg.Logging.Enabled = val
	}
	if v := strings.TrimSpace(os.Getenv("SNIPER_LOG_LEVEL")); v != "" {
		cfg.Logging.Level = v
	}
	if v := strings.TrimSpace(os.Getenv(paths.EnvLogDir)); v != "" {
		cfg.Logging.Dir = v
	}
	if val, ok := envBool("SNIPER_WATCH"); ok {
		cfg.Watch.Enabled = val
	}
	return nil
}

func envError(key, value string, err error) error {
	return apperrors.Wrap(err, apperrors.ErrCodeConfigParse, "parse environment override").
		WithContext("key", key).
		WithContext("value", value)
}

func envBool(key string) (bool, bool) {
	val := os.Getenv(key)
	if val == "" {
		return false, false
	}
	switch strings.ToLower(val) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	default:
		return false, false
	}
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	if c.UI.PollInterval < minPollInterval || c.UI.PollInterval > maxPollInterval {
		return invalid("ui.poll_interval", fmt.Sprintf("must be between %s and %s, got %s", minPollInterval, maxPollInterval, c.UI.PollInterval))
	}
	if c.UI.MaxUpdateChain < 0 {
		return invalid("ui.max_update_chain", fmt.Sprintf("must not be negative, got %d", c.UI.MaxUpdateChain))
	}
	if c.Recording.Enabled && strings.TrimSpace(c.Recording.Dir) == "" {
		return invalid("recording.dir", "required when recording is enabled")
	}
	if !logging.Level(c.Logging.Level).Valid() {
		return invalid("logging.level", fmt.Sprintf("unknown level %q (valid: debug, info, warn, error)", c.Logging.Level))
	}
	if c.Logging.Enabled && strings.TrimSpace(c.Logging.Dir) == "" {
		return invalid("logging.dir", "required when logging is enabled")
	}
	return nil
}

func invalid(field, reason string) error {
	return apperrors.New(apperrors.ErrCodeConfigInvalid, "invalid "+field+": "+reason).
		WithContext("field", field)
}
