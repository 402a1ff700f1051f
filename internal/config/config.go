// Package config resolves the runtime configuration with priority
// CLI flags > environment > config file > defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sandeepkv93/focusdeck/internal/model"
	"gopkg.in/yaml.v3"
)

const envPrefix = "FOCUSDECK_"

var ErrInvalidConfig = errors.New("config: invalid configuration")

type TemplateConfig struct {
	Name  string               `yaml:"name"`
	Cards []model.TemplateCard `yaml:"cards"`
}

type RuntimeConfig struct {
	DBPath               string           `yaml:"db_path"`
	LogPath              string           `yaml:"log_path"`
	LogLevel             string           `yaml:"log_level"`
	SessionMinutes       int              `yaml:"session_minutes"`
	BreakMinutes         int              `yaml:"break_minutes"`
	TickInterval         time.Duration    `yaml:"tick_interval"`
	SettleDelay          time.Duration    `yaml:"settle_delay"`
	DesktopNotifications bool             `yaml:"desktop_notifications"`
	SoundEnabled         bool             `yaml:"sound_enabled"`
	SoundFile            string           `yaml:"sound_file"`
	SchedulerBuffer      int              `yaml:"scheduler_buffer"`
	HTTPAddr             string           `yaml:"http_addr"`
	AutoAdvance          bool             `yaml:"auto_advance"`
	DailyGoal            int              `yaml:"daily_goal"`
	Templates            []TemplateConfig `yaml:"templates"`
}

// CLIFlags holds values parsed from the command line. Empty fields are unset.
type CLIFlags struct {
	ConfigPath string
	DBPath     string
	HTTPAddr   string
	LogLevel   string
}

func DefaultRuntimeConfig() RuntimeConfig {
	dataDir := DefaultDataDir()
	return RuntimeConfig{
		DBPath:               filepath.Join(dataDir, "focusdeck.db"),
		LogPath:              filepath.Join(dataDir, "focusdeck.log"),
		LogLevel:             "info",
		SessionMinutes:       25,
		BreakMinutes:         5,
		TickInterval:         250 * time.Millisecond,
		SettleDelay:          100 * time.Millisecond,
		DesktopNotifications: false,
		SoundEnabled:         true,
		SchedulerBuffer:      64,
		HTTPAddr:             "127.0.0.1:7420",
		AutoAdvance:          true,
		DailyGoal:            8,
	}
}

// DefaultDataDir is ~/.local/share/focusdeck, or the working directory when
// no home directory is known.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share", "focusdeck")
}

func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "focusdeck", "config.yaml"), nil
}

// Load applies the config file, the environment and flags over the defaults.
// A missing file is only an error when it was named explicitly.
func Load(flags CLIFlags) (RuntimeConfig, error) {
	cfg := DefaultRuntimeConfig()

	path := flags.ConfigPath
	explicit := path != ""
	if !explicit {
		if p, err := DefaultConfigPath(); err == nil {
			path = p
		}
	}
	if path != "" {
		loaded, err := LoadFile(cfg, expandPath(path))
		switch {
		case err == nil:
			cfg = loaded
		case errors.Is(err, os.ErrNotExist) && !explicit:
		default:
			return RuntimeConfig{}, err
		}
	}

	cfg = RuntimeConfigFromEnv(cfg)

	if flags.DBPath != "" {
		cfg.DBPath = flags.DBPath
	}
	if flags.HTTPAddr != "" {
		cfg.HTTPAddr = flags.HTTPAddr
	}
	if flags.LogLevel != "" {
		cfg.LogLevel = flags.LogLevel
	}

	cfg.DBPath = expandPath(cfg.DBPath)
	cfg.LogPath = expandPath(cfg.LogPath)
	cfg.SoundFile = expandPath(cfg.SoundFile)
	if err := cfg.Validate(); err != nil {
		return RuntimeConfig{}, err
	}
	return cfg, nil
}

// LoadFile decodes the YAML file at path over base. Keys absent from the file
// keep their base values.
func LoadFile(base RuntimeConfig, path string) (RuntimeConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RuntimeConfig{}, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return RuntimeConfig{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v, ok := getEnvString("DB_PATH"); ok {
		cfg.DBPath = v
	}
	if v, ok := getEnvString("LOG_PATH"); ok {
		cfg.LogPath = v
	}
	if v, ok := getEnvString("LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := getEnvInt("SESSION_MINUTES"); ok && v > 0 {
		cfg.SessionMinutes = v
	}
	if v, ok := getEnvInt("BREAK_MINUTES"); ok && v > 0 {
		cfg.BreakMinutes = v
	}
	if v, ok := getEnvDuration("TICK_INTERVAL"); ok && v > 0 {
		cfg.TickInterval = v
	}
	if v, ok := getEnvDuration("SETTLE_DELAY"); ok && v >= 0 {
		cfg.SettleDelay = v
	}
	if v, ok := getEnvBool("DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	if v, ok := getEnvBool("SOUND_ENABLED"); ok {
		cfg.SoundEnabled = v
	}
	if v, ok := getEnvString("SOUND_FILE"); ok {
		cfg.SoundFile = v
	}
	if v, ok := getEnvInt("SCHEDULER_BUFFER"); ok && v > 0 {
		cfg.SchedulerBuffer = v
	}
	if v, ok := getEnvString("HTTP_ADDR"); ok {
		cfg.HTTPAddr = v
	}
	if v, ok := getEnvBool("AUTO_ADVANCE"); ok {
		cfg.AutoAdvance = v
	}
	if v, ok := getEnvInt("DAILY_GOAL"); ok && v >= 0 {
		cfg.DailyGoal = v
	}
	return cfg
}

func (c RuntimeConfig) Validate() error {
	var problems []string
	if strings.TrimSpace(c.DBPath) == "" {
		problems = append(problems, "db_path is empty")
	}
	if c.SessionMinutes <= 0 {
		problems = append(problems, "session_minutes must be positive")
	}
	if c.BreakMinutes <= 0 {
		problems = append(problems, "break_minutes must be positive")
	}
	if c.TickInterval <= 0 || c.TickInterval > time.Second {
		problems = append(problems, "tick_interval must be in (0, 1s]")
	}
	if c.SettleDelay < 0 {
		problems = append(problems, "settle_delay must not be negative")
	}
	if c.DailyGoal < 0 {
		problems = append(problems, "daily_goal must not be negative")
	}
	for i, tc := range c.Templates {
		tpl := model.Template{Name: tc.Name, Cards: tc.Cards}
		if err := tpl.Validate(); err != nil {
			problems = append(problems, fmt.Sprintf("templates[%d]: %v", i, err))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// Preferences are the defaults used until the user saves their own.
func (c RuntimeConfig) Preferences() model.Preferences {
	return model.Preferences{
		SessionMinutes: c.SessionMinutes,
		BreakMinutes:   c.BreakMinutes,
		AutoAdvance:    c.AutoAdvance,
		SoundEnabled:   c.SoundEnabled,
		DailyGoal:      c.DailyGoal,
	}
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(envPrefix + name))
	return raw, raw != ""
}

func getEnvInt(name string) (int, bool) {
	raw, ok := getEnvString(name)
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvDuration(name string) (time.Duration, bool) {
	raw, ok := getEnvString(name)
	if !ok {
		return 0, false
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw, ok := getEnvString(name)
	if !ok {
		return false, false
	}
	switch strings.ToLower(raw) {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
