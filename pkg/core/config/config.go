// ============================================================================
// tempus - Calendar Engine
// ============================================================================
//
// Package:     config
// Description: Application configuration loaded from TOML or YAML with
//              defaults and TEMPUS_* environment overrides
// Author:      Mike Stoffels
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	mdwerror "github.com/msto63/tempus/foundation/core/error"
	"github.com/msto63/tempus/foundation/core/i18n"
	mdwlog "github.com/msto63/tempus/foundation/core/log"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of all environment overrides.
const EnvPrefix = "TEMPUS_"

// AutoLocale as calendar.locale selects the locale from LC_ALL, LC_TIME or
// LANG.
const AutoLocale = "auto"

// Config holds the complete application configuration
type Config struct {
	General  GeneralConfig  `toml:"general" yaml:"general"`
	Calendar CalendarConfig `toml:"calendar" yaml:"calendar"`
	Locales  LocalesConfig  `toml:"locales" yaml:"locales"`
	GRPC     GRPCConfig     `toml:"grpc" yaml:"grpc"`
	HTTP     HTTPConfig     `toml:"http" yaml:"http"`
	Alarm    AlarmConfig    `toml:"alarm" yaml:"alarm"`
	Log      LogConfig      `toml:"log" yaml:"log"`
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	Name        string `toml:"name" yaml:"name"`
	Environment string `toml:"environment" yaml:"environment"`
	DataDir     string `toml:"data_dir" yaml:"data_dir"`
}

// CalendarConfig holds the engine settings
type CalendarConfig struct {
	Locale           string   `toml:"locale" yaml:"locale"`
	WeekStartsMonday bool     `toml:"week_starts_monday" yaml:"week_starts_monday"`
	DetectFormats    []string `toml:"detect_formats" yaml:"detect_formats"`
}

// LocalesConfig points at an optional directory of locale tables
type LocalesConfig struct {
	Dir    string `toml:"dir" yaml:"dir"`
	Format string `toml:"format" yaml:"format"` // toml, yaml or empty for both
	Watch  bool   `toml:"watch" yaml:"watch"`
}

// GRPCConfig holds the calendar service listener
type GRPCConfig struct {
	Host            string   `toml:"host" yaml:"host"`
	Port            int      `toml:"port" yaml:"port"`
	ShutdownTimeout Duration `toml:"shutdown_timeout" yaml:"shutdown_timeout"`
	Reflection      bool     `toml:"reflection" yaml:"reflection"`
}

// HTTPConfig holds the WebSocket listener
type HTTPConfig struct {
	Host           string   `toml:"host" yaml:"host"`
	Port           int      `toml:"port" yaml:"port"`
	ReadTimeout    Duration `toml:"read_timeout" yaml:"read_timeout"`
	AllowedOrigins []string `toml:"allowed_origins" yaml:"allowed_origins"`
}

// AlarmConfig holds alarm persistence and scheduling
type AlarmConfig struct {
	DBPath string   `toml:"db_path" yaml:"db_path"`
	Tick   Duration `toml:"tick" yaml:"tick"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalYAML parses a duration scalar
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	return d.UnmarshalText([]byte(value.Value))
}

// Default returns the configuration used when no file is present
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML or YAML file. The decoder is chosen
// by extension (.toml, .yaml, .yml).
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, mdwerror.New("config file not found").
				WithCode(mdwerror.CodeNotFound).
				WithOperation("config.Load").
				WithDetail("path", path)
		}
		return nil, mdwerror.Wrap(err, "failed to read config").
			WithCode(mdwerror.CodeConfigError).
			WithOperation("config.Load").
			WithDetail("path", path)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		return nil, mdwerror.New("unsupported config format").
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("config.Load").
			WithDetail("extension", ext)
	}
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to parse config").
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("config.Load").
			WithDetail("path", path)
	}

	cfg.applyDefaults()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.expandEnvVars()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromEnv loads configuration from the TEMPUS_CONFIG environment variable
// or one of the default locations. Without a file the defaults are used,
// still subject to environment overrides.
func LoadFromEnv() (*Config, error) {
	path := os.Getenv(EnvPrefix + "CONFIG")
	if path == "" {
		for _, p := range DefaultPaths() {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}
	if path != "" {
		return Load(path)
	}

	cfg := Default()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.expandEnvVars()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultPaths lists the locations searched by LoadFromEnv, in order
func DefaultPaths() []string {
	paths := []string{
		"./configs/tempus.toml",
		"./configs/tempus.yaml",
		"./tempus.toml",
		"./tempus.yaml",
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config/tempus/config.toml"),
			filepath.Join(home, ".config/tempus/config.yaml"),
		)
	}
	return paths
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// General
	if c.General.Name == "" {
		c.General.Name = "tempus"
	}
	if c.General.Environment == "" {
		c.General.Environment = "development"
	}
	if c.General.DataDir == "" {
		c.General.DataDir = "./data"
	}

	// Calendar
	if c.Calendar.Locale == "" {
		c.Calendar.Locale = "en_US"
	}

	// gRPC
	if c.GRPC.Host == "" {
		c.GRPC.Host = "0.0.0.0"
	}
	if c.GRPC.Port == 0 {
		c.GRPC.Port = 9400
	}
	if c.GRPC.ShutdownTimeout.Duration == 0 {
		c.GRPC.ShutdownTimeout.Duration = 10 * time.Second
	}

	// HTTP
	if c.HTTP.Host == "" {
		c.HTTP.Host = "0.0.0.0"
	}
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 9401
	}
	if c.HTTP.ReadTimeout.Duration == 0 {
		c.HTTP.ReadTimeout.Duration = 30 * time.Second
	}

	// Alarm
	if c.Alarm.DBPath == "" {
		c.Alarm.DBPath = filepath.Join(c.General.DataDir, "alarms.db")
	}
	if c.Alarm.Tick.Duration == 0 {
		c.Alarm.Tick.Duration = time.Second
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
}

// applyEnv overrides values from TEMPUS_* variables
func (c *Config) applyEnv() error {
	if v, ok := lookupEnv("LOCALE"); ok {
		c.Calendar.Locale = v
	}
	if v, ok := lookupEnv("WEEK_STARTS_MONDAY"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return envError("WEEK_STARTS_MONDAY", v, err)
		}
		c.Calendar.WeekStartsMonday = b
	}
	if v, ok := lookupEnv("LOCALES_DIR"); ok {
		c.Locales.Dir = v
	}
	if v, ok := lookupEnv("GRPC_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return envError("GRPC_PORT", v, err)
		}
		c.GRPC.Port = port
	}
	if v, ok := lookupEnv("HTTP_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return envError("HTTP_PORT", v, err)
		}
		c.HTTP.Port = port
	}
	if v, ok := lookupEnv("ALARM_DB"); ok {
		c.Alarm.DBPath = v
	}
	if v, ok := lookupEnv("LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := lookupEnv("LOG_FORMAT"); ok {
		c.Log.Format = v
	}
	return nil
}

func lookupEnv(key string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}

func envError(key, value string, err error) error {
	return mdwerror.Wrap(err, "invalid environment override").
		WithCode(mdwerror.CodeEnvironmentError).
		WithOperation("config.applyEnv").
		WithDetail("variable", EnvPrefix+key).
		WithDetail("value", value)
}

// expandEnvVars expands environment variables in path values
func (c *Config) expandEnvVars() {
	c.General.DataDir = os.ExpandEnv(c.General.DataDir)
	c.Locales.Dir = os.ExpandEnv(c.Locales.Dir)
	c.Alarm.DBPath = os.ExpandEnv(c.Alarm.DBPath)
}

// Validate checks ranges and enumerations
func (c *Config) Validate() error {
	invalid := func(field string, value interface{}) error {
		return mdwerror.New("invalid configuration value").
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("config.Validate").
			WithDetail("field", field).
			WithDetail("value", value)
	}

	if c.GRPC.Port < 1 || c.GRPC.Port > 65535 {
		return invalid("grpc.port", c.GRPC.Port)
	}
	if c.HTTP.Port < 1 || c.HTTP.Port > 65535 {
		return invalid("http.port", c.HTTP.Port)
	}
	if c.GRPC.Port == c.HTTP.Port && c.GRPC.Host == c.HTTP.Host {
		return invalid("http.port", c.HTTP.Port)
	}
	if c.Alarm.Tick.Duration <= 0 {
		return invalid("alarm.tick", c.Alarm.Tick.String())
	}
	if !strings.EqualFold(c.Calendar.Locale, AutoLocale) && i18n.ValidateLocale(c.Calendar.Locale) != nil {
		return invalid("calendar.locale", c.Calendar.Locale)
	}
	switch strings.ToLower(c.Locales.Format) {
	case "", "toml", "yaml":
	default:
		return invalid("locales.format", c.Locales.Format)
	}
	if _, err := mdwlog.ParseLevel(c.Log.Level); err != nil {
		return invalid("log.level", c.Log.Level)
	}
	if _, err := mdwlog.ParseFormat(c.Log.Format); err != nil {
		return invalid("log.format", c.Log.Format)
	}
	return nil
}

// GRPCAddress returns the gRPC listen address
func (c *Config) GRPCAddress() string {
	return fmt.Sprintf("%s:%d", c.GRPC.Host, c.GRPC.Port)
}

// HTTPAddress returns the WebSocket listen address
func (c *Config) HTTPAddress() string {
	return fmt.Sprintf("%s:%d", c.HTTP.Host, c.HTTP.Port)
}
