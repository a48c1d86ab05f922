// Package config resolves client settings.
//
// Precedence, lowest first: built-in defaults, the YAML file, environment
// variables, command-line flags. The YAML file is <home>/config.yaml unless
// --config names another one; a missing default file is not an error.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Config holds all client configuration.
type Config struct {
	// APIURL is the REST base address, scheme+host+port.
	APIURL string `yaml:"api_url"`
	// Home holds the session, config and log files.
	Home string `yaml:"home"`
	// LogLevel is debug, info, warn or error.
	LogLevel string `yaml:"log_level"`
	// LogFile defaults to <home>/tada.log.
	LogFile string `yaml:"log_file"`
	// Theme is classic, neon or mono.
	Theme string `yaml:"theme"`

	configFile string
}

// Flags are the global command-line overrides.
type Flags struct {
	APIURL   string
	Home     string
	LogLevel string
	Config   string
	Theme    string
}

// Register adds the global flags to fs.
func (f *Flags) Register(fs *pflag.FlagSet) {
	fs.StringVar(&f.APIURL, "api", "", "REST API base address (env TADA_API_URL)")
	fs.StringVar(&f.Home, "home", "", "directory for session and logs (env TADA_HOME)")
	fs.StringVar(&f.LogLevel, "log-level", "", "debug, info, warn or error (env TADA_LOG_LEVEL)")
	fs.StringVar(&f.Config, "config", "", "YAML config file (default <home>/config.yaml)")
	fs.StringVar(&f.Theme, "theme", "", "classic, neon or mono (env TADA_THEME)")
}

// Default returns the built-in settings.
func Default() Config {
	home := ".tada"
	if dir, err := os.UserHomeDir(); err == nil {
		home = filepath.Join(dir, ".tada")
	}
	return Config{
		APIURL:   "http://localhost:3000",
		Home:     home,
		LogLevel: "info",
		Theme:    "classic",
	}
}

// Load merges defaults, file, environment and flags, then validates.
func Load(flags Flags) (*Config, error) {
	cfg := Default()

	// home decides where the default config file lives
	home := firstNonEmpty(flags.Home, os.Getenv("TADA_HOME"), cfg.Home)

	path := flags.Config
	explicit := path != ""
	if !explicit {
		path = filepath.Join(home, "config.yaml")
	}
	if err := cfg.loadFile(path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	} else {
		cfg.configFile = path
	}

	cfg.APIURL = firstNonEmpty(flags.APIURL, os.Getenv("TADA_API_URL"), cfg.APIURL)
	cfg.Home = firstNonEmpty(flags.Home, os.Getenv("TADA_HOME"), cfg.Home)
	cfg.LogLevel = firstNonEmpty(flags.LogLevel, os.Getenv("TADA_LOG_LEVEL"), cfg.LogLevel)
	cfg.Theme = firstNonEmpty(flags.Theme, os.Getenv("TADA_THEME"), cfg.Theme)
	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(cfg.Home, "tada.log")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Validate checks the values that would otherwise fail later.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api url %q: want http(s)://host[:port]", c.APIURL)
	}
	if c.Home == "" {
		return errors.New("home directory is empty")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	switch strings.ToLower(c.Theme) {
	case "classic", "neon", "mono":
	default:
		return fmt.Errorf("unknown theme %q", c.Theme)
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// File is the config file that was read, if any.
func (c *Config) File() string { return c.configFile }

// String returns a one-line summary.
func (c *Config) String() string {
	return fmt.Sprintf("Config{API: %s, Home: %s, Log: %s@%s}", c.APIURL, c.Home, c.LogFile, c.LogLevel)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
