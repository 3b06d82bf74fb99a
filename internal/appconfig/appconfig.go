// Package appconfig implements the process-wide configuration singleton,
// grounded on the teacher's YAML-backed sync.Once config loader: a single
// struct populated once from a YAML file (falling back to defaults and
// environment overrides) and handed out by a package-level accessor.
package appconfig

import (
	"os"
	"strconv"
	"sync"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "./quantgraph.config.yml"

// AppConfig is the process-wide runtime configuration.
type AppConfig struct {
	LogLevel   string `yaml:"log_level"`
	PrettyLogs bool   `yaml:"pretty_logs"`

	Compiler struct {
		SkipSinkValidation bool `yaml:"skip_sink_validation"`
	} `yaml:"compiler"`

	Runtime struct {
		FilterCacheCapacity int `yaml:"filter_cache_capacity"`
	} `yaml:"runtime"`
}

var (
	once sync.Once
	cfg  *AppConfig
)

// App returns the process-wide configuration singleton, loading it on
// first use.
func App() *AppConfig {
	once.Do(func() {
		cfg = load()
	})
	return cfg
}

func load() *AppConfig {
	c := defaults()

	path := configPath()
	if buffer, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(buffer, c); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("failed to parse config file, using defaults")
		}
	} else {
		log.Info().Str("path", path).Msg("no config file found, using defaults")
	}

	applyEnvOverrides(c)
	return c
}

func defaults() *AppConfig {
	c := &AppConfig{LogLevel: "info", PrettyLogs: true}
	c.Runtime.FilterCacheCapacity = 100
	return c
}

func configPath() string {
	if path := os.Getenv("QUANTGRAPH_CONFIG_PATH"); path != "" {
		return path
	}
	return defaultConfigPath
}

func applyEnvOverrides(c *AppConfig) {
	if v := os.Getenv("QUANTGRAPH_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("QUANTGRAPH_PRETTY_LOGS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.PrettyLogs = b
		}
	}
}
