package config

import (
	"sort"
	"time"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// Default values.
const (
	DefaultStore     = "file"
	DefaultStoreDir  = ".tasklist"
	DefaultStoreKey  = "todos"
	DefaultLatencyMS = 300
	DefaultLocale    = "en"
	DefaultLogDir    = "~/.tasklist/logs"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Config holds the full configuration for tasklist.
type Config struct {
	// Storage
	Store    string `toml:"store"`
	StoreDir string `toml:"store_dir"`
	StoreKey string `toml:"store_key"`

	// Redis backend
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`

	// Simulated storage latency in milliseconds
	LatencyMS int `toml:"latency_ms"`

	// UI language
	Locale string `toml:"locale"`

	// Logging configuration
	LogDir        string `toml:"log_dir"`
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Computed at load time
	ProjectRoot string                  `toml:"-"`
	Files       []string                `toml:"-"`
	Sources     map[string]ConfigSource `toml:"-"`
}

// Latency returns the simulated storage latency.
func (c *Config) Latency() time.Duration {
	return time.Duration(c.LatencyMS) * time.Millisecond
}

// Source returns where the value of key came from.
func (c *Config) Source(key string) ConfigSource {
	if s, ok := c.Sources[key]; ok {
		return s
	}
	return SourceDefault
}

// Setting is one resolved key for display.
type Setting struct {
	Key    string
	Value  any
	Source ConfigSource
}

// Settings lists every key with its value and source, sorted by key.
// The Redis password is masked.
func (c *Config) Settings() []Setting {
	password := ""
	if c.RedisPassword != "" {
		password = "********"
	}
	values := map[string]any{
		"store":          c.Store,
		"store_dir":      c.StoreDir,
		"store_key":      c.StoreKey,
		"redis_addr":     c.RedisAddr,
		"redis_password": password,
		"redis_db":       c.RedisDB,
		"latency_ms":     c.LatencyMS,
		"locale":         c.Locale,
		"log_dir":        c.LogDir,
		"log_level":      c.LogLevel,
		"log_format":     c.LogFormat,
		"log_timestamps": c.LogTimestamps,
		"log_caller":     c.LogCaller,
	}
	out := make([]Setting, 0, len(values))
	for key, value := range values {
		out = append(out, Setting{Key: key, Value: value, Source: c.Source(key)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
