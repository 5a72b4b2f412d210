package config

import (
	"flag"
)

// flagKeys maps flag names to config keys for source tracking.
var flagKeys = map[string]string{
	"store":          "store",
	"store-dir":      "store_dir",
	"store-key":      "store_key",
	"redis-addr":     "redis_addr",
	"redis-db":       "redis_db",
	"latency":        "latency_ms",
	"locale":         "locale",
	"log-dir":        "log_dir",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-timestamps": "log_timestamps",
	"log-caller":     "log_caller",
}

// parseFlags defines and parses global CLI flags. Flags bind directly to
// cfg so their defaults reflect every lower layer.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	if fs == nil {
		fs = flag.NewFlagSet("tasklist", flag.ContinueOnError)
	}

	// Storage
	fs.StringVar(&cfg.Store, "store", cfg.Store, "Storage backend (memory, file, redis)")
	fs.StringVar(&cfg.StoreDir, "store-dir", cfg.StoreDir, "Directory for the file backend")
	fs.StringVar(&cfg.StoreKey, "store-key", cfg.StoreKey, "Key holding the task collection")
	fs.StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr, "Redis address (host:port)")
	fs.IntVar(&cfg.RedisDB, "redis-db", cfg.RedisDB, "Redis database number")
	fs.IntVar(&cfg.LatencyMS, "latency", cfg.LatencyMS, "Simulated storage latency (milliseconds)")

	// UI
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "UI language (en, ru)")

	// Logging
	fs.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "Log directory")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			cfg.Sources[key] = SourceFlag
		}
	})
	return nil
}
