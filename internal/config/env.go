package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "TASKLIST_"

// loadFromEnv overrides config from TASKLIST_* environment variables.
func loadFromEnv(cfg *Config) error {
	setString := func(key string, target *string) {
		if v, ok := lookupEnv(key); ok {
			*target = v
			cfg.Sources[key] = SourceEnv
		}
	}
	setInt := func(key string, target *int) error {
		v, ok := lookupEnv(key)
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s%s: invalid integer %q", EnvPrefix, strings.ToUpper(key), v)
		}
		*target = n
		cfg.Sources[key] = SourceEnv
		return nil
	}
	setBool := func(key string, target *bool) error {
		v, ok := lookupEnv(key)
		if !ok {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s%s: invalid boolean %q", EnvPrefix, strings.ToUpper(key), v)
		}
		*target = b
		cfg.Sources[key] = SourceEnv
		return nil
	}

	setString("store", &cfg.Store)
	setString("store_dir", &cfg.StoreDir)
	setString("store_key", &cfg.StoreKey)
	setString("redis_addr", &cfg.RedisAddr)
	setString("redis_password", &cfg.RedisPassword)
	setString("locale", &cfg.Locale)
	setString("log_dir", &cfg.LogDir)
	setString("log_level", &cfg.LogLevel)
	setString("log_format", &cfg.LogFormat)

	for key, target := range map[string]*int{
		"redis_db":   &cfg.RedisDB,
		"latency_ms": &cfg.LatencyMS,
	} {
		if err := setInt(key, target); err != nil {
			return err
		}
	}
	for key, target := range map[string]*bool{
		"log_timestamps": &cfg.LogTimestamps,
		"log_caller":     &cfg.LogCaller,
	} {
		if err := setBool(key, target); err != nil {
			return err
		}
	}
	return nil
}

// lookupEnv reads TASKLIST_<KEY>, ignoring blank values.
func lookupEnv(key string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + strings.ToUpper(key))
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return "", false
	}
	return v, true
}
