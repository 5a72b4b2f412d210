package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# tasklist configuration file
# Values can be overridden by .env, TASKLIST_* environment variables or CLI flags

# Storage backend: memory, file or redis
store = "file"

# Directory for the file backend (relative to project root)
store_dir = ".tasklist"

# Key holding the task collection
store_key = "todos"

# Redis backend settings (store = "redis")
# redis_addr = "localhost:6379"
# redis_password = ""
# redis_db = 0

# Simulated storage latency in milliseconds
latency_ms = 300

# UI language: en or ru
locale = "en"

# Session log directory (supports ~ expansion and %VAR% on Windows)
log_dir = "~/.tasklist/logs"

# Logging: level (debug, info, warn, error), format (text, json, logfmt)
log_level = "info"
log_format = "text"
log_timestamps = false
log_caller = false
`
}
