package types

type RunMode string

const (
	// ModeLocal is the mode for running the API server against a local or unreachable remote
	ModeLocal RunMode = "local"
	// ModeAPI is the mode for running the API server against the configured remote
	ModeAPI RunMode = "api"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)
