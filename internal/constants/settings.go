package constants

const (
	// Server settings
	DefaultServerAddr         = "127.0.0.1:8080"
	DefaultShutdownTimeoutSec = 10
	RequestIDHeader           = "X-Request-ID"

	// User defaults
	DefaultTimezone = "Local" // Use system local timezone by default
	DefaultUsername = "me"
)
