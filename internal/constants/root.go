package constants

const (
	AppName             = "vane"
	DefaultKeyringUser  = "database-connection"
	DefaultConfigPath   = "~/.config/vane/vane.db"
	DefaultSettingsPath = "~/.config/vane/config.toml"
	Version             = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "vane-"
	BackupFileSuffix = ".db"

	// DefaultUserID is the profile used by the CLI when --user is not given.
	DefaultUserID = "local"
)
