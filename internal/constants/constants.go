package constants

import "time"

const (
	AppName            = "studystreak"
	DefaultKeyringUser = "database-connection"
	PassphraseUser     = "override-passphrase"
	DefaultConfigDir   = "~/.config/studystreak"
	DefaultConfigFile  = "config.yaml"
	DefaultDataPath    = "~/.config/studystreak/studystreak.db"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Storage keys, shared with browser exports
	AppStateKey         = "appData"
	MilestoneKey        = "lastCelebratedMilestone"
	UserNamespacePrefix = "users"

	// Storage backends
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendJSON     = "json"
	BackendDir      = "dir"
	BackendMemory   = "memory"

	// Statistics
	DefaultHeatmapWindowDays = 91
	WeeklyWindowDays         = 7
	RecentHoursDays          = 14
	DefaultChallengeGoal     = 100

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "studystreak-"

	// Notify constants
	NotifierLockfileName   = "studystreak-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.studystreak"
	TrayExecutablePrefix   = "studystreak-tray"
	NotifyTimeout          = 2 * time.Second
)

// MilestoneThresholds is the fixed ascending ladder of celebrated streak lengths.
var MilestoneThresholds = []int{7, 14, 21, 30, 50, 75, 100}
