package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client.
var UserAgent = "Go-Hijri/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go Hijri"
	AppID             = "com.github.tartampluch.go-hijri"
	KeyringService    = "com.github.tartampluch.go-hijri"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
	AppDirName        = "go-hijri"
	StateFileName     = "state.yaml"
	EnvPrefix         = "GO_HIJRI"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	// Used for the log and the state file.
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	ExtTemp = ".tmp"
)

// -----------------------------------------------------------------------------
// Calendar Model
// -----------------------------------------------------------------------------

const (
	ModeTabular      = "tabular"
	ModeAstronomical = "astronomical"

	WeekStartSaturday = "saturday"
	WeekStartSunday   = "sunday"
	WeekStartMonday   = "monday"

	// MaxCorrectionDays bounds a single month correction.
	MaxCorrectionDays = 5

	// DefaultMonthCacheSize covers more than three centuries of month starts.
	DefaultMonthCacheSize = 4096

	// MaxSearchSteps bounds the astronomical month walk around an estimate.
	MaxSearchSteps = 8

	// MaxSettleSteps bounds the month walk of a corrected reverse conversion.
	MaxSettleSteps = 24

	FormatISODate      = "%04d-%02d-%02d"
	FormatMonthKey     = "%04d-%02d"
	FormatMonthKeyScan = "%d-%d%s"
	FormatHijriScan    = "%d-%d-%d%s"

	CorrectionSeparator = "="
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion   = "version"
	FlagDebug     = "debug"
	FlagConfig    = "config"
	FlagState     = "state"
	FlagPort      = "port"
	FlagInterval  = "interval"
	FlagSource    = "source"
	FlagLocalPath = "vcf"
	FlagURL       = "url"
	FlagUser      = "user"
	FlagReminder  = "reminder"
	FlagWeekStart = "week-start"

	FlagDescVersion   = "Show application version and exit"
	FlagDescDebug     = "Enable debug logging"
	FlagDescConfig    = "Optional configuration file (yaml, toml or json)"
	FlagDescState     = "Calendar state file (default: user config dir)"
	FlagDescPort      = "Port of the local feed server"
	FlagDescInterval  = "Feed refresh interval in minutes"
	FlagDescSource    = "Birthday source: none, local or web"
	FlagDescLocalPath = "Path to a .vcf file (source=local)"
	FlagDescURL       = "CardDAV or WebDAV URL (source=web)"
	FlagDescUser      = "Username for the web source; the password is read from the keyring"
	FlagDescReminder  = "ISO 8601 alarm trigger for birthdays, e.g. -P1D"
	FlagDescWeekStart = "Override the stored week start for this grid"

	// Keys read from viper that have no flag.
	KeyPassword = "password"

	MsgVersionOutput = "%s version %s (%s/%s)\n"
	MsgPasswordSaved = "Password stored in the system keyring."
	MsgPasswordGone  = "Password removed from the system keyring."
	MsgPrompt        = "Password: "
)

// -----------------------------------------------------------------------------
// Preferences (GUI hosts)
// -----------------------------------------------------------------------------

const (
	PrefMode        = "mode"
	PrefWeekStart   = "week_start"
	PrefLanguage    = "language"
	PrefCorrections = "corrections"
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	LocalesDir   = "locales"
	LocalePrefix = "active."
	LocaleSuffix = ".json"
	LocaleFormat = "json"

	// Indexed keys, formatted with the month or weekday number.
	TKeyGregorianMonth = "gregorian_month_%d"
	TKeyHijriMonth     = "hijri_month_%d"
	TKeyWeekday        = "weekday_%d"

	TKeyRangeSameMonth   = "range_same_month"  // Requires Month, Year
	TKeyRangeSameYear    = "range_same_year"   // Requires StartMonth, EndMonth, Year
	TKeyRangeCrossYear   = "range_cross_year"  // Requires StartMonth, StartYear, EndMonth, EndYear
	TKeyHijriDate        = "hijri_date"        // Requires Day, Month, Year
	TKeyEvtMonthStart    = "event_month_start" // Requires Month, Year
	TKeyEvtBirthdayAge   = "event_birthday_age"
	TKeyEvtBirthdayBirth = "event_birthday_birth" // For age 0
	TKeyCalendarName     = "calendar_name"
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	SourceModeNone    = "none"
	SourceModeWeb     = "web"
	SourceModeLocal   = "local"
	DefaultPort       = "18080"
	DefaultRefreshMin = 60
	DefaultLanguage   = "en"
	DefaultLeapYear   = 2000 // Leap year fallback for dates like --02-29
	UIDSalt           = "go-hijri-v1-"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	// iCal Properties
	ICalVersion   = "2.0"
	ICalProdid    = "-//Go Hijri//Engine//EN"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"
	ICalDomain    = "gohijri"

	// iCal/vCard Fields
	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDTStart     = "DTSTART"
	PropDTStamp     = "DTSTAMP"
	PropRefresh     = "REFRESH-INTERVAL"
	PropAction      = "ACTION"
	PropDescription = "DESCRIPTION"
	PropTrigger     = "TRIGGER"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"

	VCardBDAY = "BDAY"
	VCardFN   = "FN"
	VCardN    = "N"

	DefaultICalRefresh = 1 * time.Hour
)

// -----------------------------------------------------------------------------
// Data Formats & Limits
// -----------------------------------------------------------------------------

const (
	// Date layouts used for parsing vCard BDAY fields
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05Z"
	DateFormatNoYearD   = "--01-02"
	DateFormatNoYearB   = "--0102"

	// UID Generation
	UIDHashLength   = 16
	FormatHashInput = "%s|%s|%s"
	FormatUID       = "%s-%d@%s"
	FormatMonthUID  = "month-%04d-%02d@%s"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	RetryAfterSeconds   = "10"
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 32 * 1024 * 1024 // 32MB
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	RouteRoot           = "/"
	RouteMetrics        = "/metrics"
	AddrSeparator       = ":"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderAccept          = "Accept"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeVCard           = "text/vcard"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Metrics
// -----------------------------------------------------------------------------

const (
	MetricsNamespace       = "hijri"
	MetricsSubsystemHijri  = "engine"
	MetricsSubsystemFeed   = "feed"
	MetricsSubsystemServer = "server"

	MetricsLabelResult = "result"
	MetricsLabelStatus = "status"
	MetricsLabelCode   = "code"

	MetricsResultHit   = "hit"
	MetricsResultMiss  = "miss"
	MetricsStatusOK    = "ok"
	MetricsStatusError = "error"
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	// Conversion contract
	ErrInvalidArgument       = "invalid argument"
	ErrInternalInconsistency = "internal inconsistency"
	ErrMonthCache            = "failed to create month-start cache"
	ErrModeUnsupported       = "unsupported calendar mode"
	ErrWeekStart             = "invalid week start"
	ErrLanguage              = "unsupported language"
	ErrDependencyMissing     = "missing dependency"
	ErrSettle                = "reverse conversion did not settle"
	ErrHijriDate             = "expected a hijri date as YYYY-MM-DD"
	ErrGregorianDate         = "expected a gregorian date as YYYY-MM-DD"
	ErrOffset                = "expected an integer day offset"

	// State & keyring
	ErrCorrectionEntry = "malformed correction entry"
	ErrRecordInvalid   = "invalid calendar state"
	ErrConfigDir       = "could not determine user config dir"
	ErrStateRead       = "failed to read state file"
	ErrStateParse      = "failed to parse state file"
	ErrStateEncode     = "failed to encode state"
	ErrStateWrite      = "failed to write state file"
	ErrUserEmpty       = "keyring user is empty"
	ErrKeyringSet      = "failed to store password in keyring"
	ErrKeyringGet      = "failed to read password from keyring"
	ErrKeyringDelete   = "failed to delete password from keyring"
	ErrLocalesAccess   = "failed to access embedded locales"
	ErrLocaleLoad      = "failed to load locale file"
	ErrConfigRead      = "failed to read configuration file"
	ErrConfigDecode    = "failed to decode configuration"

	// Feed
	ErrLocalPathEmpty    = "configuration error: local path is empty"
	ErrWebURLEmpty       = "configuration error: web URL is empty"
	ErrFetcherMissing    = "internal error: network fetcher is not initialized"
	ErrCalendarMissing   = "internal error: calendar is not initialized"
	ErrSourceUnsupported = "configuration error: unsupported source mode"
	ErrInvalidURL        = "invalid URL structure"
	ErrProtocol          = "unsupported protocol scheme (http/https only)"
	ErrRequestBuild      = "failed to create request"
	ErrNetwork           = "network error during fetch"
	ErrHTTPStatus        = "server returned unexpected status"
	ErrVCardParse        = "failed to read vCard source"
	ErrICalEncode        = "failed to encode iCalendar data"
	ErrDateParse         = "unable to parse date"

	// Server & process
	ErrServerStartup  = "server startup failed"
	ErrServerShutdown = "server shutdown failed"
	ErrPortRequired   = "server port is required"
	ErrIntervalRange  = "refresh interval must be positive"
	ErrLogFile        = "failed to open log file"
	ErrCacheDir       = "could not determine user cache dir"
	ErrCreateDir      = "could not create app directory"
	ErrAppFailed      = "application failed unexpectedly"
	ErrWriteResp      = "failed to write response body"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Calendar initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
)

// -----------------------------------------------------------------------------
// Fallbacks & Log Messages
// -----------------------------------------------------------------------------

const (
	FallbackName = "Unknown"

	MsgAppStop            = "Application stopped gracefully"
	MsgCtxCancel          = "Context cancelled, shutting down"
	MsgAppStarting        = "Starting application"
	MsgLogWarning         = "Warning: %s at %s: %v\n"
	MsgModeChanged        = "Calendar mode changed"
	MsgCorrectionSet      = "Month correction updated"
	MsgCorrectionsCleared = "Month corrections cleared"
	MsgStateDefault       = "No state file, using defaults"
	MsgStateSaved         = "State saved"
	MsgPassFail           = "Password retrieval failed (might be empty)"
	MsgLocaleSkip         = "Skipping non-locale file"
	MsgLocaleLoaded       = "Locale loaded successfully"
	MsgTransMissing       = "Missing translation key"
	MsgSyncStarted        = "Feed generation started"
	MsgSyncFinished       = "Feed generation finished"
	MsgSkippedCard        = "Skipping malformed vCard"
	MsgSkippedDate        = "Skipping invalid date"
	MsgSkippedNoYear      = "Skipping birthday without a year"
	MsgGenSuccess         = "Calendar generation successful"
	MsgBdayToday          = "Hijri birthday found today"
	MsgFetchStart         = "Initiating vCard download"
	MsgFetchStatus        = "Server returned error status"
	MsgFetchOK            = "vCards downloading"
	MsgServerListen       = "HTTP server listening"
	MsgServerStop         = "Shutting down HTTP server..."
	MsgFeedUpdated        = "Feed updated"
	MsgRefreshFailed      = "Feed refresh failed, keeping previous feed"
	MsgRefreshScheduled   = "Feed refresh scheduled"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyLength    = "content_length"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyMode      = "mode"
	LogKeyInterval  = "interval"
	LogKeyOld       = "old"
	LogKeyNew       = "new"
	LogKeyUser      = "user"
	LogKeyMonth     = "month"
	LogKeyTotal     = "total_cards"
	LogKeyFound     = "birthdays_found"
	LogKeyToday     = "birthdays_today"
	LogKeyEvents    = "events"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyValue     = "value"
	LogKeyStats     = "stats"
	LogKeyCount     = "count"
	LogKeyName      = "name"
	LogKeyDOB       = "date_of_birth"
	LogKeyDuration  = "duration_ms"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyCommit  = "commit"
	LogKeyDate    = "date"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompCalendar = "calendar"
	CompEngine   = "engine"
	CompServer   = "server"
	CompFetcher  = "fetcher"
	CompStore    = "store"
	CompMain     = "main"
	CompI18n     = "i18n"
)
