package constants

// Application Information
const (
	AppName    = "Translation Hub Server"
	AppVersion = "1.0.0"
)

// Environment Types
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Default Application Settings
const (
	DefaultPort        = "8080"
	DefaultEnvironment = EnvDevelopment
)

// Translation kinds stored in the history table
const (
	TranslationKindText  = "text"
	TranslationKindVoice = "voice"
)

// Cache Key Prefixes
const (
	CacheKeyPrefix      = "hub:"
	CacheKeyTranslation = CacheKeyPrefix + "translation:"
	CacheKeySession     = CacheKeyPrefix + "session:"
)

// Log Levels
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
	LogLevelFatal = "fatal"
)
