package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Judge    JudgeConfig    `mapstructure:"judge"`
	Review   ReviewConfig   `mapstructure:"review"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret"                     validate:"required,min=32"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes"         validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`
}

// JudgeConfig contains the judgment-service integration settings. An empty
// API key is allowed: the grading pipeline then degrades every grading to
// its fallback outcome instead of refusing to start.
type JudgeConfig struct {
	GeminiAPIKey          string `mapstructure:"gemini_api_key"`
	ModelName             string `mapstructure:"model_name"`
	MaxAttempts           int    `mapstructure:"max_attempts"            validate:"gte=0"`
	AttemptTimeoutSeconds int    `mapstructure:"attempt_timeout_seconds" validate:"gte=0"`
	BreakerThreshold      int    `mapstructure:"breaker_threshold"       validate:"gte=0"`
	BreakerCooldownSecs   int    `mapstructure:"breaker_cooldown_secs"   validate:"gte=0"`
}

// ReviewConfig contains scheduler and review-query tuning.
type ReviewConfig struct {
	// DesiredRetention is the target recall probability. Higher values
	// shorten intervals. System-wide, not per learner.
	DesiredRetention float64 `mapstructure:"desired_retention" validate:"gte=0,lte=1"`

	// MasteryStabilityDays is the stability threshold above which a
	// review-state card counts as mastered.
	MasteryStabilityDays float64 `mapstructure:"mastery_stability_days" validate:"gte=0"`

	// DueLimit is the default page size for due-review queries.
	DueLimit int `mapstructure:"due_limit" validate:"gte=0"`
}
