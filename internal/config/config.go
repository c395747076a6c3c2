package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App      *AppConfig      `yaml:"app"`
	Database *DatabaseConfig `yaml:"database"`
	Redis    *RedisConfig    `yaml:"redis"`
	SMTP     *SMTPConfig     `yaml:"smtp"`
	SMS      *SMSConfig      `yaml:"sms"`
	Storage  *StorageConfig  `yaml:"storage"`
	Security *SecurityConfig `yaml:"security"`
	Jobs     *JobsConfig     `yaml:"jobs"`
	Fare     *FareConfig     `yaml:"fare"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Environment string `yaml:"environment"`
	Port        int    `yaml:"port"`
	Host        string `yaml:"host"`
	BaseURL     string `yaml:"base_url"`
	Debug       bool   `yaml:"debug"`
	LogLevel    string `yaml:"log_level"`
	Timezone    string `yaml:"timezone"`
}

type SecurityConfig struct {
	JWTSecret          string        `yaml:"jwt_secret"`
	JWTAccessTokenTTL  time.Duration `yaml:"jwt_access_token_ttl"`
	JWTRefreshTokenTTL time.Duration `yaml:"jwt_refresh_token_ttl"`
	OTPLength          int           `yaml:"otp_length"`
	OTPExpiry          time.Duration `yaml:"otp_expiry"`
	MaxOTPAttempts     int           `yaml:"max_otp_attempts"`
	MaxOTPResends      int           `yaml:"max_otp_resends"`
	RideVerifyWindow   time.Duration `yaml:"ride_verify_window"`
	PasswordMinLength  int           `yaml:"password_min_length"`
	CORSAllowedOrigins []string      `yaml:"cors_allowed_origins"`
	TrustedProxies     []string      `yaml:"trusted_proxies"`
	CookieSecure       bool          `yaml:"cookie_secure"`
	CookieDomain       string        `yaml:"cookie_domain"`
}

// JobsConfig carries the cron specs for the cleanup sweeps.
type JobsConfig struct {
	Enabled             bool   `yaml:"enabled"`
	DeletedUsersSpec    string `yaml:"deleted_users_spec"`
	UnverifiedUsersSpec string `yaml:"unverified_users_spec"`
	UnverifiedRidesSpec string `yaml:"unverified_rides_spec"`
}

type FareConfig struct {
	BaseFare        float64 `yaml:"base_fare"`
	RatePerDistance float64 `yaml:"rate_per_distance"`
}

func Load() (*Config, error) {
	config := &Config{
		App:      loadAppConfig(),
		Database: loadDatabaseConfig(),
		Redis:    loadRedisConfig(),
		SMTP:     loadSMTPConfig(),
		SMS:      loadSMSConfig(),
		Storage:  loadStorageConfig(),
		Security: loadSecurityConfig(),
		Jobs:     loadJobsConfig(),
		Fare:     loadFareConfig(),
	}

	return config, nil
}

func loadAppConfig() *AppConfig {
	return &AppConfig{
		Name:        getEnv("APP_NAME", "GoTransit"),
		Version:     getEnv("APP_VERSION", "1.0.0"),
		Environment: getEnv("APP_ENV", "development"),
		Port:        getEnvAsInt("APP_PORT", 8080),
		Host:        getEnv("APP_HOST", "localhost"),
		BaseURL:     getEnv("APP_BASE_URL", "http://localhost:8080"),
		Debug:       getEnvAsBool("APP_DEBUG", true),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Timezone:    getEnv("APP_TIMEZONE", "UTC"),
	}
}

func loadSecurityConfig() *SecurityConfig {
	return &SecurityConfig{
		JWTSecret:          getEnv("JWT_SECRET", "change-me"),
		JWTAccessTokenTTL:  getEnvAsDuration("JWT_ACCESS_TOKEN_TTL", 24*time.Hour),
		JWTRefreshTokenTTL: getEnvAsDuration("JWT_REFRESH_TOKEN_TTL", 10*24*time.Hour),
		OTPLength:          getEnvAsInt("OTP_LENGTH", 6),
		OTPExpiry:          getEnvAsDuration("OTP_EXPIRY", 2*time.Minute),
		MaxOTPAttempts:     getEnvAsInt("MAX_OTP_ATTEMPTS", 5),
		MaxOTPResends:      getEnvAsInt("MAX_OTP_RESENDS", 3),
		RideVerifyWindow:   getEnvAsDuration("RIDE_VERIFY_WINDOW", 5*time.Minute),
		PasswordMinLength:  getEnvAsInt("PASSWORD_MIN_LENGTH", 8),
		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
		TrustedProxies:     getEnvAsSlice("TRUSTED_PROXIES", []string{}),
		CookieSecure:       getEnvAsBool("COOKIE_SECURE", false),
		CookieDomain:       getEnv("COOKIE_DOMAIN", ""),
	}
}

func loadJobsConfig() *JobsConfig {
	return &JobsConfig{
		Enabled:             getEnvAsBool("JOBS_ENABLED", true),
		DeletedUsersSpec:    getEnv("JOBS_DELETED_USERS_SPEC", "0 0 * * *"),
		UnverifiedUsersSpec: getEnv("JOBS_UNVERIFIED_USERS_SPEC", "*/30 * * * *"),
		UnverifiedRidesSpec: getEnv("JOBS_UNVERIFIED_RIDES_SPEC", "*/5 * * * *"),
	}
}

func loadFareConfig() *FareConfig {
	return &FareConfig{
		BaseFare:        getEnvAsFloat64("FARE_BASE", 10),
		RatePerDistance: getEnvAsFloat64("FARE_RATE_PER_KM", 2),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func IsProduction() bool {
	return getEnv("APP_ENV", "development") == "production"
}
