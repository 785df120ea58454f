package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultJWTSecret         = "a-very-secret-key-should-be-longer-and-random"
	defaultHTTPClientTimeout = 10 * time.Second
	defaultAccessKeyCacheTTL = 30 * time.Minute
	defaultCalcCacheTTL      = 15 * time.Minute
)

// Config holds application configuration.
type Config struct {
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	MdpDatabaseURL    string
	MemberDatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret string
	JWTIssuer string

	// Downstream APIs. An empty URL leaves the matching client unwired.
	CalcAPIURL        string
	CasesAPIURL       string
	InvestmentAPIURL  string
	EpaAPIURL         string
	SingleAuthAPIURL  string
	BankAPIURL        string
	HTTPClientTimeout time.Duration

	AccessKeyCacheTTL time.Duration
	CalcCacheTTL      time.Duration

	RateLimit      string
	PosthogAPIKey  string
	UseSingleAuth  bool
	MigrationsPath string
	// MemberMigrationsPath is only set for local development, where the member store is ours to create.
	MemberMigrationsPath string
	CORSAllowedOrigins   []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("MDP_PGSQL_URL", "")
	viper.SetDefault("MEMBER_PGSQL_URL", "")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("JWT_SECRET", defaultJWTSecret)
	viper.SetDefault("JWT_ISSUER", "")
	viper.SetDefault("CALC_API_URL", "")
	viper.SetDefault("CASES_API_URL", "")
	viper.SetDefault("INVESTMENT_API_URL", "")
	viper.SetDefault("EPA_API_URL", "")
	viper.SetDefault("SINGLE_AUTH_API_URL", "")
	viper.SetDefault("BANK_API_URL", "")
	viper.SetDefault("HTTP_CLIENT_TIMEOUT", "10s")
	viper.SetDefault("ACCESS_KEY_CACHE_TTL", "30m")
	viper.SetDefault("CALC_CACHE_TTL", "15m")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("USE_SINGLE_AUTH", false)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations/mdp")
	viper.SetDefault("MEMBER_MIGRATIONS_PATH", "")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.MdpDatabaseURL = viper.GetString("MDP_PGSQL_URL")
	if cfg.MdpDatabaseURL == "" {
		log.Println("Warning: MDP_PGSQL_URL environment variable not set.")
	}
	cfg.MemberDatabaseURL = viper.GetString("MEMBER_PGSQL_URL")
	if cfg.MemberDatabaseURL == "" {
		log.Println("Warning: MEMBER_PGSQL_URL environment variable not set.")
	}

	cfg.RedisAddr = viper.GetString("REDIS_ADDR")
	cfg.RedisPassword = viper.GetString("REDIS_PASSWORD")
	cfg.RedisDB = viper.GetInt("REDIS_DB")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
		cfg.JWTSecret = defaultJWTSecret // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.CalcAPIURL = viper.GetString("CALC_API_URL")
	if cfg.CalcAPIURL == "" {
		log.Println("Warning: CALC_API_URL environment variable not set.")
	}
	cfg.CasesAPIURL = viper.GetString("CASES_API_URL")
	cfg.InvestmentAPIURL = viper.GetString("INVESTMENT_API_URL")
	cfg.EpaAPIURL = viper.GetString("EPA_API_URL")
	cfg.SingleAuthAPIURL = viper.GetString("SINGLE_AUTH_API_URL")
	cfg.BankAPIURL = viper.GetString("BANK_API_URL")

	cfg.HTTPClientTimeout = parseDuration("HTTP_CLIENT_TIMEOUT", defaultHTTPClientTimeout)
	cfg.AccessKeyCacheTTL = parseDuration("ACCESS_KEY_CACHE_TTL", defaultAccessKeyCacheTTL)
	cfg.CalcCacheTTL = parseDuration("CALC_CACHE_TTL", defaultCalcCacheTTL)

	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")
	cfg.UseSingleAuth = viper.GetBool("USE_SINGLE_AUTH")
	if cfg.UseSingleAuth && cfg.SingleAuthAPIURL == "" {
		log.Println("Warning: USE_SINGLE_AUTH is set but SINGLE_AUTH_API_URL is empty. Linked member flags will be skipped.")
	}
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")
	cfg.MemberMigrationsPath = viper.GetString("MEMBER_MIGRATIONS_PATH")
	for _, origin := range strings.Split(viper.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	return cfg, nil
}

// parseDuration reads a duration key such as "10s" or "30m", falling back on a bad or empty value.
func parseDuration(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback.String())
		}
		return fallback
	}
	return d
}
