package config

import (
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string `validate:"required"`
	Port          string `validate:"required"`
	IsProduction  bool
	EnableDBCheck bool

	JWTSecret         string `validate:"required,min=16"`
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Optional infrastructure: empty values disable the component and the
	// engine degrades gracefully (no cache, log-only events).
	RedisAddr     string
	RedisPassword string
	KafkaBrokers  []string

	TxMaxAttempts      int           `validate:"gte=1"`
	TxAttemptTimeout   time.Duration `validate:"gt=0"`
	RatePolicyCacheTTL time.Duration
}

// LoadConfig loads configuration from environment variables and a .env file
// if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "roomledger")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("TX_MAX_ATTEMPTS", 3)
	viper.SetDefault("TX_ATTEMPT_TIMEOUT", "3s")
	viper.SetDefault("RATE_POLICY_CACHE_TTL", "30s")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration)
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.RedisAddr = viper.GetString("REDIS_ADDR")
	cfg.RedisPassword = viper.GetString("REDIS_PASSWORD")
	if brokers := viper.GetString("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	cfg.TxMaxAttempts = viper.GetInt("TX_MAX_ATTEMPTS")

	txTimeoutStr := viper.GetString("TX_ATTEMPT_TIMEOUT")
	txTimeout, err := time.ParseDuration(txTimeoutStr)
	if err != nil {
		txTimeout = 3 * time.Second
		log.Printf("Warning: Invalid value for TX_ATTEMPT_TIMEOUT ('%s'). Defaulting to %s.\n", txTimeoutStr, txTimeout)
	}
	cfg.TxAttemptTimeout = txTimeout

	cacheTTLStr := viper.GetString("RATE_POLICY_CACHE_TTL")
	cacheTTL, err := time.ParseDuration(cacheTTLStr)
	if err != nil {
		cacheTTL = 30 * time.Second
		log.Printf("Warning: Invalid value for RATE_POLICY_CACHE_TTL ('%s'). Defaulting to %s.\n", cacheTTLStr, cacheTTL)
	}
	cfg.RatePolicyCacheTTL = cacheTTL

	if err := validator.New().Struct(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
