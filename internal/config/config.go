package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultDatabaseURL = "sqlite:////tmp/test.db"
	defaultPort        = "3000"
	defaultKafkaTopic  = "starwars-events"
)

type Config struct {
	DatabaseURL      string
	DBConnectRetries int
	Port             string
	LogLevel         string

	JWTSecret  string
	JWTTTL     time.Duration
	BcryptCost int

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SessionTTL    time.Duration

	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads the configuration from the environment, after merging a .env
// file from the working directory when there is one.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg := &Config{
		DatabaseURL:      GetEnvAsString("DATABASE_URL", defaultDatabaseURL),
		DBConnectRetries: GetEnvAsInt("DB_CONNECT_RETRIES", 10),
		Port:             GetEnvAsString("PORT", defaultPort),
		LogLevel:         GetEnvAsString("LOG_LEVEL", "info"),

		JWTSecret:  GetEnvAsString("JWT_SECRET_KEY", ""),
		JWTTTL:     GetEnvAsDuration("JWT_TTL", 0),
		BcryptCost: GetEnvAsInt("BCRYPT_COST", bcrypt.DefaultCost),

		RedisAddr:     GetEnvAsString("REDIS_ADDR", ""),
		RedisPassword: GetEnvAsString("REDIS_PASSWORD", ""),
		RedisDB:       GetEnvAsInt("REDIS_DB", 0),
		SessionTTL:    GetEnvAsDuration("SESSION_TTL", 0),

		KafkaBrokers: GetEnvAsList("KAFKA_BROKERS"),
		KafkaTopic:   GetEnvAsString("KAFKA_TOPIC", defaultKafkaTopic),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET_KEY is required")
	}
	if c.JWTTTL < 0 {
		return errors.New("JWT_TTL must not be negative")
	}
	if c.Port == "" {
		return errors.New("PORT must not be empty")
	}
	return nil
}
