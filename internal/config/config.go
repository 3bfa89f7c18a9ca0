package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	Server   ServerConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	JWT      JWTConfig
	SMTP     SMTPConfig
	Payment  PaymentConfig
	Media    MediaConfig
	Geodata  GeodataConfig
}

func (c *Config) Production() bool {
	return c.Env == "production"
}

type ServerConfig struct {
	Host string
	Port int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type PostgresConfig struct {
	User     string
	Password string
	Name     string
	Host     string
	Port     int
	SSLMode  string
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

type PaymentConfig struct {
	BaseURL       string
	MerchantCode  string
	Secret        string
	ReturnURL     string
	WebhookSecret string
}

type MediaConfig struct {
	BaseURL string
	APIKey  string
}

type GeodataConfig struct {
	BaseURL string
}

func New() (*Config, error) {
	const op = "config.New"

	_ = godotenv.Load()

	serverPort, err := lookupInt("SERVER_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	postgresPort, err := lookupInt("POSTGRES_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	postgresUser, err := require("POSTGRES_USER")
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	postgresPassword, err := require("POSTGRES_PASSWORD")
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	postgresDB, err := require("POSTGRES_DB")
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	redisDB, err := lookupInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	jwtSecret, err := require("JWT_SECRET")
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	jwtTTLHours, err := lookupInt("JWT_TTL_HOURS", 24)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	smtpPort, err := lookupInt("SMTP_PORT", 587)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	paymentSecret, err := require("PAYMENT_SECRET")
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return &Config{
		Env: lookup("APP_ENV", "development"),
		Server: ServerConfig{
			Host: lookup("SERVER_HOST", "localhost"),
			Port: serverPort,
		},
		Postgres: PostgresConfig{
			User:     postgresUser,
			Password: postgresPassword,
			Name:     postgresDB,
			Host:     lookup("POSTGRES_HOST", "localhost"),
			Port:     postgresPort,
			SSLMode:  lookup("POSTGRES_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     lookup("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		JWT: JWTConfig{
			Secret: jwtSecret,
			TTL:    time.Duration(jwtTTLHours) * time.Hour,
			Issuer: lookup("JWT_ISSUER", "eth-api"),
		},
		SMTP: SMTPConfig{
			Host:     lookup("SMTP_HOST", "localhost"),
			Port:     smtpPort,
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     lookup("SMTP_FROM", "no-reply@emergingtalenthunt.com"),
			FromName: lookup("SMTP_FROM_NAME", "Emerging Talent Hunt"),
		},
		Payment: PaymentConfig{
			BaseURL:       lookup("PAYMENT_BASE_URL", "https://gateway.example.com"),
			MerchantCode:  os.Getenv("PAYMENT_MERCHANT_CODE"),
			Secret:        paymentSecret,
			ReturnURL:     os.Getenv("PAYMENT_RETURN_URL"),
			WebhookSecret: lookup("PAYMENT_WEBHOOK_SECRET", paymentSecret),
		},
		Media: MediaConfig{
			BaseURL: lookup("MEDIA_BASE_URL", "https://media.example.com"),
			APIKey:  os.Getenv("MEDIA_API_KEY"),
		},
		Geodata: GeodataConfig{
			BaseURL: lookup("GEODATA_BASE_URL", "https://nga-states-lga.onrender.com"),
		},
	}, nil
}

func lookup(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func require(key string) (string, error) {
	v := os.Getenv(key)
	if v == "" {
		return "", fmt.Errorf("missing %s", key)
	}
	return v, nil
}

func lookupInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}
