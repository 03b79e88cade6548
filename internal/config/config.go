package config

import (
	"errors"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env             string        // dev, prod
	HTTPPort        string        // default 3000
	DBHost          string        // required
	DBUser          string
	DBPass          string
	DBName          string        // required
	DBPort          string        // default 5432
	DBPoolSize      int           // max pool connections
	ShutdownTimeout time.Duration // graceful shutdown timeout
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:             getEnv("APP_ENV", "dev"),
		HTTPPort:        getEnv("PORT", "3000"),
		DBHost:          os.Getenv("DB_HOST"),
		DBUser:          os.Getenv("DB_USER"),
		DBPass:          os.Getenv("DB_PASS"),
		DBName:          os.Getenv("DB_NAME"),
		DBPort:          getEnv("DB_PORT", "5432"),
		DBPoolSize:      getInt("DB_POOL_SIZE", 10),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	if cfg.DBHost == "" {
		return Config{}, errors.New("DB_HOST is required")
	}
	if cfg.DBName == "" {
		return Config{}, errors.New("DB_NAME is required")
	}

	return cfg, nil
}

// PostgresDSN assembles the pool DSN from the individual DB_* variables.
func (c Config) PostgresDSN() string {
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(c.DBHost, c.DBPort),
		Path:   "/" + c.DBName,
	}
	if c.DBUser != "" {
		if c.DBPass != "" {
			u.User = url.UserPassword(c.DBUser, c.DBPass)
		} else {
			u.User = url.User(c.DBUser)
		}
	}

	q := u.Query()
	q.Set("pool_max_conns", strconv.Itoa(c.DBPoolSize))
	u.RawQuery = q.Encode()

	return u.String()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return time.Duration(n) * time.Second
		}
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
