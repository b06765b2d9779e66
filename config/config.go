package config

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var loadOnce sync.Once

// Config returns the value of an environment variable, loading .env on first use.
func Config(key string) string {
	loadOnce.Do(func() {
		if err := godotenv.Load(".env"); err != nil {
			logrus.Debug("no .env file, using process environment")
		}
	})
	return os.Getenv(key)
}

type Settings struct {
	DBHost     string
	DBPort     uint64
	DBUser     string
	DBPassword string
	DBName     string

	JwtSecret         string
	CustomerJwtSecret string

	RedisAddr string

	AdminEmail    string
	AdminPassword string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	AppPort       string
	AppTimezone   string
	CorsOrigins   string
	LogLevel      string
	SecureCookies bool
}

func Load() (Settings, error) {
	port, err := strconv.ParseUint(withDefault(Config("DB_PORT"), "5432"), 10, 32)
	if err != nil {
		return Settings{}, err
	}
	smtpPort, err := strconv.Atoi(withDefault(Config("SMTP_PORT"), "587"))
	if err != nil {
		return Settings{}, err
	}

	s := Settings{
		DBHost:            withDefault(Config("DB_HOST"), "localhost"),
		DBPort:            port,
		DBUser:            Config("DB_USER"),
		DBPassword:        Config("DB_PASSWORD"),
		DBName:            Config("DB_NAME"),
		JwtSecret:         Config("JWT_SECRET"),
		CustomerJwtSecret: Config("CUSTOMER_JWT_SECRET"),
		RedisAddr:         Config("REDIS_ADDR"),
		AdminEmail:        Config("ADMIN_EMAIL"),
		AdminPassword:     Config("ADMIN_PASSWORD"),
		SMTPHost:          Config("SMTP_HOST"),
		SMTPPort:          smtpPort,
		SMTPUsername:      Config("SMTP_USERNAME"),
		SMTPPassword:      Config("SMTP_PASSWORD"),
		SMTPFrom:          Config("SMTP_FROM"),
		AppPort:           withDefault(Config("APP_PORT"), "8002"),
		AppTimezone:       withDefault(Config("APP_TIMEZONE"), "Local"),
		CorsOrigins:       withDefault(Config("CORS_ORIGINS"), "http://localhost:5173"),
		LogLevel:          withDefault(Config("LOG_LEVEL"), "info"),
		SecureCookies:     Config("SECURE_COOKIES") == "true",
	}
	// customer sessions fall back to a derived secret so the namespaces never share a key
	if s.CustomerJwtSecret == "" && s.JwtSecret != "" {
		s.CustomerJwtSecret = s.JwtSecret + ":customer"
	}
	return s, nil
}

func withDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
