package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/iamasit07/connect4-hotseat/internal/domain"
)

type Config struct {
	Port                 string
	BoardWidth           int
	BoardHeight          int
	AllowedOrigins       []string
	FrontendURL          string
	DatabaseURL          string
	DBMaxOpenConns       int
	DBMaxIdleConns       int
	DBConnMaxLifetimeMin int
	RedisURL             string
	RedisPassword        string
	JWTSecret            string
	TableTokenTTL        time.Duration
	TableIdleTimeout     time.Duration
	CleanupInterval      time.Duration
}

var AppConfig *Config

func LoadConfig() *Config {
	port := GetEnv("PORT", "8080")

	// Board dimensions are fixed for the lifetime of the process
	width := GetEnvAsInt("BOARD_WIDTH", domain.DefaultColumns)
	height := GetEnvAsInt("BOARD_HEIGHT", domain.DefaultRows)
	if width < domain.ToWin || height < domain.ToWin {
		log.Printf("[CONFIG] Board %dx%d cannot fit a run of %d, using default %dx%d",
			width, height, domain.ToWin, domain.DefaultColumns, domain.DefaultRows)
		width, height = domain.DefaultColumns, domain.DefaultRows
	}

	// Frontend & CORS
	frontendURL := GetEnv("FRONTEND_URL", "http://localhost:5173")
	allowedOrigins := []string{frontendURL}
	for _, origin := range strings.Split(GetEnv("ALLOWED_ORIGINS", ""), ",") {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" && trimmed != frontendURL {
			allowedOrigins = append(allowedOrigins, trimmed)
		}
	}

	AppConfig = &Config{
		Port:                 port,
		BoardWidth:           width,
		BoardHeight:          height,
		AllowedOrigins:       allowedOrigins,
		FrontendURL:          frontendURL,
		DatabaseURL:          GetEnv("DATABASE_URL", GetEnv("DATABASE_URI", "")),
		DBMaxOpenConns:       GetEnvAsInt("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns:       GetEnvAsInt("DB_MAX_IDLE_CONNS", 5),
		DBConnMaxLifetimeMin: GetEnvAsInt("DB_CONN_MAX_LIFETIME_MINUTES", 5),
		RedisURL:             GetEnv("REDIS_URL", ""),
		RedisPassword:        GetEnv("REDIS_PASSWORD", ""),
		JWTSecret:            GetEnv("JWT_SECRET", "change-this-table-secret"),
		TableTokenTTL:        GetEnvAsDuration("TABLE_TOKEN_TTL_MINUTES", 720, time.Minute),
		TableIdleTimeout:     GetEnvAsDuration("TABLE_IDLE_TIMEOUT_MINUTES", 60, time.Minute),
		CleanupInterval:      GetEnvAsDuration("CLEANUP_INTERVAL_MINUTES", 15, time.Minute),
	}

	return AppConfig
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

// GetEnvAsDuration reads an integer count of unit, e.g. minutes.
func GetEnvAsDuration(key string, defaultValue int, unit time.Duration) time.Duration {
	value := GetEnvAsInt(key, defaultValue)
	if value <= 0 {
		log.Printf("Non-positive value for %s: %d, using default: %d", key, value, defaultValue)
		value = defaultValue
	}
	return time.Duration(value) * unit
}
