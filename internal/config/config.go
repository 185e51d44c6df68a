package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Monitor  MonitorConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	NatsEnabled        bool
	JWTSecret          string
	AuthRequired       bool
}

type DatabaseConfig struct {
	Connection string
}

type MonitorConfig struct {
	SampleIntervalMs    int
	IdleCheckIntervalMs int
	IdleThresholdMs     int
	TrackWindowTitles   bool
	ExcludedApps        []string
	TitleMaxLength      int
	WindowSource        string // "x11" or "simulated"
	AutoStart           bool
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/tracker.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			NatsEnabled:        getEnvAsBool("NATS_ENABLED", false),
			JWTSecret:          getEnv("JWT_SECRET", ""),
			AuthRequired:       getEnvAsBool("AUTH_REQUIRED", false),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Monitor: MonitorConfig{
			SampleIntervalMs:    getEnvAsInt("SAMPLE_INTERVAL_MS", 2000),
			IdleCheckIntervalMs: getEnvAsInt("IDLE_CHECK_INTERVAL_MS", 5000),
			IdleThresholdMs:     getEnvAsInt("IDLE_THRESHOLD_MS", 300000),
			TrackWindowTitles:   getEnvAsBool("TRACK_WINDOW_TITLES", true),
			ExcludedApps:        getEnvAsList("EXCLUDED_APPS", "1password,keepass,bitwarden"),
			TitleMaxLength:      getEnvAsInt("TITLE_MAX_LENGTH", 200),
			WindowSource:        getEnv("WINDOW_SOURCE", "x11"),
			AutoStart:           getEnvAsBool("TRACKER_AUTO_START", true),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsList(key, fallback string) []string {
	raw := getEnv(key, fallback)
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
