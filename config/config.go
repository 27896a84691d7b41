package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config stores the client configuration.
type Config struct {
	APIBaseURL     string // Base URL of the REST backend
	RealtimeURL    string // ws:// or wss:// URL of the realtime channel
	RequestTimeout time.Duration
	DataDir        string // Directory for the local device store
	LocalStorePath string // Path of the bbolt file inside DataDir

	// Logging
	LogLevel      string
	LogFile       string
	LogMaxSize    int // megabytes
	LogMaxBackups int
	LogMaxAge     int // days
	LogCompress   bool
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt gets an environment variable as int or returns a default value.
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool gets an environment variable as bool or returns a default value.
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// Load loads configuration from environment variables (via .env file) or defaults.
func Load() *Config {
	// godotenv.Load() will not override existing env vars.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on existing environment variables and defaults.")
	}

	dataDir := getEnv("ECHOFM_DATA_DIR", defaultDataDir())

	return &Config{
		APIBaseURL:     getEnv("ECHOFM_API_URL", "http://127.0.0.1:5000/api"),
		RealtimeURL:    getEnv("ECHOFM_REALTIME_URL", "ws://127.0.0.1:5000/realtime"),
		RequestTimeout: time.Duration(getEnvInt("ECHOFM_REQUEST_TIMEOUT", 10)) * time.Second,
		DataDir:        dataDir,
		LocalStorePath: filepath.Join(dataDir, "echofm.db"),
		LogLevel:       getEnv("ECHOFM_LOG_LEVEL", "info"),
		LogFile:        getEnv("ECHOFM_LOG_FILE", filepath.Join(dataDir, "logs", "echofm.log")),
		LogMaxSize:     getEnvInt("ECHOFM_LOG_MAX_SIZE", 10),
		LogMaxBackups:  getEnvInt("ECHOFM_LOG_MAX_BACKUPS", 3),
		LogMaxAge:      getEnvInt("ECHOFM_LOG_MAX_AGE", 28),
		LogCompress:    getEnvBool("ECHOFM_LOG_COMPRESS", false),
	}
}

func defaultDataDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "data"
	}
	return filepath.Join(configDir, "echofm")
}
