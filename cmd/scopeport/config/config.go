package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"scopeport/internal/logger"

	"github.com/joho/godotenv"
)

func init() {
	envFiles := []string{
		".env",
	}

	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err != nil {
			if !os.IsNotExist(err) {
				logger.Warn("Error loading %s: %v", envFile, err)
			}
		}
	}
}

func GetEnv(key string, defaultValue string) string {
	value := os.Getenv(key)

	if value == "" {
		return defaultValue
	}

	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)

	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.ParseBool(value)

	if err != nil {
		logger.Warn("Invalid boolean for %s: %s", key, value)
		return defaultValue
	}

	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)

	if value == "" {
		return defaultValue
	}

	parsed, err := time.ParseDuration(value)

	if err != nil {
		logger.Warn("Invalid duration for %s: %s", key, value)
		return defaultValue
	}

	return parsed
}

func getHomeDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		logger.Warn("Could not determine home directory: %v", err)
		return ""
	}
	return homeDir
}

func getDefaultDatabasePath(fallback string) string {
	homeDir := getHomeDir()
	if homeDir == "" {
		return fallback
	}
	return filepath.Join(homeDir, ".scopeport", "scopeport.db")
}

type Configuration struct {
	DatabasePath string

	// RemoteProgram is the scope-side binary invoked per command.
	RemoteProgram string

	// DisableCompression turns off zlib compression of packed envelopes.
	DisableCompression bool

	PrivateKeyPath string

	HandshakeTimeout time.Duration
	ExitGraceDelay   time.Duration
}

var Config = Configuration{
	DatabasePath:       GetEnv("SCOPEPORT_DB_PATH", getDefaultDatabasePath("scopeport.db")),
	RemoteProgram:      GetEnv("SCOPEPORT_REMOTE_PROGRAM", "scope"),
	DisableCompression: getEnvBool("SCOPEPORT_DISABLE_COMPRESSION", false),
	PrivateKeyPath:     GetEnv("SCOPEPORT_SSH_KEY_PATH", ""),
	HandshakeTimeout:   getEnvDuration("SCOPEPORT_HANDSHAKE_TIMEOUT", 10*time.Second),
	ExitGraceDelay:     getEnvDuration("SCOPEPORT_EXIT_GRACE_DELAY", 2*time.Second),
}
