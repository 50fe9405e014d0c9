// Package config provides environment-driven configuration for mediahub,
// including log level, database location, upload folder and session settings.
package config

import (
	_ "embed"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

//go:embed version
var version string

//go:embed name
var name string

type LogLevel string

const (
	Debug  LogLevel = "debug"
	Info   LogLevel = "info"
	Notice LogLevel = "notice"
	Warn   LogLevel = "warn"
	Error  LogLevel = "error"
)

const (
	defaultPort          = 5000
	defaultUploadFolder  = "static/uploads"
	defaultMaxUploadMB   = 64
	defaultSessionMaxAge = 7 * 24 * 60
	defaultLogFolder     = "log"
	defaultDatabaseURL   = "sqlite:///site.db"
)

// LoadEnv reads a .env file from the working directory if one exists.
// Variables already present in the environment are not overridden.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

func GetVersion() string {
	return strings.TrimSpace(version)
}

func GetName() string {
	return strings.TrimSpace(name)
}

func GetLogLevel() LogLevel {
	if IsDebug() {
		return Debug
	}
	logLevel := os.Getenv("MEDIAHUB_LOG_LEVEL")
	if logLevel == "" {
		return Info
	}
	return LogLevel(strings.ToLower(logLevel))
}

func IsDebug() bool {
	return os.Getenv("MEDIAHUB_DEBUG") == "true"
}

func GetLogFolder() string {
	logFolderPath := os.Getenv("MEDIAHUB_LOG_FOLDER")
	if logFolderPath == "" {
		logFolderPath = defaultLogFolder
	}
	return logFolderPath
}

// GetSecretKey returns the session signing key. An empty string means the
// caller must generate an ephemeral key.
func GetSecretKey() string {
	return os.Getenv("SECRET_KEY")
}

func GetDatabaseURL() string {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		url = defaultDatabaseURL
	}
	return url
}

func GetUploadFolder() string {
	folder := os.Getenv("UPLOAD_FOLDER")
	if folder == "" {
		folder = defaultUploadFolder
	}
	return folder
}

func GetListen() string {
	return os.Getenv("MEDIAHUB_LISTEN")
}

func GetPort() int {
	return getInt("MEDIAHUB_PORT", defaultPort)
}

// GetMaxUploadBytes returns the request body cap applied to uploads.
func GetMaxUploadBytes() int64 {
	return int64(getInt("MEDIAHUB_MAX_UPLOAD_MB", defaultMaxUploadMB)) << 20
}

// GetSessionMaxAge returns the session cookie lifetime in minutes.
func GetSessionMaxAge() int {
	return getInt("MEDIAHUB_SESSION_MAX_AGE", defaultSessionMaxAge)
}

// GetCertFiles returns the TLS certificate and key paths. Both must be set to
// serve https.
func GetCertFiles() (certFile, keyFile string) {
	return os.Getenv("MEDIAHUB_CERT_FILE"), os.Getenv("MEDIAHUB_KEY_FILE")
}

func IsMetricsEnabled() bool {
	return os.Getenv("MEDIAHUB_METRICS") != "false"
}

func getInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return def
	}
	return v
}
