package config

import (
	"fmt"
	"os"
)

const (
	portEnvVar    = "PORT"
	appNameVar    = "APP_NAME"
	baseURLVar    = "BASE_URL"
	logFileEnvVar = "LOG_FILE"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "8080")
	if port != "" && port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Unique Login")
}

// GetBaseURL returns the base URL embedded in generated login links
// (e.g., "https://app.example.com")
func (EnvVars) GetBaseURL() string {
	return GetEnv(baseURLVar, "http://localhost:8080")
}

// GetLogFile returns the path of the rotating log file. Empty means
// log to stderr only.
func (EnvVars) GetLogFile() string {
	return GetEnv(logFileEnvVar, "")
}

// GetUsersFile returns the path of the JSON user directory export.
func (EnvVars) GetUsersFile() string {
	return GetEnv("USERS_FILE", "./data/users.json")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
