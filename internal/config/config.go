package config

type Config interface {
	EnvConfig
	TokenConfig
	StorageConfig
	SessionConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetBaseURL() string
	GetLogFile() string
	GetUsersFile() string
	GetEnv() string
}

type mainConfig struct {
	EnvVars
	Token
	Storage
	Session
}

func New() Config {
	return mainConfig{}
}
