package config

// StorageBackend selects which token store implementation the service runs on.
type StorageBackend string

const (
	StorageMemory   StorageBackend = "memory"
	StorageRedis    StorageBackend = "redis"
	StoragePostgres StorageBackend = "postgres"
)

type StorageConfig interface {
	GetStorageBackend() StorageBackend
	GetRedisAddr() string
	GetRedisKeyPrefix() string
	GetDatabaseDSN() string
}

type Storage struct{}

var _ StorageConfig = Storage{}

func (Storage) GetStorageBackend() StorageBackend {
	switch GetEnv("STORAGE", "memory") {
	case "redis":
		return StorageRedis
	case "postgres":
		return StoragePostgres
	default:
		return StorageMemory
	}
}

func (Storage) GetRedisAddr() string {
	return GetEnv("REDIS_ADDR", "localhost:6379")
}

func (Storage) GetRedisKeyPrefix() string {
	return GetEnv("REDIS_KEY_PREFIX", "uli")
}

func (Storage) GetDatabaseDSN() string {
	return GetEnv("DATABASE_DSN", "")
}
