package main

import (
	"time"

	"bloglist/utils"
)

type StorageMode string

const (
	InMemory StorageMode = "inmemory"
	Mongo    StorageMode = "mongo"
)

type AppMode string

const (
	ServerMode AppMode = "server"
	WorkerMode AppMode = "worker"
)

type Config struct {
	AppMode     AppMode
	Port        string
	StorageMode StorageMode
	MongoUrl    string
	MongoDbName string

	Secret     string
	TokenTTL   time.Duration
	BcryptCost int

	// Optional backends. Empty values fall back to in-process implementations.
	RedisUrl      string
	NatsUrl       string
	ZipkinAddress string

	LoginMaxAttempts int
	LoginWindow      time.Duration
}

func LoadConfig() Config {
	cfg := Config{
		AppMode:          AppMode(utils.GetEnvVarWithDefault("APP_MODE", string(ServerMode))),
		Port:             utils.GetEnvVarWithDefault("SERVER_PORT", "8080"),
		StorageMode:      StorageMode(utils.GetEnvVarWithDefault("STORAGE_MODE", string(InMemory))),
		Secret:           utils.GetEnvVar("SECRET"),
		TokenTTL:         utils.GetDurationEnvVarWithDefault("TOKEN_TTL", time.Hour),
		BcryptCost:       utils.GetIntEnvVarWithDefault("BCRYPT_COST", 10),
		RedisUrl:         utils.GetEnvVarWithDefault("REDIS_URL", ""),
		NatsUrl:          utils.GetEnvVarWithDefault("NATS_URL", ""),
		ZipkinAddress:    utils.GetEnvVarWithDefault("ZIPKIN_ADDRESS", ""),
		LoginMaxAttempts: utils.GetIntEnvVarWithDefault("LOGIN_MAX_ATTEMPTS", 5),
		LoginWindow:      utils.GetDurationEnvVarWithDefault("LOGIN_WINDOW", 15*time.Minute),
	}

	switch cfg.StorageMode {
	case InMemory:
	case Mongo:
		cfg.MongoUrl = utils.GetEnvVar("MONGO_URL")
		cfg.MongoDbName = utils.GetEnvVar("MONGO_DBNAME")
	default:
		panic("Invalid 'STORAGE_MODE'")
	}

	switch cfg.AppMode {
	case ServerMode:
	case WorkerMode:
		cfg.RedisUrl = utils.GetEnvVar("REDIS_URL")
	default:
		panic("Invalid 'APP_MODE'")
	}
	return cfg
}
