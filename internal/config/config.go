package config

import (
	"fmt"

	"github.com/eskrenkovic/tictactoe-sessions/internal/modules/env"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	PortEnv          = "PORT"
	StorageDriverEnv = "STORAGE_DRIVER"
	SQLitePathEnv    = "SQLITE_PATH"
	DatabaseUrlEnv   = "DATABASE_URL"
	LogLevelEnv      = "LOG_LEVEL"
)

type StorageDriver string

const (
	MemoryDriver   StorageDriver = "memory"
	SQLiteDriver   StorageDriver = "sqlite"
	PostgresDriver StorageDriver = "postgres"
)

type Config struct {
	Logger *zap.Logger

	Port          int
	StorageDriver StorageDriver
	SQLitePath    string
	DatabaseURL   string
}

type environment struct {
	Port          int           `env:"PORT" envDefault:"8080"`
	StorageDriver StorageDriver `env:"STORAGE_DRIVER" envDefault:"sqlite"`
	SQLitePath    string        `env:"SQLITE_PATH" envDefault:"tictactoe.db"`
	DatabaseURL   string        `env:"DATABASE_URL"`
	LogLevel      string        `env:"LOG_LEVEL" envDefault:"info"`
}

func Load() (Config, error) {
	e, err := env.Parse[environment]()
	if err != nil {
		return Config{}, err
	}

	switch e.StorageDriver {
	case MemoryDriver, SQLiteDriver:
	case PostgresDriver:
		if e.DatabaseURL == "" {
			return Config{}, fmt.Errorf("%s is required for storage driver '%s'", DatabaseUrlEnv, e.StorageDriver)
		}
	default:
		return Config{}, fmt.Errorf("unknown %s '%s'", StorageDriverEnv, e.StorageDriver)
	}

	level, err := zapcore.ParseLevel(e.LogLevel)
	if err != nil {
		return Config{}, fmt.Errorf("invalid %s: %w", LogLevelEnv, err)
	}

	loggerConfig := zap.NewProductionConfig()
	loggerConfig.Level = zap.NewAtomicLevelAt(level)

	logger, err := loggerConfig.Build()
	if err != nil {
		return Config{}, err
	}

	return Config{
		Logger:        logger,
		Port:          e.Port,
		StorageDriver: e.StorageDriver,
		SQLitePath:    e.SQLitePath,
		DatabaseURL:   e.DatabaseURL,
	}, nil
}
