package tests

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	pgUser     = "tictactoe"
	pgPassword = "tictactoe"
	pgDatabase = "tictactoe"
	pgImage    = "postgres:16-alpine"
)

var pgPort = nat.Port("5432/tcp")

// LocalTestFixture runs a throwaway Postgres container for integration tests.
type LocalTestFixture struct {
	container   testcontainers.Container
	databaseURL string
}

func NewLocalTestFixture() *LocalTestFixture {
	return &LocalTestFixture{}
}

// Skipped reports whether infrastructure tests are disabled for this run.
func Skipped() bool {
	return os.Getenv("SKIP_INFRASTRUCTURE") == "true"
}

func (f *LocalTestFixture) Start(ctx context.Context) error {
	if Skipped() {
		return nil
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        pgImage,
			ExposedPorts: []string{string(pgPort)},
			Env: map[string]string{
				"POSTGRES_USER":     pgUser,
				"POSTGRES_PASSWORD": pgPassword,
				"POSTGRES_DB":       pgDatabase,
			},
			WaitingFor: wait.ForSQL(pgPort, "postgres", postgresURL).
				WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	if err != nil {
		return err
	}

	f.container = container

	host, err := container.Host(ctx)
	if err != nil {
		return err
	}

	port, err := container.MappedPort(ctx, pgPort)
	if err != nil {
		return err
	}

	f.databaseURL = postgresURL(host, port)
	return nil
}

func (f *LocalTestFixture) Stop(ctx context.Context) error {
	if f.container == nil {
		return nil
	}

	return f.container.Terminate(ctx)
}

// DatabaseURL is empty until Start succeeds.
func (f *LocalTestFixture) DatabaseURL() string {
	return f.databaseURL
}

func postgresURL(host string, port nat.Port) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		pgUser, pgPassword, host, port.Port(), pgDatabase,
	)
}
