//go:build integration

package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startContainer starts req and registers termination with t.Cleanup.
func startContainer(t *testing.T, req testcontainers.ContainerRequest) (testcontainers.Container, string) {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start %s container: %v", req.Image, err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate %s: %v", req.Image, err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	return container, host
}

// StartRedis runs redis:7-alpine and returns a redis:// URL.
func StartRedis(t *testing.T) string {
	t.Helper()
	container, host := startContainer(t, testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	})
	port, err := container.MappedPort(context.Background(), "6379")
	if err != nil {
		t.Fatalf("Failed to get redis port: %v", err)
	}
	return fmt.Sprintf("redis://%s:%s/0", host, port.Port())
}

// StartPostgres runs postgres:16-alpine and returns a lib/pq DSN.
func StartPostgres(t *testing.T) string {
	t.Helper()
	container, host := startContainer(t, testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "f1",
			"POSTGRES_PASSWORD": "f1",
			"POSTGRES_DB":       "f1",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	})
	port, err := container.MappedPort(context.Background(), "5432")
	if err != nil {
		t.Fatalf("Failed to get postgres port: %v", err)
	}
	return fmt.Sprintf("postgres://f1:f1@%s:%s/f1?sslmode=disable", host, port.Port())
}

// StartMongo runs mongo:7 and returns a mongodb:// URI.
func StartMongo(t *testing.T) string {
	t.Helper()
	container, host := startContainer(t, testcontainers.ContainerRequest{
		Image:        "mongo:7",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor:   wait.ForLog("Waiting for connections").WithStartupTimeout(60 * time.Second),
	})
	port, err := container.MappedPort(context.Background(), "27017")
	if err != nil {
		t.Fatalf("Failed to get mongo port: %v", err)
	}
	return fmt.Sprintf("mongodb://%s:%s", host, port.Port())
}
