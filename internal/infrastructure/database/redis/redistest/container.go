// Package redistest starts a disposable Redis for integration tests.
package redistest

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Container is a running Redis and a client connected to it
type Container struct {
	container testcontainers.Container
	Client    *redis.Client
}

// Start runs redis:7-alpine and connects a client
func Start(ctx context.Context) (*Container, error) {
	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("start redis container: %w", err)
	}

	host, err := ctr.Host(ctx)
	if err != nil {
		_ = testcontainers.TerminateContainer(ctr)
		return nil, fmt.Errorf("redis container host: %w", err)
	}

	port, err := ctr.MappedPort(ctx, "6379")
	if err != nil {
		_ = testcontainers.TerminateContainer(ctr)
		return nil, fmt.Errorf("redis container port: %w", err)
	}

	client := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		_ = testcontainers.TerminateContainer(ctr)
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Container{container: ctr, Client: client}, nil
}

// Stop closes the client and terminates the container
func (c *Container) Stop() error {
	_ = c.Client.Close()
	return testcontainers.TerminateContainer(c.container)
}
