//go:build e2e

package mindcare_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/aussiebroadwan/mindcare/pkg/mindsdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Container setup and assertions for the MindCare end-to-end tests. The
 * image is built once from cmd/mindcare/Dockerfile and every test gets a
 * fresh container with its own database.
 */

const (
	testImageName = "mindcare-test:latest"
	testJWTSecret = "e2e-secret-0123456789abcdef0123456789"
	testPassword  = "secret123"
)

// TestMain builds the Docker image once before all tests and removes it
// afterwards.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building MindCare Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up MindCare Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	cmd := exec.CommandContext(context.Background(), "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/mindcare/Dockerfile",
		"../../../")
	cmd.Stdout = os.Stdout
	return cmd.Run()
}

func cleanupDockerImage() {
	_ = exec.CommandContext(context.Background(), "docker", "rmi", "-f", testImageName).Run()
}

// setupContainer starts the service with the given extra environment and
// returns its base URL.
func setupContainer(t *testing.T, env map[string]string) string {
	t.Helper()
	ctx := context.Background()

	full := map[string]string{
		"MINDCARE_JWT_SECRET": testJWTSecret,
		"ARGON2_MEMORY_KIB":   "1024",
		"ARGON2_ITERATIONS":   "1",
		"ENV":                 "test",
		"LOG_LEVEL":           "info",
		"LOG_FORMAT":          "json",
	}
	for k, v := range env {
		full[k] = v
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        testImageName,
			ExposedPorts: []string{"8080/tcp"},
			Env:          full,
			WaitingFor: wait.ForHTTP("/livez").
				WithPort("8080/tcp").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)
	host, err := container.Host(ctx)
	require.NoError(t, err)

	return fmt.Sprintf("http://%s:%s", host, mappedPort.Port())
}

// registerAndLogin creates username with a derived email and returns a session.
func registerAndLogin(t *testing.T, client *mindsdk.Client, username string) (*mindsdk.RegisterResponse, *mindsdk.Session) {
	t.Helper()

	reg, err := client.Register(t.Context(), mindsdk.RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: testPassword,
	})
	require.NoError(t, err)

	session, err := client.Authenticate(t.Context(), username, testPassword)
	require.NoError(t, err)
	return reg, session
}

func assertUnauthorized(t *testing.T, err error, context string) {
	t.Helper()
	require.Error(t, err, context)

	var apiErr *mindsdk.APIError
	require.True(t, errors.As(err, &apiErr), "%s - expected an API error, got: %v", context, err)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode, context)
}

func assertHealthy(t *testing.T, health *mindsdk.HealthResponse, err error) {
	t.Helper()
	require.NoError(t, err)
	require.NotNil(t, health)
	require.Equal(t, "ok", health.Status)
}
