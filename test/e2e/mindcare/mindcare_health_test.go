//go:build e2e

package mindcare_test

import (
	"testing"

	"github.com/aussiebroadwan/mindcare/pkg/mindsdk"
)

func TestLivezEndpoint(t *testing.T) {
	client := mindsdk.NewClient(setupContainer(t, nil))

	health, err := client.GetLiveness(t.Context())
	assertHealthy(t, health, err)
}

func TestReadyzEndpoint(t *testing.T) {
	client := mindsdk.NewClient(setupContainer(t, nil))

	health, err := client.GetReadiness(t.Context())
	assertHealthy(t, health, err)
	t.Logf("database check: %s", health.Checks.Database)
}
