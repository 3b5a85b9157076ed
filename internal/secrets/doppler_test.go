package secrets

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(found bool, output string, runErr error) (*DopplerClient, *int) {
	calls := 0
	client := NewDopplerClient("payment-webhooks", "test")
	client.lookPath = func(string) (string, error) {
		if !found {
			return "", errors.New("not found")
		}
		return "/usr/bin/doppler", nil
	}
	client.run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		calls++
		return []byte(output), runErr
	}
	return client, &calls
}

func TestDopplerClient_MissingCLI(t *testing.T) {
	client, calls := newTestClient(false, "", nil)

	assert.Error(t, client.Initialize())
	assert.Equal(t, "fallback", client.GetSecretWithFallback("DOPPLER_TEST_KEY", "fallback"))
	assert.Zero(t, *calls)
}

func TestDopplerClient_ReadsAndCachesSecret(t *testing.T) {
	client, calls := newTestClient(true, "from-doppler\n", nil)

	value, err := client.GetSecret("DOPPLER_TEST_KEY")
	require.NoError(t, err)
	assert.Equal(t, "from-doppler", value)

	value, err = client.GetSecret("DOPPLER_TEST_KEY")
	require.NoError(t, err)
	assert.Equal(t, "from-doppler", value)
	assert.Equal(t, 1, *calls)
}

func TestDopplerClient_EnvironmentWins(t *testing.T) {
	t.Setenv("DOPPLER_TEST_KEY", "from-env")
	client, calls := newTestClient(true, "from-doppler", nil)

	assert.Equal(t, "from-env", client.GetSecretWithFallback("DOPPLER_TEST_KEY", ""))
	assert.Zero(t, *calls)
}

func TestDopplerClient_CommandFailureFallsBack(t *testing.T) {
	client, _ := newTestClient(true, "", errors.New("exit status 1"))

	_, err := client.GetSecret("DOPPLER_TEST_KEY")
	assert.Error(t, err)
	assert.Equal(t, "fallback", client.GetSecretWithFallback("DOPPLER_TEST_KEY", "fallback"))
}
