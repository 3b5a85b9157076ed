// Package secrets resolves sensitive configuration from Doppler
package secrets

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// Source is a store of named secrets
type Source interface {
	Initialize() error
	GetSecretWithFallback(key, fallback string) string
}

// runner executes the doppler CLI and returns its stdout
type runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// DopplerClient provides access to secrets stored in Doppler
type DopplerClient struct {
	Project string
	Config  string
	Timeout time.Duration

	mu          sync.Mutex
	initialized bool
	cache       map[string]string
	lookPath    func(string) (string, error)
	run         runner
}

// NewDopplerClient creates a new Doppler client
func NewDopplerClient(project, config string) *DopplerClient {
	return &DopplerClient{
		Project:  project,
		Config:   config,
		Timeout:  3 * time.Second,
		cache:    make(map[string]string),
		lookPath: exec.LookPath,
		run:      execRunner,
	}
}

// Initialize checks if Doppler CLI is installed
func (d *DopplerClient) Initialize() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.initialized {
		return nil
	}
	if _, err := d.lookPath("doppler"); err != nil {
		return fmt.Errorf("doppler CLI not found: %w", err)
	}

	d.initialized = true
	return nil
}

// GetSecret retrieves a secret from Doppler
func (d *DopplerClient) GetSecret(key string) (string, error) {
	if err := d.Initialize(); err != nil {
		return "", err
	}

	// Values injected by `doppler run` win over a CLI lookup
	if value := os.Getenv(key); value != "" {
		return value, nil
	}

	d.mu.Lock()
	if value, ok := d.cache[key]; ok {
		d.mu.Unlock()
		return value, nil
	}
	d.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), d.Timeout)
	defer cancel()

	output, err := d.run(ctx, "doppler", "secrets", "get", key,
		"--project", d.Project,
		"--config", d.Config,
		"--plain")
	if err != nil {
		return "", fmt.Errorf("failed to get secret %s: %w", key, err)
	}

	value := strings.TrimSpace(string(output))

	d.mu.Lock()
	d.cache[key] = value
	d.mu.Unlock()

	return value, nil
}

// GetSecretWithFallback gets a secret from Doppler with a fallback value
func (d *DopplerClient) GetSecretWithFallback(key, fallback string) string {
	value, err := d.GetSecret(key)
	if err != nil || value == "" {
		return fallback
	}
	return value
}
