package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orderflow.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

const fastConfig = `
producer:
  delay: {min: 0s, max: 1ms}
transformer:
  delay: {min: 0s, max: 1ms}
batcher:
  interval: 1ms
target_batches: 2
kinds: [pizza]
seed: 3
`

func TestRun(t *testing.T) {
	stdout, _, err := execute(t, "--config", writeConfig(t, fastConfig))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.NotEmpty(t, lines)
	assert.Equal(t, "Restaurant has started working", lines[0])
	assert.Equal(t, "2 deliveries completed successfully", lines[len(lines)-1])

	assert.Contains(t, stdout, "The waiter placed an order for -> pizza")
	assert.Contains(t, stdout, "The kitchen has prepared -> pizza")
	assert.Contains(t, stdout, "The courier took -> pizza")
}

func TestRun_LogLevelFlag(t *testing.T) {
	_, stderr, err := execute(t, "--config", writeConfig(t, fastConfig), "--log-level", "debug")
	require.NoError(t, err)
	assert.Contains(t, stderr, "item delivered")
}

func TestRun_InvalidConfig(t *testing.T) {
	_, _, err := execute(t, "--config", writeConfig(t, "target_batches: 0\n"))
	assert.Error(t, err)
}

func TestConfigCommand(t *testing.T) {
	stdout, _, err := execute(t, "config", "--metrics-addr", "localhost:9100")
	require.NoError(t, err)

	assert.Contains(t, stdout, "target_batches: 10")
	assert.Contains(t, stdout, "interval: 30s")
	assert.Contains(t, stdout, "localhost:9100")
}
