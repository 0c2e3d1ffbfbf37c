package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"secretharness/internal/retry"
)

// writeFakeDaemon writes an executable shell script standing in for the
// chain daemon and returns its path
func writeFakeDaemon(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "faked")
	err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755)
	require.NoError(t, err)
	return path
}

func TestRun_ParsesJSON(t *testing.T) {
	bin := writeFakeDaemon(t, `echo '{"txhash":"ABC123"}'`)
	r := NewCLIRunner(bin, retry.NewNoRetryStrategy())

	raw, err := r.Run(context.Background(), []string{"q", "tx", "ABC123"})
	require.NoError(t, err)

	var out struct {
		TxHash string `json:"txhash"`
	}
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "ABC123", out.TxHash)
}

func TestRun_AppendsJSONOutputFlag(t *testing.T) {
	argsFile := filepath.Join(t.TempDir(), "args")
	bin := writeFakeDaemon(t, `echo "$@" > `+argsFile+`
echo '{}'`)
	r := NewCLIRunner(bin, retry.NewNoRetryStrategy())

	_, err := r.Run(context.Background(), []string{"query", "compute", "list-code"})
	require.NoError(t, err)

	recorded, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	assert.Equal(t, "query compute list-code --output json", strings.TrimSpace(string(recorded)))
}

func TestRunRaw_NoJSONFlagAndTrims(t *testing.T) {
	argsFile := filepath.Join(t.TempDir(), "args")
	bin := writeFakeDaemon(t, `echo "$@" > `+argsFile+`
printf 'secret1abcdef\r\n'`)
	r := NewCLIRunner(bin, retry.NewNoRetryStrategy())

	out, err := r.RunRaw(context.Background(), []string{"keys", "show", "-a", "a"})
	require.NoError(t, err)
	assert.Equal(t, "secret1abcdef", out)

	recorded, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	assert.Equal(t, "keys show -a a", strings.TrimSpace(string(recorded)))
}

func TestRun_ParseErrorKeepsOutput(t *testing.T) {
	bin := writeFakeDaemon(t, `echo 'Error: tx not found'`)
	r := NewCLIRunner(bin, retry.NewNoRetryStrategy())

	_, err := r.Run(context.Background(), []string{"q", "tx", "missing"})
	require.Error(t, err)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, string(parseErr.Output), "tx not found")
}

func TestRun_LaunchErrorIsNotRetried(t *testing.T) {
	r := NewCLIRunner(filepath.Join(t.TempDir(), "not-installed"), retry.NewFixedDelayStrategy(20, time.Millisecond))

	start := time.Now()
	_, err := r.Run(context.Background(), []string{"q", "tx", "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLaunch)
	// A retried launch failure would have slept through the delays
	assert.Less(t, time.Since(start), 15*time.Millisecond)
}

func TestRun_RetryCeilingUsesLastStdout(t *testing.T) {
	countFile := filepath.Join(t.TempDir(), "count")
	bin := writeFakeDaemon(t, `echo x >> `+countFile+`
echo 'transient warning' >&2
echo 'still not json'`)
	r := NewCLIRunner(bin, retry.NewFixedDelayStrategy(20, time.Millisecond))

	_, err := r.Run(context.Background(), []string{"q", "tx", "x"})

	// Exhausting retries is not itself an error; the last stdout is parsed
	// and fails deserialization
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)

	data, readErr := os.ReadFile(countFile)
	require.NoError(t, readErr)
	attempts := strings.Count(string(data), "x")
	assert.Equal(t, 21, attempts, "initial attempt plus 20 retries")
}

func TestRun_StopsRetryingOnceStderrClears(t *testing.T) {
	dir := t.TempDir()
	countFile := filepath.Join(dir, "count")
	bin := writeFakeDaemon(t, `echo x >> `+countFile+`
if [ "$(wc -l < `+countFile+`)" -lt 3 ]; then
  echo 'not ready' >&2
fi
echo '{"txhash":"OK"}'`)
	r := NewCLIRunner(bin, retry.NewFixedDelayStrategy(20, time.Millisecond))

	raw, err := r.Run(context.Background(), []string{"q", "tx", "OK"})
	require.NoError(t, err)
	assert.Contains(t, string(raw), "OK")

	data, readErr := os.ReadFile(countFile)
	require.NoError(t, readErr)
	assert.Equal(t, 3, strings.Count(string(data), "x"))
}

func TestRun_ContextCancellation(t *testing.T) {
	bin := writeFakeDaemon(t, `echo 'not ready' >&2
echo '{}'`)
	r := NewCLIRunner(bin, retry.NewFixedDelayStrategy(20, time.Second))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := r.Run(ctx, []string{"q", "tx", "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled))
}
