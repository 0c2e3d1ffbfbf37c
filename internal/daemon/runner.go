package daemon

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"secretharness/internal/metrics"
	"secretharness/internal/retry"
)

// Runner abstracts daemon invocation so harness code can be exercised
// against a fake in tests
type Runner interface {
	// Run invokes the daemon with args plus the JSON output flag and
	// parses stdout as a single JSON value
	Run(ctx context.Context, args []string) (json.RawMessage, error)

	// RunRaw invokes the daemon without the JSON flag and returns raw
	// stdout with one trailing newline trimmed
	RunRaw(ctx context.Context, args []string) (string, error)
}

// CLIRunner shells out to the chain daemon binary.
//
// Transient-failure detection is deliberately loose: any stderr output
// triggers a retry, exit codes are not inspected. The daemon writes
// warnings to stderr too, so after the retry ceiling the last stdout is
// used regardless and deserialization decides the outcome.
type CLIRunner struct {
	binary   string
	strategy retry.Strategy
}

// NewCLIRunner creates a runner for the given daemon binary
func NewCLIRunner(binary string, strategy retry.Strategy) *CLIRunner {
	return &CLIRunner{
		binary:   binary,
		strategy: strategy,
	}
}

// Run implements Runner
func (r *CLIRunner) Run(ctx context.Context, args []string) (json.RawMessage, error) {
	withFlag := append(append([]string{}, args...), "--output", "json")

	stdout, err := r.execute(ctx, withFlag)
	if err != nil {
		return nil, err
	}

	var raw json.RawMessage
	if err := json.Unmarshal(stdout, &raw); err != nil {
		metrics.ParseFailures.Inc()
		return nil, &ParseError{Output: stdout, Err: err}
	}
	return raw, nil
}

// RunRaw implements Runner
func (r *CLIRunner) RunRaw(ctx context.Context, args []string) (string, error) {
	stdout, err := r.execute(ctx, args)
	if err != nil {
		return "", err
	}
	return trimNewline(string(stdout)), nil
}

// execute runs the binary under the retry strategy. Exhausting the retry
// ceiling is not an error by itself: the last stdout wins.
func (r *CLIRunner) execute(ctx context.Context, args []string) ([]byte, error) {
	start := time.Now()
	defer func() {
		metrics.DaemonInvocationDuration.Observe(time.Since(start).Seconds())
	}()
	metrics.DaemonInvocations.WithLabelValues(commandGroup(args)).Inc()

	var lastStdout []byte
	attempts := 0

	operation := func() error {
		attempts++
		stdout, stderr, err := r.capture(ctx, args)
		if err != nil {
			return retry.Permanent(err)
		}
		lastStdout = stdout
		if len(stderr) > 0 {
			return fmt.Errorf("daemon wrote to stderr: %s", firstLine(stderr))
		}
		return nil
	}

	err := r.strategy.Execute(ctx, operation)
	if attempts > 1 {
		metrics.DaemonRetries.Add(float64(attempts - 1))
	}
	if err != nil {
		if retry.IsPermanent(err) {
			return nil, err
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		// Retries exhausted with stderr still non-empty. stderr is only a
		// heuristic, so fall through to whatever stdout was last produced.
		slog.Warn("Using last daemon output despite stderr",
			"binary", r.binary,
			"command", commandGroup(args),
			"attempts", attempts,
		)
	}
	return lastStdout, nil
}

// capture runs the binary once, collecting stdout and stderr separately.
// Non-zero exits are not failures here; only an unlaunchable binary is.
func (r *CLIRunner) capture(ctx context.Context, args []string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, r.binary, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, nil, fmt.Errorf("%w: %s: %v (is the daemon installed?)", ErrLaunch, r.binary, err)
		}
	}

	slog.Debug("Daemon invocation finished",
		"binary", r.binary,
		"command", commandGroup(args),
		"stdout_bytes", stdout.Len(),
		"stderr_bytes", stderr.Len(),
	)
	return stdout.Bytes(), stderr.Bytes(), nil
}

// commandGroup labels an invocation by its leading subcommand for metrics
func commandGroup(args []string) string {
	if len(args) == 0 {
		return "none"
	}
	return args[0]
}

// trimNewline strips a single trailing "\n" or "\r\n" pair
func trimNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		s = s[:len(s)-1]
		if strings.HasSuffix(s, "\r") {
			s = s[:len(s)-1]
		}
	}
	return s
}

func firstLine(b []byte) string {
	s := strings.TrimSpace(string(b))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
