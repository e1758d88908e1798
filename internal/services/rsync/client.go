package rsync

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Stats holds the transfer counters parsed from rsync --stats output.
type Stats struct {
	Files         int
	Created       int
	LiteralBytes  int64
	BytesSent     int64
	BytesReceived int64
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, dir string) (stdout, stderr string, exitCode int, err error)
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client wraps rsync CLI interactions for series replication.
type Client struct {
	binary  string
	minSize int64
	timeout time.Duration
	exec    Executor
}

// New constructs an rsync client. minSize filters tiny files on the rsync
// side; timeout is the per-invocation I/O deadline handed to rsync itself.
func New(binary string, minSize int64, timeout time.Duration, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("rsync binary required")
	}
	client := &Client{
		binary:  binary,
		minSize: minSize,
		timeout: timeout,
		exec:    commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Sync replicates srcDir into destParent (rsync's trailing-dot form, so the
// source directory lands as a child of destParent). Existing destination
// files are never touched. On a non-zero exit the returned error is an
// *ExitError carrying the documented failure category.
func (c *Client) Sync(ctx context.Context, srcDir, destParent string) (Stats, error) {
	args := []string{
		"-a",
		"--whole-file",
		fmt.Sprintf("--min-size=%d", c.minSize),
		"--ignore-existing",
		"--omit-dir-times",
		"--no-perms",
		fmt.Sprintf("--timeout=%d", int(c.timeout.Seconds())),
		"--stats",
		srcDir,
		destParent + "/.",
	}
	stdout, stderr, code, err := c.exec.Run(ctx, c.binary, args, srcDir)
	if err != nil {
		return Stats{}, fmt.Errorf("rsync: %w", err)
	}
	if code != 0 {
		return Stats{}, &ExitError{Code: code, Stderr: strings.TrimSpace(stderr)}
	}
	stats, err := parseStats(stdout)
	if err != nil {
		return Stats{}, fmt.Errorf("rsync stats: %w", err)
	}
	return stats, nil
}

// statLines are the --stats fields the engine records, in the order rsync
// prints them.
var statLines = []*regexp.Regexp{
	regexp.MustCompile(`Number of files: ([,0-9]+)`),
	regexp.MustCompile(`Number of created files: ([,0-9]+)`),
	regexp.MustCompile(`Literal data: ([,0-9]+)`),
	regexp.MustCompile(`Total bytes sent: ([,0-9]+)`),
	regexp.MustCompile(`Total bytes received: ([,0-9]+)`),
}

func parseStats(output string) (Stats, error) {
	values := make([]int64, 0, len(statLines))
	rest := output
	for _, re := range statLines {
		m := re.FindStringSubmatchIndex(rest)
		if m == nil {
			return Stats{}, fmt.Errorf("missing field %q", re.String())
		}
		v, err := strconv.ParseInt(strings.ReplaceAll(rest[m[2]:m[3]], ",", ""), 10, 64)
		if err != nil {
			return Stats{}, err
		}
		values = append(values, v)
		rest = rest[m[1]:] // fields appear in fixed order
	}
	return Stats{
		Files:         int(values[0]),
		Created:       int(values[1]),
		LiteralBytes:  values[2],
		BytesSent:     values[3],
		BytesReceived: values[4],
	}, nil
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, dir string) (string, string, int, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return stdout.String(), stderr.String(), exitErr.ExitCode(), nil
		}
		return stdout.String(), stderr.String(), -1, err
	}
	return stdout.String(), stderr.String(), 0, nil
}
