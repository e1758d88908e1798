package rsync

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type fakeExecutor struct {
	stdout   string
	stderr   string
	exitCode int
	args     []string
	dir      string
}

func (f *fakeExecutor) Run(_ context.Context, _ string, args []string, dir string) (string, string, int, error) {
	f.args = args
	f.dir = dir
	return f.stdout, f.stderr, f.exitCode, nil
}

const sampleStats = `
Number of files: 1,234 (reg: 1,200, dir: 34)
Number of created files: 56
Number of deleted files: 0
Number of regular files transferred: 56
Total file size: 9,876,543 bytes
Total transferred file size: 123,456 bytes
Literal data: 123,456 bytes
Matched data: 0 bytes
File list size: 12,345
File list generation time: 0.001 seconds
File list transfer time: 0.000 seconds
Total bytes sent: 130,000
Total bytes received: 1,500
`

func TestSyncParsesStats(t *testing.T) {
	fake := &fakeExecutor{stdout: sampleStats}
	client, err := New("rsync", 100, 2*time.Second, WithExecutor(fake))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	stats, err := client.Sync(context.Background(), "/src/Alpha", "/dest")
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if stats.Files != 1234 || stats.Created != 56 {
		t.Fatalf("stats = %+v", stats)
	}
	if stats.LiteralBytes != 123456 || stats.BytesSent != 130000 || stats.BytesReceived != 1500 {
		t.Fatalf("stats = %+v", stats)
	}

	joined := strings.Join(fake.args, " ")
	for _, want := range []string{"-a", "--whole-file", "--min-size=100", "--ignore-existing", "--omit-dir-times", "--no-perms", "--timeout=2", "--stats"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("args missing %q: %v", want, fake.args)
		}
	}
	if fake.args[len(fake.args)-1] != "/dest/." {
		t.Fatalf("destination arg = %q", fake.args[len(fake.args)-1])
	}
}

func TestSyncMapsExitCodes(t *testing.T) {
	fake := &fakeExecutor{exitCode: 24, stderr: "file has vanished"}
	client, _ := New("rsync", 0, time.Second, WithExecutor(fake))
	_, err := client.Sync(context.Background(), "/src/Alpha", "/dest")
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected ExitError, got %v", err)
	}
	if !exitErr.Vanished() {
		t.Fatal("code 24 must read as vanished source")
	}
	if !strings.Contains(exitErr.Error(), "vanished source files") {
		t.Fatalf("description = %q", exitErr.Error())
	}

	fake = &fakeExecutor{exitCode: 30}
	client, _ = New("rsync", 0, time.Second, WithExecutor(fake))
	_, err = client.Sync(context.Background(), "/src/Alpha", "/dest")
	if !errors.As(err, &exitErr) || exitErr.Vanished() {
		t.Fatalf("code 30 handling wrong: %v", err)
	}
	if !strings.Contains(exitErr.Error(), "timeout in data send/receive") {
		t.Fatalf("description = %q", exitErr.Error())
	}
}

func TestSyncRejectsMalformedStats(t *testing.T) {
	fake := &fakeExecutor{stdout: "Number of files: 10\n"}
	client, _ := New("rsync", 0, time.Second, WithExecutor(fake))
	if _, err := client.Sync(context.Background(), "/src", "/dest"); err == nil {
		t.Fatal("expected stats parse error")
	}
}

func TestNewRequiresBinary(t *testing.T) {
	if _, err := New("  ", 0, time.Second); err == nil {
		t.Fatal("expected error for empty binary")
	}
}
