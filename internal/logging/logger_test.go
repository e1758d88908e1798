package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"seriesync/internal/testsupport"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"Info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"unknown": slog.LevelInfo,
	}
	for input, want := range cases {
		if got := parseLevel(input); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestConsoleHandlerOutput(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, lvl, false))

	logger.Info("sync chapter", "component", "syncer", "series", "Alpha", "count", 3)

	line := buf.String()
	if !strings.Contains(line, " INFO syncer: sync chapter") {
		t.Fatalf("unexpected line: %q", line)
	}
	if !strings.Contains(line, "series=Alpha") || !strings.Contains(line, "count=3") {
		t.Fatalf("attrs missing: %q", line)
	}
}

func TestConsoleHandlerQuotesValues(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, lvl, false))

	logger.Warn("conflict", "path", "My Title c001.cbz")
	if !strings.Contains(buf.String(), `path="My Title c001.cbz"`) {
		t.Fatalf("value not quoted: %q", buf.String())
	}
}

func TestConsoleHandlerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	lvl.Set(slog.LevelWarn)
	logger := slog.New(newConsoleHandler(&buf, lvl, false))

	logger.Info("quiet")
	if buf.Len() != 0 {
		t.Fatalf("info leaked past warn level: %q", buf.String())
	}
	logger.Error("loud")
	if !strings.Contains(buf.String(), "ERROR") {
		t.Fatalf("error not logged: %q", buf.String())
	}
}

func TestConsoleHandlerGroups(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, lvl, false)).WithGroup("run")

	logger.Info("done", "files", 7)
	if !strings.Contains(buf.String(), "run.files=7") {
		t.Fatalf("group prefix missing: %q", buf.String())
	}
}

func TestJSONHandlerKeys(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newJSONHandler(&buf, lvl, false))

	logger.Info("saved manifest", "entries", 2)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("not valid JSON: %v: %q", err, buf.String())
	}
	if record["msg"] != "saved manifest" || record["level"] != "info" {
		t.Fatalf("renamed keys missing: %v", record)
	}
	if _, ok := record["ts"]; !ok {
		t.Fatalf("ts key missing: %v", record)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Fatal("unknown format accepted")
	}
}

func TestNewFromConfigTeesIntoLogFile(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	logger, err := NewFromConfig(cfg)
	if err != nil {
		t.Fatalf("from config: %v", err)
	}

	logger.Info("logger wired", "check", "ok")

	data, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, "seriesync.log"))
	if err != nil {
		t.Fatalf("log file: %v", err)
	}
	if !strings.Contains(string(data), "logger wired") {
		t.Fatalf("message not in log file: %q", data)
	}
}
