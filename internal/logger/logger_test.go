package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"convention-quiz/internal/config"
)

func TestNewWritesConsoleAndFile(t *testing.T) {
	var console bytes.Buffer
	file := filepath.Join(t.TempDir(), "quiz.log")
	log, err := New(config.LogConfig{Level: "info", Format: "json", File: file}, Options{Console: &console})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	log.Debug("hidden")
	log.Info("round started")
	_ = log.Sync()

	if !strings.Contains(console.String(), `"msg":"round started"`) || strings.Contains(console.String(), "hidden") {
		t.Fatalf("unexpected console output %q", console.String())
	}
	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "round started") {
		t.Fatalf("expected file sink to receive the line, got %q", data)
	}
}

func TestNewFileOnlySkipsConsole(t *testing.T) {
	var console bytes.Buffer
	log, err := New(config.LogConfig{Level: "debug", Format: "console"}, Options{Console: &console, FileOnly: true})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	log.Info("quiet")
	if console.Len() != 0 {
		t.Fatalf("expected no console output, got %q", console.String())
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New(config.LogConfig{Level: "loud"}, Options{}); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
