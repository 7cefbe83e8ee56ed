package logger

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tessro/mixtape/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		want    zapcore.Level
		wantErr bool
	}{
		{"", zapcore.InfoLevel, false},
		{"debug", zapcore.DebugLevel, false},
		{"warn", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"verbose", zapcore.InfoLevel, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestNewWithoutOutputsIsNop(t *testing.T) {
	log, err := New(config.LogConfig{Level: "debug"}, false)
	if err != nil {
		t.Fatal(err)
	}
	if log.Core().Enabled(zapcore.ErrorLevel) {
		t.Error("logger without outputs should be a no-op")
	}
}

func TestNewWritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "mixtape.log")
	log, err := New(config.LogConfig{Level: "info", File: path, MaxSize: 1}, false)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	log.Named("engine").Info("mount", zap.String("source", "https://cdn.example.com/a.mp3"))
	log.Debug("dropped")
	_ = log.Sync()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("log file not created: %v", err)
	}
	defer f.Close()

	var lines []map[string]any
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var rec map[string]any
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			t.Fatalf("line is not JSON: %q", sc.Text())
		}
		lines = append(lines, rec)
	}
	if len(lines) != 1 {
		t.Fatalf("got %d records, want 1 (debug filtered)", len(lines))
	}
	if lines[0]["logger"] != "engine" || lines[0]["msg"] != "mount" || lines[0]["level"] != "info" {
		t.Errorf("record = %v", lines[0])
	}
}

func TestNewRejectsBadLevel(t *testing.T) {
	if _, err := New(config.LogConfig{Level: "loud"}, true); err == nil {
		t.Error("New() error = nil for unknown level")
	}
}
