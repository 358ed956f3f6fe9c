package output

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRotatedName(t *testing.T) {
	now := time.Date(2024, 1, 15, 9, 30, 0, 42_000_000, time.UTC)

	tests := []struct {
		path string
		want string
	}{
		{"/var/log/renamer.log", "/var/log/renamer-20240115-093000-042.log"},
		{"renamer", "renamer-20240115-093000-042"},
	}
	for _, tt := range tests {
		if got := RotatedName(tt.path, now); got != tt.want {
			t.Errorf("RotatedName(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestNeedsRotation(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "renamer.log")

	if full, err := NeedsRotation(logPath, 10); err != nil || full {
		t.Errorf("missing log: got (%v, %v), want (false, nil)", full, err)
	}

	if err := os.WriteFile(logPath, []byte("0123456789"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		maxSize int64
		want    bool
	}{
		{0, false},
		{11, false},
		{10, true},
		{5, true},
	}
	for _, tt := range tests {
		full, err := NeedsRotation(logPath, tt.maxSize)
		if err != nil {
			t.Fatalf("NeedsRotation() error: %v", err)
		}
		if full != tt.want {
			t.Errorf("NeedsRotation(max=%d) = %v, want %v", tt.maxSize, full, tt.want)
		}
	}
}

func TestOpenRotatesFullLog(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "renamer.log")
	if err := os.WriteFile(logPath, []byte(strings.Repeat("x", 64)), 0644); err != nil {
		t.Fatal(err)
	}

	var stderr bytes.Buffer
	out, err := Open(Config{Level: LevelInfo, Writer: &bytes.Buffer{}, ErrWriter: &stderr, MaxLogSize: 32}, logPath)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	out.Info("fresh start")
	out.Close()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "xxxx") || !strings.Contains(string(data), "[INFO] fresh start") {
		t.Errorf("log should start fresh after rotation, got %q", data)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 2 {
		t.Errorf("expected the active log and one rotated segment, got %d entries", len(entries))
	}
}
