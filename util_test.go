package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0 seconds"},
		{time.Second, "1 second"},
		{65 * time.Second, "1 minute, 5 seconds"},
		{2 * time.Minute, "2 minutes, 0 seconds"},
		{time.Hour + time.Minute + time.Second, "1 hour, 1 minute, 1 second"},
		{25*time.Hour + 30*time.Minute, "25 hours, 30 minutes, 0 seconds"},
	}
	for _, tt := range tests {
		if got := formatUptime(tt.d); got != tt.want {
			t.Errorf("formatUptime(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestPlural(t *testing.T) {
	if plural(1) != "" {
		t.Error("plural(1) should be empty")
	}
	for _, n := range []int{0, 2, 10} {
		if plural(n) != "s" {
			t.Errorf("plural(%d) should be \"s\"", n)
		}
	}
}

func TestGetEnvDuration(t *testing.T) {
	const key = "TEST_DURATION_VALUE"
	fallback := 5 * time.Minute

	if got := getEnvDuration(key, fallback); got != fallback {
		t.Errorf("unset: got %v, want fallback", got)
	}

	t.Setenv(key, "90s")
	if got := getEnvDuration(key, fallback); got != 90*time.Second {
		t.Errorf("valid: got %v, want 90s", got)
	}

	t.Setenv(key, "not-a-duration")
	if got := getEnvDuration(key, fallback); got != fallback {
		t.Errorf("invalid: got %v, want fallback", got)
	}
}

func TestGetEnvInt(t *testing.T) {
	const key = "TEST_INT_VALUE"

	if got := getEnvInt(key, 7); got != 7 {
		t.Errorf("unset: got %d, want fallback", got)
	}

	t.Setenv(key, "42")
	if got := getEnvInt(key, 7); got != 42 {
		t.Errorf("valid: got %d, want 42", got)
	}

	t.Setenv(key, "forty-two")
	if got := getEnvInt(key, 7); got != 7 {
		t.Errorf("invalid: got %d, want fallback", got)
	}
}

func TestDirExists(t *testing.T) {
	dir := t.TempDir()
	if !dirExists(dir) {
		t.Error("existing directory reported missing")
	}
	if dirExists(filepath.Join(dir, "nope")) {
		t.Error("missing path reported as a directory")
	}

	file := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if dirExists(file) {
		t.Error("regular file reported as a directory")
	}
}
