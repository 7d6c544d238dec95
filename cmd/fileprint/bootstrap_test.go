package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/jamesainslie/fileprint/pkg/fileprint/config"
	"github.com/jamesainslie/fileprint/pkg/fileprint/engine"
	"github.com/jamesainslie/fileprint/pkg/fileprint/fingerprint"
	"github.com/jamesainslie/fileprint/pkg/fileprint/logging"
	"github.com/jamesainslie/fileprint/pkg/fileprint/meta"
)

func TestParseRotationConfig(t *testing.T) {
	tests := []struct {
		name     string
		input    config.RotationConfig
		expected logging.RotationConfig
	}{
		{
			name: "default values",
			input: config.RotationConfig{
				MaxSize:    "10MB",
				MaxAge:     30,
				MaxBackups: 5,
				Daily:      true,
			},
			expected: logging.RotationConfig{
				MaxSize:    10 * 1024 * 1024, // 10MB
				MaxAge:     30,
				MaxBackups: 5,
				Daily:      true,
			},
		},
		{
			name: "custom size in gigabytes",
			input: config.RotationConfig{
				MaxSize:    "1G",
				MaxAge:     7,
				MaxBackups: 3,
			},
			expected: logging.RotationConfig{
				MaxSize:    1024 * 1024 * 1024, // 1GB
				MaxAge:     7,
				MaxBackups: 3,
			},
		},
		{
			name: "empty max_size uses default",
			input: config.RotationConfig{
				MaxSize:    "",
				MaxAge:     14,
				MaxBackups: 2,
				Daily:      true,
			},
			expected: logging.RotationConfig{
				MaxSize:    10 * 1024 * 1024, // 10MB default
				MaxAge:     14,
				MaxBackups: 2,
				Daily:      true,
			},
		},
		{
			name: "invalid max_size uses default",
			input: config.RotationConfig{
				MaxSize:    "invalid",
				MaxAge:     21,
				MaxBackups: 4,
			},
			expected: logging.RotationConfig{
				MaxSize:    10 * 1024 * 1024, // 10MB default
				MaxAge:     21,
				MaxBackups: 4,
			},
		},
		{
			name:  "zero max_size uses default",
			input: config.RotationConfig{MaxSize: "0"},
			expected: logging.RotationConfig{
				MaxSize: 10 * 1024 * 1024,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseRotationConfig(tt.input)

			if result != tt.expected {
				t.Errorf("parseRotationConfig() = %+v, want %+v", result, tt.expected)
			}
		})
	}
}

func TestInitializeLogging(t *testing.T) {
	tests := []struct {
		name     string
		path     bool
		verbose  bool
		wantFile bool
		wantDir  bool
	}{
		{name: "plain run writes nothing", wantFile: false, wantDir: false},
		{name: "explicit path", path: true, wantFile: true, wantDir: false},
		{name: "verbose uses state dir", verbose: true, wantFile: false, wantDir: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(xdg.Reload)
			stateHome := t.TempDir()
			t.Setenv("XDG_STATE_HOME", stateHome)
			xdg.Reload()

			logPath := filepath.Join(t.TempDir(), "fileprint.log")
			prev := cfg
			cfg = &config.Config{Logging: config.LoggingConfig{Level: "info"}}
			if tt.path {
				cfg.Logging.Path = logPath
			}
			if tt.verbose {
				if err := rootCmd.PersistentFlags().Set("verbose", "true"); err != nil {
					t.Fatal(err)
				}
			}
			t.Cleanup(func() {
				cfg = prev
				resetFlags(rootCmd)
			})

			if err := initializeLogging(nil, nil); err != nil {
				t.Fatalf("initializeLogging() returned error: %v", err)
			}
			defer closeLogging()

			_, err := os.Stat(logPath)
			if got := err == nil; got != tt.wantFile {
				t.Errorf("log file exists = %v, want %v", got, tt.wantFile)
			}
			_, err = os.Stat(config.StateDir())
			if got := err == nil; got != tt.wantDir {
				t.Errorf("state directory exists = %v, want %v", got, tt.wantDir)
			}
		})
	}
}

func TestFingerprintError(t *testing.T) {
	sysErr := &fs.PathError{Op: "open", Path: "/x", Err: fs.ErrPermission}

	tests := []struct {
		name   string
		err    error
		code   int
		msg    string
		stdout bool
	}{
		{"stat", fmt.Errorf("%w: %w", meta.ErrStat, sysErr), exitStat, "ERROR: Could not stat file: '/x'", true},
		{"empty path", meta.ErrEmptyPath, exitStat, "ERROR: Could not stat file: '/x'", true},
		{"open", fmt.Errorf("%w: %w", engine.ErrOpen, sysErr), exitOpen, "ERROR: File open: permission denied", false},
		{"read", fmt.Errorf("%w: %w", engine.ErrRead, errors.New("input/output error")), exitRead, "ERROR: File read: input/output error", false},
		{"close", fmt.Errorf("%w: %w", engine.ErrClose, sysErr), exitClose, "ERROR: File close: permission denied", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ee *exitError
			if !errors.As(fingerprintError("/x", tt.err), &ee) {
				t.Fatalf("fingerprintError(%v) is not an exitError", tt.err)
			}
			if ee.code != tt.code || ee.msg != tt.msg || ee.stdout != tt.stdout {
				t.Errorf("got {%d %q %v}, want {%d %q %v}", ee.code, ee.msg, ee.stdout, tt.code, tt.msg, tt.stdout)
			}
		})
	}

	if err := fingerprintError("/x", fingerprint.ErrNotRegular); err != nil {
		t.Errorf("non-regular path should not be an error, got %v", err)
	}
}
