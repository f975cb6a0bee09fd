package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Faultbox/lightrig/internal/config"
)

func TestLogBeforeInit(t *testing.T) {
	// The package-level logger must be usable without Init.
	Info("no-op", zap.String("light", "key"))
	Sugar.Debugf("no-op %d", 1)
	Sync()
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"DEBUG", zapcore.DebugLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"info", zapcore.InfoLevel},
		{"bogus", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := parseLevel(tt.in); got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func fileConfig(path, lvl string) config.LoggingConfig {
	cfg := config.Default().Logging
	cfg.Level = lvl
	cfg.LogFile = path
	return cfg
}

func TestLogLevels(t *testing.T) {
	tempDir := t.TempDir()

	tests := []struct {
		level    string
		expected []string
		excluded []string
	}{
		{
			level:    "error",
			expected: []string{"ERROR"},
			excluded: []string{"WARN", "INFO", "DEBUG"},
		},
		{
			level:    "warn",
			expected: []string{"ERROR", "WARN"},
			excluded: []string{"INFO", "DEBUG"},
		},
		{
			level:    "debug",
			expected: []string{"ERROR", "WARN", "INFO", "DEBUG"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logFile := filepath.Join(tempDir, tt.level+".log")
			if err := build(fileConfig(logFile, tt.level), nil); err != nil {
				t.Fatalf("failed to init logger: %v", err)
			}

			Debug("session started", zap.String("mode", "orbit"))
			Info("light placed", zap.String("light", "key"))
			Warn("line of sight blocked")
			Error("update failed", zap.String("blocker", "wall"))
			Sync()

			content, err := os.ReadFile(logFile)
			if err != nil {
				t.Fatalf("failed to read log file: %v", err)
			}
			logContent := string(content)

			for _, exp := range tt.expected {
				if !strings.Contains(logContent, exp) {
					t.Errorf("expected %s in log output", exp)
				}
			}
			for _, exc := range tt.excluded {
				if strings.Contains(logContent, exc) {
					t.Errorf("unexpected %s in log output for level %s", exc, tt.level)
				}
			}
			if !strings.Contains(logContent, `"blocker": "wall"`) {
				t.Errorf("structured field missing from output: %s", logContent)
			}
		})
	}
}

func TestJSONFileFormat(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "json.log")
	cfg := fileConfig(logFile, "info")
	cfg.FileFormat = "json"
	if err := build(cfg, nil); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}

	Info("template placed", zap.String("template", "three-point"), zap.Int("created", 3))
	Sync()

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(content), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v: %s", err, content)
	}
	if entry["msg"] != "template placed" || entry["template"] != "three-point" {
		t.Errorf("unexpected entry: %v", entry)
	}
	if entry["created"] != float64(3) {
		t.Errorf("expected created 3, got %v", entry["created"])
	}
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	if err := build(config.LoggingConfig{Level: "error"}, &buf); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}

	Info("hidden")
	SetLevel("debug")
	Debug("shown")
	Sync()

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info logged at error level: %s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("debug missing after SetLevel: %s", out)
	}
}
