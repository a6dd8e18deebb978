// internal/logging/logging_test.go
package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/valpere/UIProbe/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug": zapcore.DebugLevel,
		"info":  zapcore.InfoLevel,
		"warn":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
		"loud":  zapcore.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestNew_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Logs", "automation.log")
	logger, err := New(config.LoggingConfig{Level: "info", Format: "json", File: path})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	logger.Named("suite").Info("case started")
	logger.Debug("hidden")
	logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, `"msg":"case started"`) || !strings.Contains(content, `"logger":"suite"`) {
		t.Errorf("unexpected log content %s", content)
	}
	if strings.Contains(content, "hidden") {
		t.Error("debug entry written at info level")
	}
}
