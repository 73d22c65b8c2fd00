package logging

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	prev := logger
	SetLogger(zap.New(core))
	t.Cleanup(func() { logger = prev })
	return logs
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    zapcore.Level
		wantErr bool
	}{
		{"debug", zapcore.DebugLevel, false},
		{"info", zapcore.InfoLevel, false},
		{"warn", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"loud", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestInitializeSilentByDefault(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "")
	if err := Initialize(""); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if GetLogger().Core().Enabled(zapcore.ErrorLevel) {
		t.Error("logger should be silent when no level is configured")
	}
}

func TestDomainHelpers(t *testing.T) {
	logs := observe(t)

	LogLoad("/settings.json", 2, true)
	LogCommit("/settings.json", 512, false, 11*time.Second)
	LogBackup("/settings_back_3", 3)
	LogRotate([]string{"/settings_back_1"}, 10)
	LogStorageFailure("rename", "/tmp_settings.json", errors.New("disk full"))

	want := []struct {
		msg   string
		level zapcore.Level
	}{
		{"Settings loaded", zapcore.InfoLevel},
		{"Settings committed", zapcore.InfoLevel},
		{"Settings backup written", zapcore.InfoLevel},
		{"Backups rotated", zapcore.DebugLevel},
		{"Storage operation failed", zapcore.WarnLevel},
	}

	entries := logs.All()
	if len(entries) != len(want) {
		t.Fatalf("logged %d entries, want %d", len(entries), len(want))
	}
	for i, w := range want {
		if entries[i].Message != w.msg || entries[i].Level != w.level {
			t.Errorf("entry %d = %q at %v, want %q at %v", i, entries[i].Message, entries[i].Level, w.msg, w.level)
		}
	}

	if got := entries[2].ContextMap()["number"]; got != int64(3) {
		t.Errorf("backup number field = %v, want 3", got)
	}
}

func TestSinkWriter(t *testing.T) {
	logs := observe(t)

	w := SinkWriter(zapcore.DebugLevel)
	for i := 0; i < 3; i++ {
		fmt.Fprintf(w, "line %d\n", i)
	}

	entries := logs.FilterLevelExact(zapcore.DebugLevel).All()
	if len(entries) != 3 {
		t.Fatalf("sink produced %d entries, want 3", len(entries))
	}
	if entries[1].Message != "line 1" {
		t.Errorf("entry message = %q, want %q", entries[1].Message, "line 1")
	}
}
