// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestDefaultConf(t *testing.T) {
	conf := SetDefaults()

	if conf.Output != "stdout" {
		t.Errorf("expected output to be stdout, got %s", conf.Output)
	}

	if conf.Level != "INFO" {
		t.Errorf("expected level to be INFO, got %s", conf.Level)
	}

	if conf.Filename != defaultFilename {
		t.Errorf("expected filename to be %s, got %s", defaultFilename, conf.Filename)
	}
}

func TestConf_Validate(t *testing.T) {
	tests := []struct {
		name    string
		conf    *Conf
		wantErr bool
	}{
		{
			name:    "valid stdout config",
			conf:    &Conf{Output: "stdout", Level: "INFO"},
			wantErr: false,
		},
		{
			name:    "invalid file config - missing path",
			conf:    &Conf{Output: "file", Level: "INFO"},
			wantErr: true,
		},
		{
			name:    "file config with auto-correction",
			conf:    &Conf{Output: "file", Path: "/tmp/logs", Level: "INFO"},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.conf.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}

			// 验证自动修正
			if !tt.wantErr && tt.conf.Output == "file" {
				if tt.conf.RotateSize <= 0 || tt.conf.RotateNum <= 0 || tt.conf.KeepHours <= 0 {
					t.Error("rotation settings should be auto-corrected to positive values")
				}
				if tt.conf.Filename == "" {
					t.Error("filename should default when empty")
				}
			}
		})
	}
}

func TestNewLog_File(t *testing.T) {
	tmpDir := t.TempDir()

	conf := &Conf{
		Output:     "file",
		Path:       tmpDir,
		Filename:   "test.log",
		Level:      "INFO",
		KeepHours:  1,
		RotateSize: 1,
		RotateNum:  3,
	}

	logger, err := NewLog(conf)
	if err != nil {
		t.Fatalf("NewLog() error = %v", err)
	}

	logger.Info("test message 1")
	logger.Warn("test message 2")
	_ = logger.Sync()

	logFile := filepath.Join(tmpDir, "test.log")
	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		t.Errorf("log file should exist at %s", logFile)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		" INFO ":  zapcore.InfoLevel,
		"warning": zapcore.WarnLevel,
		"Error":   zapcore.ErrorLevel,
		"bogus":   zapcore.InfoLevel,
	}
	for in, want := range tests {
		if got := parseLogLevel(in); got != want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestGlobalLogFunctions(t *testing.T) {
	if err := Init(&Conf{Output: "stdout", Level: "DEBUG"}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	Infow("structured info", "token", "abc")
	Debugw("structured debug", "state", "pending")
	Warnw("structured warn", "count", 5)
	Errorw("structured error", "error", "something went wrong")

	if GetLevel() != zapcore.DebugLevel {
		t.Errorf("expected debug level, got %v", GetLevel())
	}
}
