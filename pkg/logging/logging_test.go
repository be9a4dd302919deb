// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{" Error ", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLogLevel(tt.in); got != tt.want {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestStructuredLoggerAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := newStructuredLogger(&buf, "editorctl", "v1.2.3", "info")

	logger.Info("bundle built", "output", "dist/editor.js")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("log output is not JSON: %v (%s)", err, buf.String())
	}
	if rec["module"] != "editorctl" {
		t.Errorf("module = %v, want editorctl", rec["module"])
	}
	if rec["version"] != "v1.2.3" {
		t.Errorf("version = %v, want v1.2.3", rec["version"])
	}
	if rec["output"] != "dist/editor.js" {
		t.Errorf("output = %v, want dist/editor.js", rec["output"])
	}
	if _, ok := rec["source"]; ok {
		t.Error("source should only be attached at debug level")
	}
}

func TestStructuredLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := newStructuredLogger(&buf, "m", "v", "warn")

	logger.Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("info record written at warn level: %s", buf.String())
	}

	logger.Warn("kept")
	if buf.Len() == 0 {
		t.Error("warn record missing at warn level")
	}
}

func TestSetDefaultStructuredLoggerWithLevel(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	t.Setenv(EnvLogLevel, "error")
	SetDefaultStructuredLoggerWithLevel("editorctl", "dev", "")

	if slog.Default().Enabled(context.Background(), slog.LevelWarn) {
		t.Error("default logger should honor LOG_LEVEL=error")
	}
}
