package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

// resetLogger restores the default logger for test isolation.
func resetLogger() {
	Init(Options{})
}

// --- Level Tests ---

func TestOptions_Level(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want slog.Level
	}{
		{"default", Options{}, slog.LevelInfo},
		{"debug", Options{Debug: true}, slog.LevelDebug},
		{"quiet", Options{Quiet: true}, slog.LevelError},
		{"quiet wins over debug", Options{Debug: true, Quiet: true}, slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.opts.Level(); got != tt.want {
				t.Errorf("Level() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInit_Levels(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		logged  []string
		dropped []string
	}{
		{
			name:    "default",
			logged:  []string{"info msg", "warn msg", "error msg"},
			dropped: []string{"debug msg"},
		},
		{
			name:   "debug",
			opts:   Options{Debug: true},
			logged: []string{"debug msg", "info msg", "warn msg", "error msg"},
		},
		{
			name:    "quiet",
			opts:    Options{Quiet: true},
			logged:  []string{"error msg"},
			dropped: []string{"debug msg", "info msg", "warn msg"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			opts := tt.opts
			opts.Output = buf
			Init(opts)
			defer resetLogger()

			Debug("debug msg")
			Info("info msg")
			Warn("warn msg")
			Error("error msg")

			output := buf.String()
			for _, msg := range tt.logged {
				if !strings.Contains(output, msg) {
					t.Errorf("expected %q in output", msg)
				}
			}
			for _, msg := range tt.dropped {
				if strings.Contains(output, msg) {
					t.Errorf("did not expect %q in output", msg)
				}
			}
		})
	}
}

// --- Format Tests ---

func TestInit_JSONFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{JSON: true, Output: buf})
	defer resetLogger()

	Info("test message", "rows", 3)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if record["msg"] != "test message" {
		t.Errorf("msg = %v, want %q", record["msg"], "test message")
	}
	if record["level"] != "INFO" {
		t.Errorf("level = %v, want INFO", record["level"])
	}
	if record["rows"] != float64(3) {
		t.Errorf("rows = %v, want 3", record["rows"])
	}
}

func TestInit_TextFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{Output: buf})
	defer resetLogger()

	Info("test message", "path", "in.csv")

	output := buf.String()
	if !strings.Contains(output, "level=INFO") {
		t.Errorf("expected level=INFO, got %q", output)
	}
	if !strings.Contains(output, "path=in.csv") {
		t.Errorf("expected path=in.csv, got %q", output)
	}
}

func TestInit_CustomLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	custom := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	Init(Options{Logger: custom, Quiet: true})
	defer resetLogger()

	if Logger() != custom {
		t.Fatal("Logger() should return the custom logger")
	}

	Debug("from custom")
	if !strings.Contains(buf.String(), "from custom") {
		t.Error("custom logger should ignore the Quiet option")
	}
}

// --- With / Context Tests ---

func TestWith_ReturnsLoggerWithAttrs(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{Output: buf})
	defer resetLogger()

	With("key", "value").Info("test with attrs")

	output := buf.String()
	if !strings.Contains(output, "test with attrs") || !strings.Contains(output, "key=value") {
		t.Errorf("expected message and attributes, got %q", output)
	}
}

func TestContextFunctions(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{Debug: true, Output: buf})
	defer resetLogger()

	ctx := context.Background()
	DebugContext(ctx, "debug with context")
	InfoContext(ctx, "info with context")
	ErrorContext(ctx, "error with context")

	output := buf.String()
	for _, msg := range []string{"debug with context", "info with context", "error with context"} {
		if !strings.Contains(output, msg) {
			t.Errorf("expected %q in output", msg)
		}
	}
}

// --- Stage Tests ---

func TestStage_Success(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{Debug: true, Output: buf})
	defer resetLogger()

	done := Stage(context.Background(), "load", "path", "in.csv")
	done(nil, "rows", 2)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "stage started") || !strings.Contains(lines[0], "stage=load") {
		t.Errorf("unexpected start line: %q", lines[0])
	}
	for _, want := range []string{"stage finished", "stage=load", "path=in.csv", "rows=2", "duration="} {
		if !strings.Contains(lines[1], want) {
			t.Errorf("finish line missing %q: %q", want, lines[1])
		}
	}
}

func TestStage_Failure(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantLog bool
	}{
		{"default_level_silent", Options{}, false},
		{"debug_level_logs", Options{Debug: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			tt.opts.Output = buf
			Init(tt.opts)
			defer resetLogger()

			done := Stage(context.Background(), "write")
			done(errors.New("disk full"))

			output := buf.String()
			if !tt.wantLog {
				if output != "" {
					t.Errorf("expected no output, got %q", output)
				}
				return
			}
			for _, want := range []string{"level=DEBUG", "stage failed", "stage=write", "disk full"} {
				if !strings.Contains(output, want) {
					t.Errorf("output missing %q: %q", want, output)
				}
			}
		})
	}
}

func TestStage_QuietSuccessLogsNothing(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{Quiet: true, Output: buf})
	defer resetLogger()

	Stage(context.Background(), "render")(nil)

	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}
