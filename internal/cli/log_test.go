package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name       string
		level      log.Level
		logFunc    func(*log.Logger)
		wantLog    bool
		wantPrefix bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("parsed") }, true, false},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("parsed") }, false, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("parsed") }, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
			if got := strings.Contains(buf.String(), appName); got != tt.wantPrefix {
				t.Errorf("prefix in %q = %v, want %v", buf.String(), got, tt.wantPrefix)
			}
		})
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	prog.done("Summarized reads.gfa", "nodes", 20)

	out := buf.String()
	for _, want := range []string{"Summarized reads.gfa", "nodes=20", "elapsed="} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("empty context should yield the default logger")
	}
	custom := newLogger(&bytes.Buffer{}, log.InfoLevel)
	if loggerFromContext(withLogger(context.Background(), custom)) != custom {
		t.Error("loggerFromContext should return the attached logger")
	}
}
