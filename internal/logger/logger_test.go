package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewLoggerFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, "warn", nil)
	log.Info("should not appear")
	log.Warn("should appear")

	out := buf.String()
	if strings.Contains(out, "should not appear") {
		t.Fatalf("info line leaked through warn-level filter: %q", out)
	}
	if !strings.Contains(out, "should appear") {
		t.Fatalf("warn line missing: %q", out)
	}
}

func TestNewLoggerTraceLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, "trace", nil)
	log.Log(nil, TraceLevel, "trace line")
	if !strings.Contains(buf.String(), "trace line") {
		t.Fatalf("trace line missing at trace level: %q", buf.String())
	}
}

func TestHandlerIncludesAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, "info", nil)
	log.Info("mapped segment", "id", 3)
	if !strings.Contains(buf.String(), "id=3") {
		t.Fatalf("attr missing from output: %q", buf.String())
	}
}

func TestMirrorReceivesEveryRecord(t *testing.T) {
	var primary, mirror bytes.Buffer
	log := NewLogger(&primary, "info", &mirror)
	log.Info("segment mapped", "id", 7)

	if !strings.Contains(primary.String(), "segment mapped") {
		t.Fatalf("primary sink missing record: %q", primary.String())
	}
	if !strings.Contains(mirror.String(), "segment mapped") {
		t.Fatalf("mirror sink missing record: %q", mirror.String())
	}
}

func TestNilMirrorIsNoop(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, "info", nil)
	log.Info("no mirror configured")
	if !strings.Contains(buf.String(), "no mirror configured") {
		t.Fatalf("primary sink missing record: %q", buf.String())
	}
}
