package logx

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrinterFiltersAndFormats(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, LevelInfo).With("scan")

	p.Debugf("hidden %d", 1)
	p.Infof("I2C device found at address 0x%x\n", 0x3c)
	p.Errorf("Unknown error at address 0x%x", 0x50)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines: %q", len(lines), buf.String())
	}
	if lines[0] != "INFO  [scan] I2C device found at address 0x3c" {
		t.Fatalf("line 0 = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "ERROR [scan] Unknown error") {
		t.Fatalf("line 1 = %q", lines[1])
	}
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{"debug": LevelDebug, "WARN": LevelWarn, "error": LevelError, "?": LevelInfo} {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewZapSatisfiesLogger(t *testing.T) {
	l, err := NewZap(LevelWarn, false)
	if err != nil {
		t.Fatalf("NewZap: %v", err)
	}
	var _ Logger = l
	if OrNop(nil) != Nop {
		t.Fatal("OrNop(nil) should be Nop")
	}
}
