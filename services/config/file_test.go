//go:build !tinygo

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"boardscan-go/errcode"
	"boardscan-go/types"
)

const sampleFile = `
device: generic
log:
  level: debug
discovery:
  bus: "1"
  mode: read
  settle_delay: 5ms
  capabilities: [keystore, power_unit]
  scan_on_boot: false
`

func TestParseLayersOverBoard(t *testing.T) {
	f, err := Parse([]byte(sampleFile))
	if err != nil {
		t.Fatal(err)
	}
	if f.Log.Level != "debug" {
		t.Fatalf("log level %q", f.Log.Level)
	}
	cfg, err := f.ScanConfig()
	if err != nil {
		t.Fatal(err)
	}
	want := types.ScanConfig{
		Bus:          "1",
		Mode:         types.ProbeReadByte,
		SettleDelay:  5 * time.Millisecond,
		Capabilities: types.CapKeystore | types.CapPowerUnit,
		ScanOnBoot:   false,
	}
	if cfg != want {
		t.Fatalf("got %+v, want %+v", cfg, want)
	}
}

func TestParseKeepsBoardDefaults(t *testing.T) {
	f, err := Parse([]byte("device: pico_tracker\n"))
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := f.ScanConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Bus != "i2c0" || !cfg.ScanOnBoot || !cfg.Capabilities.Has(types.CapKeystore) {
		t.Fatalf("board defaults lost: %+v", cfg)
	}
}

func TestParseEmptyDocument(t *testing.T) {
	f, err := Parse(nil)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := f.ScanConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SettleDelay != types.DefaultSettleDelay || cfg.Mode != types.ProbeQuick {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestParseRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"unknown key":        "discovery:\n  speed: 9\n",
		"unknown mode":       "discovery:\n  mode: fast\n",
		"unknown capability": "discovery:\n  capabilities: [lasers]\n",
		"unknown device":     "device: toaster\n",
		"bad duration":       "discovery:\n  settle_delay: soon\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			f, err := Parse([]byte(doc))
			if err == nil {
				_, err = f.ScanConfig()
			}
			if errcode.Of(err) != errcode.InvalidConfig {
				t.Fatalf("expected invalid_config, got %v", err)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.yaml")
	if err := os.WriteFile(path, []byte(sampleFile), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); errcode.Of(err) != errcode.InvalidConfig {
		t.Fatalf("expected invalid_config for missing file, got %v", err)
	}
}
