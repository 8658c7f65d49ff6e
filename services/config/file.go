//go:build !tinygo

package config

import (
	"bytes"
	"errors"
	"io"
	"os"
	"time"

	"boardscan-go/errcode"
	"boardscan-go/types"

	"gopkg.in/yaml.v3"
)

// File is the host-side configuration document.
//
//	device: pico_tracker       # optional board defaults
//	log:
//	  level: debug
//	  development: true
//	discovery:
//	  bus: "1"
//	  mode: read
//	  settle_delay: 20ms
//	  capabilities: [keystore, rtc_rv3028]
//	  scan_on_boot: true
type File struct {
	Device    string           `yaml:"device"`
	Log       LogSection       `yaml:"log"`
	Discovery DiscoverySection `yaml:"discovery"`
}

type LogSection struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

type DiscoverySection struct {
	Bus          string        `yaml:"bus"`
	Mode         string        `yaml:"mode"`
	SettleDelay  time.Duration `yaml:"settle_delay"`
	Capabilities []string      `yaml:"capabilities"`
	ScanOnBoot   *bool         `yaml:"scan_on_boot"`
}

// Parse decodes a configuration document. Unknown keys are rejected.
func Parse(data []byte) (File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return File{}, errcode.Wrap(errcode.InvalidConfig, "config.parse", err)
	}
	return f, nil
}

// LoadFile reads and decodes path.
func LoadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, errcode.Wrap(errcode.InvalidConfig, "config.load", err)
	}
	return Parse(data)
}

// ScanConfig layers the discovery section over the board defaults named by
// Device (or an empty config).
func (f File) ScanConfig() (types.ScanConfig, error) {
	var cfg types.ScanConfig
	if f.Device != "" {
		base, ok := BoardLookup(f.Device)
		if !ok {
			return cfg, &errcode.E{C: errcode.InvalidConfig, Op: "config.scan", Msg: "unknown device " + f.Device}
		}
		cfg = base
	}
	d := f.Discovery
	if d.Bus != "" {
		cfg.Bus = d.Bus
	}
	if d.Mode != "" {
		m, ok := types.ParseProbeMode(d.Mode)
		if !ok {
			return cfg, &errcode.E{C: errcode.InvalidConfig, Op: "config.scan", Msg: "unknown probe mode " + d.Mode}
		}
		cfg.Mode = m
	}
	if d.SettleDelay != 0 {
		cfg.SettleDelay = d.SettleDelay
	}
	if d.Capabilities != nil {
		cfg.Capabilities = types.CapNone
		for _, name := range d.Capabilities {
			c, ok := types.ParseCapability(name)
			if !ok {
				return cfg, &errcode.E{C: errcode.InvalidConfig, Op: "config.scan", Msg: "unknown capability " + name}
			}
			cfg.Capabilities |= c
		}
	}
	if d.ScanOnBoot != nil {
		cfg.ScanOnBoot = *d.ScanOnBoot
	}
	return cfg.Normalise(), nil
}
