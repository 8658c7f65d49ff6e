package types

import (
	"strings"
	"time"

	"boardscan-go/x/mathx"
	"boardscan-go/x/strconvx"
)

// Capability gates dispatch-table entries that only exist on some boards.
type Capability uint32

const (
	CapKeystore Capability = 1 << iota
	CapRTCRV3028
	CapRTCPCF8563
	CapPowerUnit

	CapNone Capability = 0
	CapAll             = CapKeystore | CapRTCRV3028 | CapRTCPCF8563 | CapPowerUnit
)

var capNames = []struct {
	c    Capability
	name string
}{
	{CapKeystore, "keystore"},
	{CapRTCRV3028, "rtc_rv3028"},
	{CapRTCPCF8563, "rtc_pcf8563"},
	{CapPowerUnit, "power_unit"},
}

// Has reports whether every bit of want is set. CapNone is always satisfied.
func (c Capability) Has(want Capability) bool { return c&want == want }

// Names lists the set capabilities in declaration order.
func (c Capability) Names() []string {
	var out []string
	for _, n := range capNames {
		if c.Has(n.c) {
			out = append(out, n.name)
		}
	}
	return out
}

func (c Capability) String() string {
	if c == CapNone {
		return "none"
	}
	return strings.Join(c.Names(), ",")
}

// ParseCapability resolves one capability name ("all" and "none" included)
// or a numeric mask such as "0x5".
func ParseCapability(s string) (Capability, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "all":
		return CapAll, true
	case "none", "":
		return CapNone, true
	}
	for _, n := range capNames {
		if n.name == s {
			return n.c, true
		}
	}
	if s[0] >= '0' && s[0] <= '9' {
		if v, err := strconvx.ParseUint(s, 0, 32); err == nil && Capability(v)&^CapAll == 0 {
			return Capability(v), true
		}
	}
	return 0, false
}

// ProbeMode selects the shape of the presence transaction.
type ProbeMode uint8

const (
	ProbeQuick     ProbeMode = iota // zero-length transaction
	ProbeWriteZero                  // write a single 0x00 byte
	ProbeReadByte                   // read a single byte
)

func (m ProbeMode) String() string {
	switch m {
	case ProbeWriteZero:
		return "write"
	case ProbeReadByte:
		return "read"
	default:
		return "quick"
	}
}

// ParseProbeMode accepts "quick", "write" or "read".
func ParseProbeMode(s string) (ProbeMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "quick":
		return ProbeQuick, true
	case "write", "write_zero":
		return ProbeWriteZero, true
	case "read", "read_byte":
		return ProbeReadByte, true
	}
	return 0, false
}

// Default timings.
const (
	DefaultSettleDelay = 20 * time.Millisecond
	MaxSettleDelay     = time.Second
)

// ScanConfig is resolved once at startup, from a board setup or a config file,
// and published on config/discovery.
type ScanConfig struct {
	Bus          string        // e.g. "i2c0" on MCU, "1" for /dev/i2c-1 on Linux
	Mode         ProbeMode     // presence transaction shape
	SettleDelay  time.Duration // between register write and read; 0 => default
	Capabilities Capability
	ScanOnBoot   bool
}

// Normalise fills defaults and clamps out-of-range values.
func (c ScanConfig) Normalise() ScanConfig {
	if c.SettleDelay <= 0 {
		c.SettleDelay = DefaultSettleDelay
	}
	c.SettleDelay = mathx.Clamp(c.SettleDelay, 0, MaxSettleDelay)
	if c.Mode > ProbeReadByte {
		c.Mode = ProbeQuick
	}
	return c
}
