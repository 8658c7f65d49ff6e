package discovery

import (
	"context"
	"time"

	"boardscan-go/errcode"
	"boardscan-go/transport"
	"boardscan-go/types"
	"boardscan-go/x/logx"
)

// Sweep bounds. 0 is the general-call address and 127 is reserved.
const (
	FirstAddress = 1
	LastAddress  = 126
)

// ValidAddress reports whether a is inside the sweep range.
func ValidAddress(a uint8) bool { return a >= FirstAddress && a <= LastAddress }

// Summary describes one finished sweep.
type Summary struct {
	Present    int     // addresses that acknowledged
	Found      []uint8 // present addresses, ascending
	Anomalies  []uint8 // addresses whose presence test failed with a transport error
	Unclaimed  []uint8 // present addresses no table entry classified
	Overwrites int     // sensor-map entries replaced within the sweep
	Duration   time.Duration
}

// Scanner runs sweeps over one bus. It is safe for concurrent use; sweeps are
// serialised.
type Scanner struct {
	bus   transport.Bus
	cfg   types.ScanConfig
	table Table
	index *AddrIndex
	log   logx.Logger
	sleep func(time.Duration)
	sem   chan struct{}
}

// Option configures a Scanner.
type Option func(*Scanner)

func WithLogger(l logx.Logger) Option { return func(s *Scanner) { s.log = logx.OrNop(l) } }

// WithTable replaces DefaultTable.
func WithTable(t Table) Option { return func(s *Scanner) { s.table = t } }

// WithSleep replaces time.Sleep for the register settle delay.
func WithSleep(fn func(time.Duration)) Option {
	return func(s *Scanner) {
		if fn != nil {
			s.sleep = fn
		}
	}
}

// withGate shares the sweep semaphore between scanners on the same bus.
func withGate(g chan struct{}) Option { return func(s *Scanner) { s.sem = g } }

// New builds a Scanner. The dispatch index is resolved once against
// cfg.Capabilities.
func New(bus transport.Bus, cfg types.ScanConfig, opts ...Option) *Scanner {
	s := &Scanner{
		bus:   bus,
		cfg:   cfg.Normalise(),
		table: DefaultTable(),
		log:   logx.Nop,
		sleep: time.Sleep,
		sem:   make(chan struct{}, 1),
	}
	for _, o := range opts {
		o(s)
	}
	s.index = s.table.Index(s.cfg.Capabilities)
	return s
}

func (s *Scanner) Config() types.ScanConfig { return s.cfg }

// Scan waits for any sweep in progress, then sweeps the bus. The returned
// Registry is owned by the caller. A cancelled ctx abandons the sweep and no
// registry is returned.
func (s *Scanner) Scan(ctx context.Context) (*Registry, Summary, error) {
	if s.bus == nil {
		return nil, Summary{}, errcode.Wrap(errcode.NotReady, "discovery.scan", nil)
	}
	select {
	case s.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, Summary{}, ctx.Err()
	}
	defer func() { <-s.sem }()
	return s.sweep(ctx)
}

// TryScan is Scan without waiting: it fails with errcode.Busy while another
// sweep runs.
func (s *Scanner) TryScan(ctx context.Context) (*Registry, Summary, error) {
	if s.bus == nil {
		return nil, Summary{}, errcode.Wrap(errcode.NotReady, "discovery.scan", nil)
	}
	select {
	case s.sem <- struct{}{}:
	default:
		return nil, Summary{}, errcode.Wrap(errcode.Busy, "discovery.scan", nil)
	}
	defer func() { <-s.sem }()
	return s.sweep(ctx)
}

func (s *Scanner) sweep(ctx context.Context) (*Registry, Summary, error) {
	start := time.Now()
	reg := NewRegistry()
	var sum Summary

	for a := FirstAddress; a <= LastAddress; a++ {
		if err := ctx.Err(); err != nil {
			s.log.Warnf("scan abandoned at address 0x%x: %v", a, err)
			return nil, Summary{}, err
		}
		addr := uint8(a)
		switch transport.Classify(s.presence(addr)) {
		case transport.NoResponse:
			continue
		case transport.Error:
			s.log.Warnf("Unknown error at address 0x%x", addr)
			sum.Anomalies = append(sum.Anomalies, addr)
			continue
		}
		s.log.Infof("I2C device found at address 0x%x", addr)
		sum.Present++
		sum.Found = append(sum.Found, addr)
		if !s.dispatch(reg, addr, &sum) {
			sum.Unclaimed = append(sum.Unclaimed, addr)
		}
	}

	if sum.Present == 0 {
		s.log.Infof("No I2C devices found")
	} else {
		s.log.Infof("%d I2C devices found", sum.Present)
	}
	sum.Duration = time.Since(start)
	return reg, sum, nil
}

// presence issues the single presence transaction for addr.
func (s *Scanner) presence(addr uint8) error {
	switch s.cfg.Mode {
	case types.ProbeWriteZero:
		return s.bus.Tx(uint16(addr), []byte{0x00}, nil)
	case types.ProbeReadByte:
		var b [1]byte
		return s.bus.Tx(uint16(addr), nil, b[:])
	default:
		return s.bus.Tx(uint16(addr), nil, nil)
	}
}

// dispatch runs the first applicable entry bound to addr. Entries whose slot
// is already held are skipped unclassified so a filled slot costs no bus
// traffic. It reports whether anything was recorded.
func (s *Scanner) dispatch(reg *Registry, addr uint8, sum *Summary) bool {
	for _, e := range s.index[addr] {
		if e.Role != types.RoleNone && reg.filled(e.Role) {
			held, _, _ := reg.Slot(e.Role)
			s.log.Debugf("%s at 0x%x ignored: %s slot held by 0x%x", e.Name, addr, e.Role, held)
			continue
		}
		if s.apply(reg, addr, e.Classify(s, addr), sum) {
			return true
		}
	}
	return false
}

func (s *Scanner) apply(reg *Registry, addr uint8, f Finding, sum *Summary) bool {
	if f.Role != types.RoleNone {
		if !reg.claim(f.Role, addr, f.Model, f.Subtype) {
			return false
		}
		s.log.Infof("0x%x: %s", addr, f)
		return true
	}
	if f.Sensor == types.SensorNone {
		return false
	}
	if prev, replaced := reg.putSensor(f.Sensor, addr); replaced {
		sum.Overwrites++
		s.log.Warnf("%s at 0x%x replaces 0x%x", f.Sensor, addr, prev)
	}
	s.log.Infof("0x%x: %s", addr, f)
	return true
}
