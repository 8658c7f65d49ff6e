package discovery

import (
	"context"
	"sync"
	"time"

	"boardscan-go/bus"
	"boardscan-go/errcode"
	"boardscan-go/services/config"
	"boardscan-go/transport"
	"boardscan-go/types"
	"boardscan-go/x/logx"
)

var (
	TopicState    = bus.T("discovery", "state")
	TopicRegistry = bus.T("discovery", "registry")
	TopicScan     = bus.T("discovery", "control", "scan")
)

// Service runs sweeps on behalf of the rest of the firmware. It waits for
// config/discovery, sweeps once at boot when configured to, and serves scan
// requests. Each finished sweep publishes the *Registry retained on
// discovery/registry; the value is never modified afterwards.
type Service struct {
	bus  transport.Bus
	log  logx.Logger
	opts []Option
	gate chan struct{}

	mu      sync.Mutex
	scanner *Scanner
	last    *Registry
	booted  bool
}

func NewService(b transport.Bus, l logx.Logger, opts ...Option) *Service {
	s := &Service{bus: b, log: logx.OrNop(l), gate: make(chan struct{}, 1)}
	s.opts = append([]Option{WithLogger(s.log)}, opts...)
	s.opts = append(s.opts, withGate(s.gate))
	return s
}

// Registry returns the result of the last finished sweep, or nil.
func (s *Service) Registry() *Registry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Start runs the service loop until ctx is done.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) {
	go s.run(ctx, conn)
}

func (s *Service) run(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(config.TopicDiscovery)
	ctrlSub := conn.Subscribe(TopicScan)
	defer conn.Unsubscribe(cfgSub)
	defer conn.Unsubscribe(ctrlSub)

	s.publishState(conn, "idle", "await_config", 0)

	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-cfgSub.Channel():
			if !ok {
				return
			}
			s.onConfig(ctx, conn, m)
		case m, ok := <-ctrlSub.Channel():
			if !ok {
				return
			}
			s.onScanRequest(ctx, conn, m)
		}
	}
}

func (s *Service) onConfig(ctx context.Context, conn *bus.Connection, m *bus.Message) {
	cfg, ok := m.Payload.(types.ScanConfig)
	if !ok {
		s.log.Warnf("discovery: ignoring config payload %T", m.Payload)
		return
	}
	sc := New(s.bus, cfg, s.opts...)
	s.mu.Lock()
	s.scanner = sc
	boot := sc.Config().ScanOnBoot && !s.booted
	s.booted = true
	s.mu.Unlock()

	s.publishState(conn, "idle", "configured", 0)
	if boot {
		if err := s.startSweep(ctx, conn, sc, nil); err != nil {
			s.log.Warnf("discovery: boot scan not started: %v", err)
			s.publishState(conn, "error", string(errcode.Of(err)), 0)
		}
	}
}

func (s *Service) onScanRequest(ctx context.Context, conn *bus.Connection, m *bus.Message) {
	s.mu.Lock()
	sc := s.scanner
	s.mu.Unlock()
	if sc == nil {
		conn.Reply(m, types.ScanReply{Error: string(errcode.NotReady)}, false)
		return
	}
	if err := s.startSweep(ctx, conn, sc, m); err != nil {
		conn.Reply(m, types.ScanReply{Error: string(errcode.Of(err))}, false)
	}
}

// startSweep claims the gate and sweeps in the background. It fails with
// errcode.NotReady without a bus and errcode.Busy when a sweep already holds
// the bus.
func (s *Service) startSweep(ctx context.Context, conn *bus.Connection, sc *Scanner, req *bus.Message) error {
	if sc.bus == nil {
		return errcode.Wrap(errcode.NotReady, "discovery.sweep", nil)
	}
	select {
	case s.gate <- struct{}{}:
	default:
		return errcode.Busy
	}
	s.publishState(conn, "scanning", "ok", 0)
	go func() {
		defer func() { <-s.gate }()
		reg, sum, err := sc.sweep(ctx)
		if err != nil {
			s.publishState(conn, "error", string(errcode.Of(err)), 0)
			conn.Reply(req, types.ScanReply{Error: err.Error()}, false)
			return
		}
		s.mu.Lock()
		s.last = reg
		s.mu.Unlock()

		conn.Publish(conn.NewMessage(TopicRegistry, reg, true))
		s.publishState(conn, "ready", "ok", sum.Present)

		snap := reg.Snapshot()
		conn.Reply(req, types.ScanReply{OK: true, Present: sum.Present, Anomalies: sum.Anomalies, Registry: &snap}, false)
	}()
	return nil
}

func (s *Service) publishState(conn *bus.Connection, level, status string, present int) {
	conn.Publish(conn.NewMessage(TopicState, types.DiscoveryState{
		Level:   level,
		Status:  status,
		Present: present,
		TS:      time.Now().UnixMilli(),
	}, true))
}
