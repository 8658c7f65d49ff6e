// Package heartbeat logs a periodic liveness line carrying the latest
// discovery state.
package heartbeat

import (
	"context"
	"time"

	"boardscan-go/bus"
	"boardscan-go/types"
	"boardscan-go/x/logx"
)

var (
	TopicConfig    = bus.T("config", "heartbeat")
	topicDiscState = bus.T("discovery", "state")
)

const DefaultInterval = 5 * time.Second

// Config is accepted on config/heartbeat.
type Config struct {
	Interval time.Duration
}

type Service struct {
	log      logx.Logger
	interval time.Duration
	state    types.DiscoveryState
	beats    int
}

func New(l logx.Logger) *Service {
	return &Service{log: logx.OrNop(l), interval: DefaultInterval}
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(TopicConfig)
	stSub := conn.Subscribe(topicDiscState)
	defer conn.Unsubscribe(cfgSub)
	defer conn.Unsubscribe(stSub)

	tick := time.NewTicker(s.interval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Infof("heartbeat service stopping")
			return
		case <-tick.C:
			s.beat()
		case msg, ok := <-stSub.Channel():
			if !ok {
				return
			}
			if st, ok := msg.Payload.(types.DiscoveryState); ok {
				s.state = st
			}
		case msg, ok := <-cfgSub.Channel():
			if !ok {
				return
			}
			if c, ok := msg.Payload.(Config); ok && c.Interval > 0 {
				s.interval = c.Interval
				tick.Reset(c.Interval)
				s.log.Infof("heartbeat interval set to %v", c.Interval)
			}
		}
	}
}

func (s *Service) beat() {
	s.beats++
	level := s.state.Level
	if level == "" {
		level = "unknown"
	}
	s.log.Infof("heartbeat %d: discovery %s, %d devices", s.beats, level, s.state.Present)
}

// Start the heartbeat service.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) {
	go s.serviceLoop(ctx, conn)
}
