package bringup

import (
	"context"

	"boardscan-go/bus"
	"boardscan-go/services/discovery"
	"boardscan-go/transport"
	"boardscan-go/x/logx"
)

var TopicDevices = bus.T("bringup", "devices")

// Service brings up drivers each time discovery publishes a registry and
// publishes the outcome, retained, on bringup/devices.
type Service struct {
	bus transport.Bus
	log logx.Logger
}

func NewService(b transport.Bus, l logx.Logger) *Service {
	return &Service{bus: b, log: logx.OrNop(l)}
}

func (s *Service) Start(ctx context.Context, conn *bus.Connection) {
	go s.run(ctx, conn)
}

func (s *Service) run(ctx context.Context, conn *bus.Connection) {
	sub := conn.Subscribe(discovery.TopicRegistry)
	defer conn.Unsubscribe(sub)
	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-sub.Channel():
			if !ok {
				return
			}
			reg, ok := m.Payload.(*discovery.Registry)
			if !ok {
				continue
			}
			_, status := Run(ctx, reg, s.bus, s.log)
			conn.Publish(conn.NewMessage(TopicDevices, status, true))
		}
	}
}
