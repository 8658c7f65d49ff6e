package discovery

import (
	"context"
	"testing"
	"time"

	"boardscan-go/bus"
	"boardscan-go/errcode"
	"boardscan-go/services/config"
	"boardscan-go/transport"
	"boardscan-go/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitMsg(t *testing.T, sub *bus.Subscription, match func(*bus.Message) bool) *bus.Message {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case m := <-sub.Channel():
			if match(m) {
				return m
			}
		case <-deadline:
			t.Fatalf("timeout waiting on %v", sub.Topic())
			return nil
		}
	}
}

func TestServiceScansOnBootAndPublishes(t *testing.T) {
	sim := transport.NewSimBus().
		Attach(AddrBME, transport.SimDevice{Registers: map[byte][][]byte{regBMEChipID: reg1(0x60)}}).
		Present(AddrSHTC3)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	b := bus.NewBus(16)
	conn := b.NewConnection("test")

	svc := NewService(sim, nil, WithSleep(noSleep))
	regSub := conn.Subscribe(TopicRegistry)
	stateSub := conn.Subscribe(TopicState)
	svc.Start(ctx, conn)
	config.Publish(conn, types.ScanConfig{ScanOnBoot: true})

	m := waitMsg(t, regSub, func(*bus.Message) bool { return true })
	reg, ok := m.Payload.(*Registry)
	require.True(t, ok)
	assert.True(t, m.Retained)
	a, ok := reg.Sensor(types.SensorBME280)
	require.True(t, ok)
	assert.Equal(t, uint8(AddrBME), a)
	assert.Equal(t, 2, reg.Len())

	st := waitMsg(t, stateSub, func(m *bus.Message) bool {
		return m.Payload.(types.DiscoveryState).Level == "ready"
	})
	assert.Equal(t, 2, st.Payload.(types.DiscoveryState).Present)
	assert.Same(t, reg, svc.Registry())
}

func TestServiceScanRequest(t *testing.T) {
	sim := transport.NewSimBus().Present(AddrMCP9808)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	b := bus.NewBus(16)
	conn := b.NewConnection("test")

	svc := NewService(sim, nil, WithSleep(noSleep))
	stateSub := conn.Subscribe(TopicState)
	svc.Start(ctx, conn)
	waitMsg(t, stateSub, func(m *bus.Message) bool {
		return m.Payload.(types.DiscoveryState).Status == "await_config"
	})

	// Before any config the service cannot sweep.
	rctx, rcancel := context.WithTimeout(ctx, time.Second)
	defer rcancel()
	reply, err := conn.RequestWait(rctx, conn.NewMessage(TopicScan, nil, false))
	require.NoError(t, err)
	assert.Equal(t, string(errcode.NotReady), reply.Payload.(types.ScanReply).Error)

	config.Publish(conn, types.ScanConfig{})
	waitMsg(t, stateSub, func(m *bus.Message) bool {
		return m.Payload.(types.DiscoveryState).Status == "configured"
	})

	reply, err = conn.RequestWait(rctx, conn.NewMessage(TopicScan, nil, false))
	require.NoError(t, err)
	r := reply.Payload.(types.ScanReply)
	require.True(t, r.OK, r.Error)
	assert.Equal(t, 1, r.Present)
	require.NotNil(t, r.Registry)
	assert.Equal(t, []types.SensorEntry{{Sensor: "mcp9808", Addr: AddrMCP9808}}, r.Registry.Sensors)
}

func TestServiceRepliesBusyDuringSweep(t *testing.T) {
	g := &gateBus{SimBus: transport.NewSimBus(), started: make(chan struct{}), release: make(chan struct{})}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	b := bus.NewBus(16)
	conn := b.NewConnection("test")

	svc := NewService(g, nil, WithSleep(noSleep))
	svc.Start(ctx, conn)
	config.Publish(conn, types.ScanConfig{ScanOnBoot: true})
	<-g.started

	rctx, rcancel := context.WithTimeout(ctx, time.Second)
	defer rcancel()
	reply, err := conn.RequestWait(rctx, conn.NewMessage(TopicScan, nil, false))
	require.NoError(t, err)
	assert.Equal(t, string(errcode.Busy), reply.Payload.(types.ScanReply).Error)

	// A scanner built from the same service shares the gate.
	_, _, err = New(g, types.ScanConfig{}, svc.opts...).TryScan(ctx)
	assert.ErrorIs(t, err, errcode.Busy)

	close(g.release)
	regSub := conn.Subscribe(TopicRegistry)
	waitMsg(t, regSub, func(*bus.Message) bool { return true })
}

func TestServiceWithoutBusReportsNotReady(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	b := bus.NewBus(16)
	conn := b.NewConnection("test")

	svc := NewService(nil, nil, WithSleep(noSleep))
	stateSub := conn.Subscribe(TopicState)
	svc.Start(ctx, conn)
	config.Publish(conn, types.ScanConfig{ScanOnBoot: true})

	st := waitMsg(t, stateSub, func(m *bus.Message) bool {
		return m.Payload.(types.DiscoveryState).Level == "error"
	})
	assert.Equal(t, string(errcode.NotReady), st.Payload.(types.DiscoveryState).Status)

	rctx, rcancel := context.WithTimeout(ctx, time.Second)
	defer rcancel()
	reply, err := conn.RequestWait(rctx, conn.NewMessage(TopicScan, nil, false))
	require.NoError(t, err)
	assert.Equal(t, string(errcode.NotReady), reply.Payload.(types.ScanReply).Error)
	assert.Nil(t, svc.Registry())
}
