// Package bringup turns a discovery registry into initialised drivers: every
// discovered family or part with a registered builder is built, initialised
// and, when it can, sampled once.
package bringup

import (
	"context"

	"boardscan-go/errcode"
	"boardscan-go/services/discovery"
	"boardscan-go/transport"
	"boardscan-go/types"
	"boardscan-go/x/logx"
)

type Device interface {
	ID() string
	Init(ctx context.Context) error
}

// Sampler is implemented by devices that can take a reading.
type Sampler interface {
	Sample(ctx context.Context) (types.Sample, error)
}

type BuilderInput struct {
	ID   string
	Addr uint8
	Bus  transport.Bus
	Log  logx.Logger
}

type Builder interface {
	Build(ctx context.Context, in BuilderInput) (Device, error)
}

// target is one registry entry to bring up.
type target struct {
	key  string
	id   string
	addr uint8
}

func targets(reg *discovery.Registry) []target {
	var out []target
	for role := types.RoleDisplay; role < types.NumRoles; role++ {
		if addr, model, ok := reg.Slot(role); ok {
			out = append(out, target{key: ModelKey(model), id: role.String(), addr: addr})
		}
	}
	reg.Range(func(t types.SensorType, addr uint8) bool {
		out = append(out, target{key: SensorKey(t), id: t.String(), addr: addr})
		return true
	})
	return out
}

// Run brings up everything in reg that has a builder. Parts without one are
// skipped; a failing part is reported and never stops the others.
func Run(ctx context.Context, reg *discovery.Registry, bus transport.Bus, l logx.Logger) ([]Device, []types.DeviceStatus) {
	l = logx.OrNop(l)
	var (
		devs   []Device
		status []types.DeviceStatus
	)
	for _, t := range targets(reg) {
		b, ok := lookupBuilder(t.key)
		if !ok {
			l.Debugf("bringup: no builder for %s", t.key)
			continue
		}
		st := types.DeviceStatus{ID: t.id, Driver: t.key, Addr: t.addr}
		dev, err := b.Build(ctx, BuilderInput{ID: t.id, Addr: t.addr, Bus: bus, Log: l})
		if err == nil {
			err = dev.Init(ctx)
		}
		if err != nil {
			st.Error = string(errcode.MapDriverErr(err))
			l.Warnf("bringup: %s at 0x%x: %v", t.id, t.addr, err)
			status = append(status, st)
			continue
		}
		st.Ready = true
		if s, ok := dev.(Sampler); ok {
			if v, err := s.Sample(ctx); err == nil {
				st.Sample = &v
			} else {
				l.Warnf("bringup: %s first sample: %v", t.id, err)
			}
		}
		l.Infof("bringup: %s ready at 0x%x", t.id, t.addr)
		devs = append(devs, dev)
		status = append(status, st)
	}
	return devs, status
}
