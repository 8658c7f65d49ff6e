// config/config_test.go
package config

import (
	"context"
	"testing"
	"time"

	"boardscan-go/bus"
	"boardscan-go/errcode"
	"boardscan-go/types"
)

func TestConfig_PublishesRetainedBoardConfig(t *testing.T) {
	oldLookup := BoardLookup
	BoardLookup = func(device string) (types.ScanConfig, bool) {
		if device != "pico" {
			return types.ScanConfig{}, false
		}
		return types.ScanConfig{Bus: "i2c0", Capabilities: types.CapKeystore, ScanOnBoot: true}, true
	}
	t.Cleanup(func() { BoardLookup = oldLookup })

	b := bus.NewBus(16)
	conn := b.NewConnection("test-config")
	svc := NewConfigService(nil)

	svc.Start(WithDevice(context.Background(), "pico"), conn)

	deadline := time.Now().Add(600 * time.Millisecond)
	for time.Now().Before(deadline) {
		sub := conn.Subscribe(TopicDiscovery)
		select {
		case m := <-sub.Channel():
			cfg, ok := m.Payload.(types.ScanConfig)
			if !ok {
				t.Fatalf("payload type %T, want types.ScanConfig", m.Payload)
			}
			if !m.Retained {
				t.Fatal("config must be retained")
			}
			if cfg.Bus != "i2c0" || !cfg.ScanOnBoot || cfg.Capabilities != types.CapKeystore {
				t.Fatalf("unexpected config %+v", cfg)
			}
			if cfg.SettleDelay != types.DefaultSettleDelay {
				t.Fatalf("settle delay not normalised: %v", cfg.SettleDelay)
			}
			return
		case <-time.After(20 * time.Millisecond):
		}
		conn.Unsubscribe(sub)
	}
	t.Fatal("no retained config published")
}

func TestConfig_MissingDevice(t *testing.T) {
	b := bus.NewBus(4)
	conn := b.NewConnection("test-missing-device")
	svc := NewConfigService(nil)

	err := svc.publishConfig(context.Background(), conn)
	if errcode.Of(err) != errcode.InvalidConfig {
		t.Fatalf("expected invalid_config, got %v", err)
	}
}

func TestConfig_UnknownDevice(t *testing.T) {
	svc := NewConfigService(nil)
	if _, err := svc.Resolve(WithDevice(context.Background(), "unknown-device")); err == nil {
		t.Fatal("expected error for unknown device, got nil")
	}
}

func TestConfig_OverrideWins(t *testing.T) {
	svc := NewConfigService(nil)
	svc.Override = &types.ScanConfig{Bus: "1", Mode: types.ProbeReadByte}
	cfg, err := svc.Resolve(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Bus != "1" || cfg.Mode != types.ProbeReadByte || cfg.SettleDelay != types.DefaultSettleDelay {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestConfig_RealBoards(t *testing.T) {
	svc := NewConfigService(nil)
	cfg, err := svc.Resolve(WithDevice(context.Background(), "pico_tracker"))
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Capabilities.Has(types.CapRTCRV3028) {
		t.Fatalf("tracker config lost capabilities: %+v", cfg)
	}
}
