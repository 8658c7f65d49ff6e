// Package config resolves the discovery configuration and publishes it,
// retained, on config/discovery for the services that depend on it.
package config

import (
	"context"

	"boardscan-go/bus"
	"boardscan-go/errcode"
	"boardscan-go/setups"
	"boardscan-go/types"
	"boardscan-go/x/logx"
)

const serviceName = "config"

var TopicDiscovery = bus.T("config", "discovery")

type ctxKey struct{}

// WithDevice returns ctx carrying the board name the service resolves.
func WithDevice(ctx context.Context, device string) context.Context {
	return context.WithValue(ctx, ctxKey{}, device)
}

func deviceFrom(ctx context.Context) string {
	d, _ := ctx.Value(ctxKey{}).(string)
	return d
}

// BoardLookup allows overriding how boards are resolved.
var BoardLookup = func(device string) (types.ScanConfig, bool) {
	b, ok := setups.Lookup(device)
	return b.Scan, ok
}

// -----------------------------------------------------------------------------
// Config Service
// -----------------------------------------------------------------------------

type ConfigService struct {
	Name string
	log  logx.Logger
	// Override, when set, wins over the board defaults (e.g. loaded from a file).
	Override *types.ScanConfig
}

func NewConfigService(l logx.Logger) *ConfigService {
	return &ConfigService{Name: serviceName, log: logx.OrNop(l)}
}

// Resolve picks the configuration for the device in ctx.
func (s *ConfigService) Resolve(ctx context.Context) (types.ScanConfig, error) {
	if s.Override != nil {
		return s.Override.Normalise(), nil
	}
	device := deviceFrom(ctx)
	if device == "" {
		return types.ScanConfig{}, &errcode.E{C: errcode.InvalidConfig, Op: "config.resolve", Msg: "missing device in context"}
	}
	cfg, ok := BoardLookup(device)
	if !ok {
		return types.ScanConfig{}, &errcode.E{C: errcode.InvalidConfig, Op: "config.resolve", Msg: "no config for device " + device}
	}
	return cfg.Normalise(), nil
}

// Publish stores cfg retained on TopicDiscovery.
func Publish(conn *bus.Connection, cfg types.ScanConfig) {
	conn.Publish(conn.NewMessage(TopicDiscovery, cfg, true))
}

func (s *ConfigService) publishConfig(ctx context.Context, conn *bus.Connection) error {
	cfg, err := s.Resolve(ctx)
	if err != nil {
		return err
	}
	Publish(conn, cfg)
	s.log.Infof("discovery config: bus=%s mode=%s settle=%v caps=%s boot=%t",
		cfg.Bus, cfg.Mode, cfg.SettleDelay, cfg.Capabilities, cfg.ScanOnBoot)
	return nil
}

// Start publishes the configuration in a goroutine.
func (s *ConfigService) Start(ctx context.Context, conn *bus.Connection) {
	go func() {
		if err := s.publishConfig(ctx, conn); err != nil {
			s.log.Errorf("config: %v", err)
		}
	}()
}
