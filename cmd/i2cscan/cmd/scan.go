//go:build !tinygo

package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"boardscan-go/errcode"
	"boardscan-go/report"
	"boardscan-go/services/bringup"
	"boardscan-go/services/config"
	"boardscan-go/services/discovery"
	"boardscan-go/transport"
	"boardscan-go/types"

	"github.com/spf13/cobra"
)

var (
	busName     string
	simulate    string
	probeMode   string
	capNames    []string
	settleDelay time.Duration
	busHz       uint32
	txTimeout   time.Duration
	format      string
	runBringup  bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Sweep the bus and classify what answers",
	Long: `Sweep addresses 0x01..0x7e once each, classify every device that
acknowledges and print the resulting registry.

On Linux hosts the default probe reads one byte, since many i2c-dev
adapters reject zero-length transfers. Use --mode quick to match the
firmware exactly.

Examples:
  # Sweep /dev/i2c-1 with every capability-gated part enabled
  i2cscan scan --bus 1 --caps all

  # Replay a recorded board and emit canonical CBOR
  i2cscan scan --simulate testdata/tracker.yaml -f cbor > tracker.cbor`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVarP(&busName, "bus", "b", "1", "I2C bus name (periph.io i2creg name)")
	scanCmd.Flags().StringVar(&simulate, "simulate", "", "sweep a simulated bus described by a YAML scenario")
	scanCmd.Flags().StringVarP(&probeMode, "mode", "m", "read", "presence probe (quick, write, read)")
	scanCmd.Flags().StringSliceVar(&capNames, "caps", nil, "enabled capabilities (keystore, rtc_rv3028, rtc_pcf8563, power_unit, all)")
	scanCmd.Flags().DurationVar(&settleDelay, "settle", types.DefaultSettleDelay, "delay between register write and read")
	scanCmd.Flags().Uint32Var(&busHz, "hz", 0, "bus speed in Hz (0 keeps the driver default)")
	scanCmd.Flags().DurationVar(&txTimeout, "tx-timeout", 250*time.Millisecond, "per-transaction timeout on hardware buses")
	scanCmd.Flags().StringVarP(&format, "format", "f", "text", "output format (text, json, yaml, cbor)")
	scanCmd.Flags().BoolVar(&runBringup, "bringup", false, "initialise drivers for what was found")
}

// resolveConfig layers flags the user set over the config file.
func resolveConfig(cmd *cobra.Command) (types.ScanConfig, config.LogSection, error) {
	var (
		cfg types.ScanConfig
		log config.LogSection
	)
	if configPath != "" {
		f, err := config.LoadFile(configPath)
		if err != nil {
			return cfg, log, err
		}
		if cfg, err = f.ScanConfig(); err != nil {
			return cfg, log, err
		}
		log = f.Log
	}
	flags := cmd.Flags()
	if configPath == "" || flags.Changed("bus") {
		cfg.Bus = busName
	}
	if configPath == "" || flags.Changed("mode") {
		m, ok := types.ParseProbeMode(probeMode)
		if !ok {
			return cfg, log, &errcode.E{C: errcode.InvalidParams, Op: "scan", Msg: "unknown probe mode " + probeMode}
		}
		cfg.Mode = m
	}
	if configPath == "" || flags.Changed("settle") {
		cfg.SettleDelay = settleDelay
	}
	if flags.Changed("caps") {
		cfg.Capabilities = types.CapNone
		for _, n := range capNames {
			c, ok := types.ParseCapability(n)
			if !ok {
				return cfg, log, &errcode.E{C: errcode.InvalidParams, Op: "scan", Msg: "unknown capability " + n}
			}
			cfg.Capabilities |= c
		}
	}
	return cfg.Normalise(), log, nil
}

// openBus returns the bus to sweep and a release func.
func openBus(cfg types.ScanConfig) (transport.Bus, func(), error) {
	if simulate != "" {
		data, err := os.ReadFile(simulate)
		if err != nil {
			return nil, nil, errcode.Wrap(errcode.InvalidConfig, "scan.simulate", err)
		}
		sc, err := transport.ParseScenario(data)
		if err != nil {
			return nil, nil, err
		}
		sim, err := sc.Bus()
		if err != nil {
			return nil, nil, err
		}
		return sim, func() {}, nil
	}
	hw, err := transport.OpenPeriph(cfg.Bus, busHz)
	if err != nil {
		return nil, nil, err
	}
	owner := transport.NewOwner(hw, 0)
	return owner.Handle(txTimeout), func() {
		owner.Close()
		_ = hw.Close()
	}, nil
}

func runScan(cmd *cobra.Command, args []string) error {
	f, err := report.ParseFormat(format)
	if err != nil {
		return err
	}
	cfg, logCfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(logCfg.Level, logCfg.Development)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	bus, release, err := openBus(cfg)
	if err != nil {
		return err
	}
	defer release()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	sc := discovery.New(bus, cfg, discovery.WithLogger(logger))
	started := time.Now()
	reg, sum, err := sc.Scan(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := report.Encode(out, report.New(sc.Config(), started, reg, sum), f); err != nil {
		return err
	}
	if runBringup {
		_, status := bringup.Run(ctx, reg, bus, logger)
		if f == report.FormatText {
			printStatus(out, status)
		}
	}
	return nil
}

func printStatus(w io.Writer, status []types.DeviceStatus) {
	if len(status) == 0 {
		fmt.Fprintln(w, "no drivers to bring up")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, s := range status {
		state := "ready"
		if !s.Ready {
			state = "failed: " + s.Error
		}
		line := fmt.Sprintf("  %s\t0x%02x\t%s\t%s", s.ID, s.Addr, s.Driver, state)
		if s.Sample != nil {
			line += fmt.Sprintf("\t%.1f°C", float64(s.Sample.DeciC)/10)
			if s.Sample.Humidity {
				line += fmt.Sprintf(" %.1f%%RH", float64(s.Sample.RHx100)/100)
			}
		}
		fmt.Fprintln(tw, line)
	}
	_ = tw.Flush()
}
