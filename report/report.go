//go:build !tinygo

// Package report renders one sweep for people and tools: plain text, JSON,
// YAML or canonical CBOR.
package report

import (
	"encoding/json"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"boardscan-go/errcode"
	"boardscan-go/services/discovery"
	"boardscan-go/types"
	"boardscan-go/x/fmtx"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Addr renders as "0x3c" in text encodings.
type Addr uint8

func (a Addr) MarshalText() ([]byte, error) { return []byte(fmtx.Sprintf("0x%02x", uint8(a))), nil }

func addrs(in []uint8) []Addr {
	out := make([]Addr, len(in))
	for i, a := range in {
		out[i] = Addr(a)
	}
	return out
}

type Report struct {
	ID         string                 `json:"id" yaml:"id" cbor:"1,keyasint"`
	Bus        string                 `json:"bus" yaml:"bus" cbor:"2,keyasint"`
	Mode       string                 `json:"mode" yaml:"mode" cbor:"3,keyasint"`
	Started    time.Time              `json:"started" yaml:"started" cbor:"4,keyasint"`
	DurationMs int64                  `json:"duration_ms" yaml:"duration_ms" cbor:"5,keyasint"`
	Present    int                    `json:"present" yaml:"present" cbor:"6,keyasint"`
	Found      []Addr                 `json:"found" yaml:"found" cbor:"7,keyasint"`
	Anomalies  []Addr                 `json:"anomalies" yaml:"anomalies" cbor:"8,keyasint"`
	Unclaimed  []Addr                 `json:"unclaimed" yaml:"unclaimed" cbor:"9,keyasint"`
	Overwrites int                    `json:"overwrites" yaml:"overwrites" cbor:"10,keyasint"`
	Registry   types.RegistrySnapshot `json:"registry" yaml:"registry" cbor:"11,keyasint"`
}

// New builds a report with a fresh random ID.
func New(cfg types.ScanConfig, started time.Time, reg *discovery.Registry, sum discovery.Summary) Report {
	return Report{
		ID:         uuid.NewString(),
		Bus:        cfg.Bus,
		Mode:       cfg.Mode.String(),
		Started:    started.UTC(),
		DurationMs: sum.Duration.Milliseconds(),
		Present:    sum.Present,
		Found:      addrs(sum.Found),
		Anomalies:  addrs(sum.Anomalies),
		Unclaimed:  addrs(sum.Unclaimed),
		Overwrites: sum.Overwrites,
		Registry:   reg.Snapshot(),
	}
}

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCBOR Format = "cbor"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatYAML, FormatCBOR:
		return f, nil
	}
	return "", &errcode.E{C: errcode.InvalidParams, Op: "report.format", Msg: "unknown format " + s}
}

var cborEnc = func() cbor.EncMode {
	opts := cbor.CanonicalEncOptions()
	opts.Time = cbor.TimeRFC3339Nano
	em, err := opts.EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

// Encode writes r to w in format f.
func Encode(w io.Writer, r Report, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	case FormatCBOR:
		return cborEnc.NewEncoder(w).Encode(r)
	case FormatText, "":
		return encodeText(w, r)
	}
	return &errcode.E{C: errcode.InvalidParams, Op: "report.encode", Msg: "unknown format " + string(f)}
}

// DecodeCBOR reads a report written with FormatCBOR.
func DecodeCBOR(data []byte) (Report, error) {
	var r Report
	if err := cbor.Unmarshal(data, &r); err != nil {
		return Report{}, errcode.Wrap(errcode.InvalidPayload, "report.decode", err)
	}
	return r, nil
}

func encodeText(w io.Writer, r Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmtx.Fprintf(tw, "scan %s on bus %s (%s probe, %dms)\n", r.ID, r.Bus, r.Mode, r.DurationMs)
	if r.Present == 0 {
		fmtx.Fprintf(tw, "No I2C devices found\n")
		return tw.Flush()
	}
	fmtx.Fprintf(tw, "%d I2C devices found\n", r.Present)
	for _, s := range r.Registry.Slots {
		model := s.Model
		if s.Subtype != "" && s.Subtype != s.Model {
			model += " (" + s.Subtype + ")"
		}
		fmtx.Fprintf(tw, "  %s\t0x%02x\t%s\n", s.Role, s.Addr, model)
	}
	for _, s := range r.Registry.Sensors {
		fmtx.Fprintf(tw, "  sensor\t0x%02x\t%s\n", s.Addr, s.Sensor)
	}
	for _, a := range r.Unclaimed {
		fmtx.Fprintf(tw, "  unknown\t0x%02x\t-\n", uint8(a))
	}
	for _, a := range r.Anomalies {
		fmtx.Fprintf(tw, "  error\t0x%02x\ttransport anomaly\n", uint8(a))
	}
	return tw.Flush()
}
