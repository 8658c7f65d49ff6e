//go:build !tinygo

package report

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"boardscan-go/errcode"
	"boardscan-go/services/discovery"
	"boardscan-go/transport"
	"boardscan-go/types"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleReport(t *testing.T) Report {
	t.Helper()
	sim := transport.NewSimBus().
		Attach(0x3C, transport.SimDevice{Registers: map[byte][][]byte{0x00: {{0x08}}}}).
		Attach(0x76, transport.SimDevice{Registers: map[byte][][]byte{0xD0: {{0x61}}}}).
		Attach(0x20, transport.SimDevice{Status: transport.StatusUnknown}).
		Present(0x48, 0x11)
	cfg := types.ScanConfig{Bus: "sim"}
	s := discovery.New(sim, cfg, discovery.WithSleep(func(time.Duration) {}))
	started := time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)
	reg, sum, err := s.Scan(context.Background())
	require.NoError(t, err)
	return New(s.Config(), started, reg, sum)
}

func TestNewReport(t *testing.T) {
	r := sampleReport(t)
	_, err := uuid.Parse(r.ID)
	require.NoError(t, err)
	assert.Equal(t, "sim", r.Bus)
	assert.Equal(t, "quick", r.Mode)
	assert.Equal(t, 4, r.Present)
	assert.Equal(t, []Addr{0x11, 0x3C, 0x48, 0x76}, r.Found)
	assert.Equal(t, []Addr{0x20}, r.Anomalies)
	assert.Equal(t, []Addr{0x11}, r.Unclaimed)
	assert.Len(t, r.Registry.Slots, 1)
	assert.Len(t, r.Registry.Sensors, 2)
	assert.NotEqual(t, r.ID, sampleReport(t).ID)
}

func TestEncodeJSON(t *testing.T) {
	r := sampleReport(t)
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, r, FormatJSON))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, []any{"0x11", "0x3c", "0x48", "0x76"}, doc["found"])
	assert.Equal(t, r.ID, doc["id"])
	slots := doc["registry"].(map[string]any)["slots"].([]any)
	assert.Equal(t, "sh1106", slots[0].(map[string]any)["model"])
}

func TestEncodeYAML(t *testing.T) {
	r := sampleReport(t)
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, r, FormatYAML))

	var doc struct {
		Present   int      `yaml:"present"`
		Anomalies []string `yaml:"anomalies"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, 4, doc.Present)
	assert.Equal(t, []string{"0x20"}, doc.Anomalies)
}

func TestEncodeCBORIsCanonical(t *testing.T) {
	r := sampleReport(t)
	var a, b bytes.Buffer
	require.NoError(t, Encode(&a, r, FormatCBOR))
	require.NoError(t, Encode(&b, r, FormatCBOR))
	assert.Equal(t, a.Bytes(), b.Bytes())

	got, err := DecodeCBOR(a.Bytes())
	require.NoError(t, err)
	assert.Equal(t, r.ID, got.ID)
	assert.Equal(t, r.Registry, got.Registry)
	assert.True(t, r.Started.Equal(got.Started))

	_, err = DecodeCBOR([]byte{0xff})
	assert.Equal(t, errcode.InvalidPayload, errcode.Of(err))
}

func TestEncodeText(t *testing.T) {
	r := sampleReport(t)
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, r, FormatText))
	out := buf.String()
	assert.Contains(t, out, "4 I2C devices found")
	assert.Contains(t, out, "display")
	assert.Contains(t, out, "0x3c")
	assert.Contains(t, out, "bme680")
	assert.Contains(t, out, "transport anomaly")

	buf.Reset()
	empty := Report{ID: "x", Bus: "sim", Mode: "quick"}
	require.NoError(t, Encode(&buf, empty, FormatText))
	assert.Contains(t, buf.String(), "No I2C devices found")
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)
	_, err = ParseFormat("xml")
	assert.Equal(t, errcode.InvalidParams, errcode.Of(err))
}
