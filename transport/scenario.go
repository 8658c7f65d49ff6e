//go:build !tinygo

package transport

import (
	"bytes"
	"errors"
	"io"

	"boardscan-go/errcode"

	"gopkg.in/yaml.v3"
)

// Scenario describes a simulated bus:
//
//	devices:
//	  - addr: 0x3c
//	    registers:
//	      0x00: [[0x08], [0x00]]   # alternating status byte
//	  - addr: 0x76
//	    registers:
//	      0xd0: [[0x61]]
//	  - addr: 0x20
//	    status: 4                 # transport anomaly
type Scenario struct {
	Devices []ScenarioDevice `yaml:"devices"`
}

type ScenarioDevice struct {
	Addr      uint16          `yaml:"addr"`
	Status    uint8           `yaml:"status"`
	Registers map[int][][]int `yaml:"registers"`
}

// ParseScenario decodes a scenario document.
func ParseScenario(data []byte) (Scenario, error) {
	var sc Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil && !errors.Is(err, io.EOF) {
		return Scenario{}, errcode.Wrap(errcode.InvalidConfig, "scenario.parse", err)
	}
	return sc, nil
}

// Bus builds a SimBus populated with the scenario's devices.
func (sc Scenario) Bus() (*SimBus, error) {
	b := NewSimBus()
	for _, d := range sc.Devices {
		if d.Addr > 0x7f {
			return nil, &errcode.E{C: errcode.InvalidAddress, Op: "scenario.bus", Msg: "address out of 7-bit range"}
		}
		dev := SimDevice{Status: d.Status}
		if len(d.Registers) > 0 {
			dev.Registers = make(map[byte][][]byte, len(d.Registers))
		}
		for reg, seq := range d.Registers {
			if reg < 0 || reg > 0xff {
				return nil, &errcode.E{C: errcode.InvalidConfig, Op: "scenario.bus", Msg: "register out of range"}
			}
			resp := make([][]byte, 0, len(seq))
			for _, vals := range seq {
				bs := make([]byte, len(vals))
				for i, v := range vals {
					if v < 0 || v > 0xff {
						return nil, &errcode.E{C: errcode.InvalidConfig, Op: "scenario.bus", Msg: "register value out of range"}
					}
					bs[i] = byte(v)
				}
				resp = append(resp, bs)
			}
			dev.Registers[byte(reg)] = resp
		}
		b.Attach(d.Addr, dev)
	}
	return b, nil
}
