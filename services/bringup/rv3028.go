package bringup

import (
	"context"

	"boardscan-go/errcode"
	"boardscan-go/transport"
	"boardscan-go/types"
)

func init() { RegisterBuilder(ModelKey(types.ModelRV3028), rv3028Builder{}) }

// RV3028 configuration registers.
const (
	rv3028RegEEClkout = 0x35
	rv3028RegEEBackup = 0x37

	rv3028ClkoutOff  = 0x07
	rv3028BackupInit = 0xB4 // direct switchover, trickle charge through 3k
)

type rv3028Builder struct{}

func (rv3028Builder) Build(_ context.Context, in BuilderInput) (Device, error) {
	if in.Bus == nil {
		return nil, errcode.InvalidParams
	}
	return &rv3028Device{id: in.ID, bus: in.Bus, addr: in.Addr}, nil
}

type rv3028Device struct {
	id   string
	bus  transport.Bus
	addr uint8
}

func (d *rv3028Device) ID() string { return d.id }

// Init turns CLKOUT off and enables backup supply switchover.
func (d *rv3028Device) Init(context.Context) error {
	if err := d.bus.Tx(uint16(d.addr), []byte{rv3028RegEEClkout, rv3028ClkoutOff}, nil); err != nil {
		return err
	}
	return d.bus.Tx(uint16(d.addr), []byte{rv3028RegEEBackup, rv3028BackupInit}, nil)
}
