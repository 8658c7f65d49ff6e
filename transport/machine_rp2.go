//go:build rp2040 || rp2350

package transport

import (
	"machine"

	"boardscan-go/errcode"
)

// OpenMachine configures one of the RP2 I²C controllers on the given pins.
func OpenMachine(id string, sda, scl int, hz uint32) (Bus, error) {
	var hw *machine.I2C
	switch id {
	case "i2c0":
		hw = machine.I2C0
	case "i2c1":
		hw = machine.I2C1
	default:
		return nil, errcode.UnknownBus
	}
	sdaPin, sclPin := machine.Pin(sda), machine.Pin(scl)
	sdaPin.Configure(machine.PinConfig{Mode: machine.PinI2C})
	sclPin.Configure(machine.PinConfig{Mode: machine.PinI2C})
	if err := hw.Configure(machine.I2CConfig{
		SCL:       sclPin,
		SDA:       sdaPin,
		Frequency: hz,
	}); err != nil {
		return nil, errcode.Wrap(errcode.InvalidConfig, "i2c.configure", err)
	}
	return hw, nil
}
