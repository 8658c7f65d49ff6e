//go:build !tinygo

package transport

import (
	"boardscan-go/errcode"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

// OpenPeriph opens a Linux I²C bus through periph.io. name is whatever
// i2creg understands ("1", "I2C1", "/dev/i2c-1"); hz 0 keeps the driver speed.
// The returned bus satisfies Bus and must be closed by the caller.
func OpenPeriph(name string, hz uint32) (i2c.BusCloser, error) {
	if _, err := host.Init(); err != nil {
		return nil, errcode.Wrap(errcode.UnknownBus, "periph.init", err)
	}
	b, err := i2creg.Open(name)
	if err != nil {
		return nil, errcode.Wrap(errcode.UnknownBus, "i2creg.open", err)
	}
	if hz > 0 {
		if err := b.SetSpeed(physic.Frequency(hz) * physic.Hertz); err != nil {
			_ = b.Close()
			return nil, errcode.Wrap(errcode.InvalidConfig, "i2c.speed", err)
		}
	}
	return b, nil
}

// PeriphBuses lists the bus names registered with i2creg after host init.
func PeriphBuses() ([]string, error) {
	if _, err := host.Init(); err != nil {
		return nil, errcode.Wrap(errcode.UnknownBus, "periph.init", err)
	}
	var names []string
	for _, ref := range i2creg.All() {
		names = append(names, ref.Name)
	}
	return names, nil
}
