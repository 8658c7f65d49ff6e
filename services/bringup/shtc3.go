package bringup

import (
	"context"

	"boardscan-go/errcode"
	"boardscan-go/types"
	"boardscan-go/x/mathx"

	"tinygo.org/x/drivers/shtc3"
)

func init() { RegisterBuilder(SensorKey(types.SensorSHTC3), shtc3Builder{}) }

type shtc3Builder struct{}

func (shtc3Builder) Build(_ context.Context, in BuilderInput) (Device, error) {
	if in.Bus == nil {
		return nil, errcode.InvalidParams
	}
	return &shtc3Device{id: in.ID, drv: shtc3.New(in.Bus)}, nil
}

type shtc3Device struct {
	id  string
	drv shtc3.Device
}

func (d *shtc3Device) ID() string { return d.id }

// Init wakes the sensor and puts it back to sleep, which is enough to prove
// it accepts commands.
func (d *shtc3Device) Init(context.Context) error {
	if err := d.drv.WakeUp(); err != nil {
		return err
	}
	return d.drv.Sleep()
}

func (d *shtc3Device) Sample(context.Context) (types.Sample, error) {
	if err := d.drv.WakeUp(); err != nil {
		return types.Sample{}, err
	}
	defer func() { _ = d.drv.Sleep() }()

	tmc, rhx100, err := d.drv.ReadTemperatureHumidity()
	if err != nil {
		return types.Sample{}, err
	}
	// tmc is milli-°C; samples carry deci-°C.
	decic := mathx.Clamp(tmc/100, -32768, 32767)
	rhx100 = mathx.Clamp(rhx100, 0, 10000)
	return types.Sample{DeciC: int16(decic), RHx100: uint16(rhx100), Humidity: true}, nil
}
