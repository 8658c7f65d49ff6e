package bringup

import (
	"context"

	"boardscan-go/errcode"
	"boardscan-go/types"
	"boardscan-go/x/mathx"

	"tinygo.org/x/drivers/bme280"
)

func init() { RegisterBuilder(SensorKey(types.SensorBME280), bme280Builder{}) }

type bme280Builder struct{}

func (bme280Builder) Build(_ context.Context, in BuilderInput) (Device, error) {
	if in.Bus == nil {
		return nil, errcode.InvalidParams
	}
	drv := bme280.New(in.Bus)
	drv.Address = uint16(in.Addr)
	return &bme280Device{id: in.ID, drv: drv}, nil
}

type bme280Device struct {
	id  string
	drv bme280.Device
}

func (d *bme280Device) ID() string { return d.id }

// Init checks the chip id again before loading calibration, since 0x76/0x77
// are shared with parts that fell back to BMP280 during discovery.
func (d *bme280Device) Init(context.Context) error {
	if !d.drv.Connected() {
		return &errcode.E{C: errcode.NotReady, Op: "bringup.bme280", Msg: "chip id mismatch"}
	}
	d.drv.Configure()
	return nil
}

func (d *bme280Device) Sample(context.Context) (types.Sample, error) {
	tmc, err := d.drv.ReadTemperature()
	if err != nil {
		return types.Sample{}, err
	}
	rh, err := d.drv.ReadHumidity()
	if err != nil {
		return types.Sample{}, err
	}
	mpa, err := d.drv.ReadPressure()
	if err != nil {
		return types.Sample{}, err
	}
	return types.Sample{
		DeciC:    int16(mathx.Clamp(tmc/100, -32768, 32767)),
		RHx100:   uint16(mathx.Clamp(rh, 0, 10000)),
		PressPa:  uint32(mathx.Clamp(mpa/1000, 0, 200_000)),
		Humidity: true,
	}, nil
}
