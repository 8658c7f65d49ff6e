package setups

import (
	"time"

	"boardscan-go/types"
)

// Generic is a bare Pico with peripherals on the default I2C0 pins. Nothing
// board-specific is assumed, so capability-gated parts are not probed.
var Generic = Board{
	Name: "generic",
	Plan: ResourcePlan{
		I2C:  []I2CPlan{{ID: "i2c0", SDA: 4, SCL: 5, Hz: 100_000}},
		UART: []UARTPlan{{ID: "uart0", TX: 0, RX: 1, Baud: 115_200}},
	},
	Scan: types.ScanConfig{
		Bus:         "i2c0",
		Mode:        types.ProbeReadByte,
		SettleDelay: types.DefaultSettleDelay,
		ScanOnBoot:  true,
	},
}

// PicoTracker carries the secure element, an RV3028 and an AXP power unit.
var PicoTracker = Board{
	Name: "pico_tracker",
	Plan: ResourcePlan{
		I2C: []I2CPlan{
			{ID: "i2c0", SDA: 12, SCL: 13, Hz: 400_000},
			{ID: "i2c1", SDA: 18, SCL: 19, Hz: 400_000},
		},
		UART: []UARTPlan{{ID: "uart0", TX: 0, RX: 1, Baud: 115_200}},
	},
	Scan: types.ScanConfig{
		Bus:          "i2c0",
		Mode:         types.ProbeReadByte,
		SettleDelay:  25 * time.Millisecond,
		Capabilities: types.CapKeystore | types.CapRTCRV3028 | types.CapPowerUnit,
		ScanOnBoot:   true,
	},
}
