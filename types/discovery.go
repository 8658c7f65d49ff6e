package types

// ---- Singleton roles ----

// Role names a registry slot that holds at most one device.
type Role uint8

const (
	RoleNone Role = iota // sensor-map findings carry no role
	RoleDisplay
	RoleKeystore
	RoleKeyboard
	RoleClock
	RolePowerUnit

	NumRoles
)

var roleNames = [NumRoles]string{
	RoleNone:      "none",
	RoleDisplay:   "display",
	RoleKeystore:  "keystore",
	RoleKeyboard:  "keyboard",
	RoleClock:     "clock",
	RolePowerUnit: "power_unit",
}

func (r Role) String() string {
	if r < NumRoles {
		return roleNames[r]
	}
	return "invalid"
}

// ---- Models for singleton slots ----

// Model identifies the concrete part behind a singleton slot.
type Model uint8

const (
	ModelUnknown Model = iota
	ModelSSD1306
	ModelSH1106
	ModelST7567
	ModelATECC608B
	ModelCardKB
	ModelRAK14004
	ModelRV3028
	ModelPCF8563
	ModelAXP192AXP2101 // both parts answer at 0x34; told apart by the power driver
)

var modelNames = [...]string{
	ModelUnknown:       "unknown",
	ModelSSD1306:       "ssd1306",
	ModelSH1106:        "sh1106",
	ModelST7567:        "st7567",
	ModelATECC608B:     "atecc608b",
	ModelCardKB:        "cardkb",
	ModelRAK14004:      "rak14004",
	ModelRV3028:        "rv3028",
	ModelPCF8563:       "pcf8563",
	ModelAXP192AXP2101: "axp192_axp2101",
}

func (m Model) String() string {
	if int(m) < len(modelNames) {
		return modelNames[m]
	}
	return "invalid"
}

// DisplaySubtype is the controller variant resolved from the OLED status register.
type DisplaySubtype uint8

const (
	SubtypeUnknown DisplaySubtype = iota
	SubtypeSSD1306                // variant A
	SubtypeSH1106                 // variant B
)

func (s DisplaySubtype) String() string {
	switch s {
	case SubtypeSSD1306:
		return "ssd1306"
	case SubtypeSH1106:
		return "sh1106"
	default:
		return "unknown"
	}
}

// Model returns the display model implied by the subtype.
func (s DisplaySubtype) Model() Model {
	switch s {
	case SubtypeSSD1306:
		return ModelSSD1306
	case SubtypeSH1106:
		return ModelSH1106
	default:
		return ModelUnknown
	}
}

// ---- Telemetry sensor families ----

// SensorType keys the sensor map. Values follow the telemetry sensor numbering
// used by consumers, so they are stable on the wire.
type SensorType uint8

const (
	SensorNone     SensorType = 0
	SensorBME280   SensorType = 1
	SensorBME680   SensorType = 2
	SensorMCP9808  SensorType = 3
	SensorINA260   SensorType = 4
	SensorINA219   SensorType = 5
	SensorBMP280   SensorType = 6
	SensorSHTC3    SensorType = 7
	SensorLPS22    SensorType = 8
	SensorQMC6310  SensorType = 9
	SensorQMI8658  SensorType = 10
	SensorQMC5883L SensorType = 11
	SensorSHT31    SensorType = 12
)

var sensorNames = map[SensorType]string{
	SensorNone:     "none",
	SensorBME280:   "bme280",
	SensorBME680:   "bme680",
	SensorMCP9808:  "mcp9808",
	SensorINA260:   "ina260",
	SensorINA219:   "ina219",
	SensorBMP280:   "bmp280",
	SensorSHTC3:    "shtc3",
	SensorLPS22:    "lps22",
	SensorQMC6310:  "qmc6310",
	SensorQMI8658:  "qmi8658",
	SensorQMC5883L: "qmc5883l",
	SensorSHT31:    "sht31",
}

func (s SensorType) String() string {
	if n, ok := sensorNames[s]; ok {
		return n
	}
	return "invalid"
}

// ---- Serialisable registry view ----

// SlotEntry is one filled singleton slot.
type SlotEntry struct {
	Role    string `json:"role" yaml:"role" cbor:"1,keyasint"`
	Model   string `json:"model" yaml:"model" cbor:"2,keyasint"`
	Addr    uint8  `json:"addr" yaml:"addr" cbor:"3,keyasint"`
	Subtype string `json:"subtype,omitempty" yaml:"subtype,omitempty" cbor:"4,keyasint,omitempty"`
}

// SensorEntry is one sensor-map pair.
type SensorEntry struct {
	Sensor string `json:"sensor" yaml:"sensor" cbor:"1,keyasint"`
	Addr   uint8  `json:"addr" yaml:"addr" cbor:"2,keyasint"`
}

// RegistrySnapshot is a plain copy of a registry, safe to marshal or retain.
type RegistrySnapshot struct {
	Slots   []SlotEntry   `json:"slots" yaml:"slots" cbor:"1,keyasint"`
	Sensors []SensorEntry `json:"sensors" yaml:"sensors" cbor:"2,keyasint"`
}

// DiscoveryState is retained on discovery/state.
type DiscoveryState struct {
	Level   string `json:"level"`  // "idle", "scanning", "ready", "error"
	Status  string `json:"status"` // short code
	Present int    `json:"present"`
	TS      int64  `json:"ts_ms"`
}

// ScanReply answers a discovery/control/scan request.
type ScanReply struct {
	OK        bool              `json:"ok"`
	Error     string            `json:"error,omitempty"`
	Present   int               `json:"present"`
	Anomalies []uint8           `json:"anomalies,omitempty"`
	Registry  *RegistrySnapshot `json:"registry,omitempty"`
}

// Sample is one reading taken during bring-up. RHx100 and PressPa are only
// set by parts that measure them.
type Sample struct {
	DeciC    int16  `json:"deci_c"`
	RHx100   uint16 `json:"rh_x100,omitempty"`
	PressPa  uint32 `json:"press_pa,omitempty"`
	Humidity bool   `json:"humidity"`
}

// DeviceStatus is the bring-up outcome for one discovered device.
type DeviceStatus struct {
	ID     string  `json:"id"`
	Driver string  `json:"driver"`
	Addr   uint8   `json:"addr"`
	Ready  bool    `json:"ready"`
	Error  string  `json:"error,omitempty"`
	Sample *Sample `json:"sample,omitempty"`
}
