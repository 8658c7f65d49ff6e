package discovery

import (
	"errors"

	"boardscan-go/errcode"
	"boardscan-go/types"
	"boardscan-go/x/fmtx"
)

// Well-known 7-bit addresses.
const (
	AddrQMC5883L   = 0x0D
	AddrMCP9808    = 0x18
	AddrQMC6310    = 0x1C
	AddrPowerUnit  = 0x34 // AXP192 and AXP2101 share it
	AddrATECC608B  = 0x35
	AddrOLED       = 0x3C
	AddrST7567     = 0x3F
	AddrINA        = 0x40
	AddrINAAlt     = 0x41
	AddrSHT31      = 0x44
	AddrTempAlt    = 0x48 // MCP9808-compatible parts strapped high
	AddrPCF8563    = 0x51
	AddrRV3028     = 0x52
	AddrLPS22HB    = 0x5C
	AddrLPS22HBAlt = 0x5D
	AddrKeyboard   = 0x5F // M5 CardKB and RAK14004 share it
	AddrQMI8658    = 0x6B
	AddrSHTC3      = 0x70
	AddrBME        = 0x76
	AddrBMEAlt     = 0x77
)

// Identification registers.
const (
	regBMEChipID     = 0xD0
	regINAMfgID      = 0xFE
	regKeypadVersion = 0x04

	keypadVersionRAK = 0x02
	inaMfgTI         = 0x5449 // "TI"
)

// Env is what a classifier may do to a present device.
type Env interface {
	ReadRegister(addr uint8, reg byte, width int) uint16
	ProbeSubtype(addr uint8) types.DisplaySubtype
}

// Finding is a classifier's verdict for one address: a singleton slot claim
// (Role set) or a sensor-map entry (Sensor set).
type Finding struct {
	Role    types.Role
	Model   types.Model
	Subtype types.DisplaySubtype
	Sensor  types.SensorType
}

func (f Finding) String() string {
	if f.Role != types.RoleNone {
		return f.Model.String() + " " + f.Role.String()
	}
	return f.Sensor.String() + " sensor"
}

// Entry binds addresses to a classification. Entries sharing an address must
// describe mutually exclusive parts.
type Entry struct {
	Name     string
	Addrs    []uint8
	Role     types.Role       // slot this entry fills; RoleNone for sensor families
	Requires types.Capability // CapNone: always probed
	Classify func(env Env, addr uint8) Finding
}

// Table is the declarative dispatch table.
type Table []Entry

// Validate checks names, addresses and classifiers.
func (t Table) Validate() error {
	var errs []error
	for i, e := range t {
		if e.Name == "" || e.Classify == nil || len(e.Addrs) == 0 {
			errs = append(errs, fmtx.Errorf("entry %d (%q): name, addresses and classifier are required", i, e.Name))
			continue
		}
		for _, a := range e.Addrs {
			if !ValidAddress(a) {
				errs = append(errs, fmtx.Errorf("entry %q: address 0x%x out of range", e.Name, a))
			}
		}
	}
	if len(errs) > 0 {
		err := errors.Join(errs...)
		return &errcode.E{C: errcode.InvalidConfig, Op: "discovery.table", Msg: err.Error(), Err: err}
	}
	return nil
}

// AddrIndex maps each bus address to the entries enabled for it.
type AddrIndex [LastAddress + 1][]Entry

// Index keeps entries whose capability is enabled and skips invalid ones.
func (t Table) Index(caps types.Capability) *AddrIndex {
	var idx AddrIndex
	for _, e := range t {
		if e.Classify == nil || !caps.Has(e.Requires) {
			continue
		}
		for _, a := range e.Addrs {
			if ValidAddress(a) {
				idx[a] = append(idx[a], e)
			}
		}
	}
	return &idx
}

// Lookup returns the entries bound to addr, ignoring capabilities.
func (t Table) Lookup(addr uint8) []Entry {
	var out []Entry
	for _, e := range t {
		for _, a := range e.Addrs {
			if a == addr {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// ---- Entry builders ----

// SlotEntry claims role with a fixed model.
func SlotEntry(name string, role types.Role, model types.Model, requires types.Capability, addrs ...uint8) Entry {
	return Entry{
		Name: name, Addrs: addrs, Role: role, Requires: requires,
		Classify: func(Env, uint8) Finding { return Finding{Role: role, Model: model} },
	}
}

// SensorEntry records a sensor family that needs no disambiguation.
func SensorEntry(name string, sensor types.SensorType, addrs ...uint8) Entry {
	return Entry{
		Name: name, Addrs: addrs,
		Classify: func(Env, uint8) Finding { return Finding{Sensor: sensor} },
	}
}

// Signature is one known identification value of a register.
type Signature[T any] struct {
	Value uint16
	Is    T
}

// SignatureSet resolves an identification register to a variant. Values that
// match nothing (including the 0 of a failed read) resolve to Fallback.
type SignatureSet[T any] struct {
	Register byte
	Width    int
	Known    []Signature[T]
	Fallback T
}

func (s SignatureSet[T]) Resolve(v uint16) T {
	for _, k := range s.Known {
		if k.Value == v {
			return k.Is
		}
	}
	return s.Fallback
}

func (s SignatureSet[T]) read(env Env, addr uint8) T {
	return s.Resolve(env.ReadRegister(addr, s.Register, s.Width))
}

// SensorSignatureEntry reads one register to pick a sensor family.
func SensorSignatureEntry(name string, set SignatureSet[types.SensorType], addrs ...uint8) Entry {
	return Entry{
		Name: name, Addrs: addrs,
		Classify: func(env Env, addr uint8) Finding { return Finding{Sensor: set.read(env, addr)} },
	}
}

// ModelSignatureEntry reads one register to pick the model of a slot device.
func ModelSignatureEntry(name string, role types.Role, set SignatureSet[types.Model], requires types.Capability, addrs ...uint8) Entry {
	return Entry{
		Name: name, Addrs: addrs, Role: role, Requires: requires,
		Classify: func(env Env, addr uint8) Finding { return Finding{Role: role, Model: set.read(env, addr)} },
	}
}

// Family signature sets.
var (
	// Many BMP280 boards do not expose a usable chip id, so anything
	// unrecognised is taken as the basic part rather than unknown.
	BMESignatures = SignatureSet[types.SensorType]{
		Register: regBMEChipID, Width: 1,
		Known: []Signature[types.SensorType]{
			{Value: 0x61, Is: types.SensorBME680},
			{Value: 0x60, Is: types.SensorBME280},
		},
		Fallback: types.SensorBMP280,
	}

	INASignatures = SignatureSet[types.SensorType]{
		Register: regINAMfgID, Width: 2,
		Known:    []Signature[types.SensorType]{{Value: inaMfgTI, Is: types.SensorINA260}},
		Fallback: types.SensorINA219,
	}

	KeyboardSignatures = SignatureSet[types.Model]{
		Register: regKeypadVersion, Width: 1,
		Known:    []Signature[types.Model]{{Value: keypadVersionRAK, Is: types.ModelRAK14004}},
		Fallback: types.ModelCardKB,
	}
)

func classifyOLED(env Env, addr uint8) Finding {
	sub := env.ProbeSubtype(addr)
	return Finding{Role: types.RoleDisplay, Model: sub.Model(), Subtype: sub}
}

// DefaultTable is the family set known to the firmware.
func DefaultTable() Table {
	return Table{
		{Name: "oled", Addrs: []uint8{AddrOLED}, Role: types.RoleDisplay, Classify: classifyOLED},
		SlotEntry("st7567", types.RoleDisplay, types.ModelST7567, types.CapNone, AddrST7567),
		SlotEntry("atecc608b", types.RoleKeystore, types.ModelATECC608B, types.CapKeystore, AddrATECC608B),
		SlotEntry("rv3028", types.RoleClock, types.ModelRV3028, types.CapRTCRV3028, AddrRV3028),
		SlotEntry("pcf8563", types.RoleClock, types.ModelPCF8563, types.CapRTCPCF8563, AddrPCF8563),
		ModelSignatureEntry("keyboard", types.RoleKeyboard, KeyboardSignatures, types.CapNone, AddrKeyboard),
		SlotEntry("pmu", types.RolePowerUnit, types.ModelAXP192AXP2101, types.CapPowerUnit, AddrPowerUnit),
		SensorSignatureEntry("bme", BMESignatures, AddrBME, AddrBMEAlt),
		SensorSignatureEntry("ina", INASignatures, AddrINA, AddrINAAlt),
		SensorEntry("mcp9808", types.SensorMCP9808, AddrMCP9808, AddrTempAlt),
		SensorEntry("sht31", types.SensorSHT31, AddrSHT31),
		SensorEntry("shtc3", types.SensorSHTC3, AddrSHTC3),
		SensorEntry("lps22hb", types.SensorLPS22, AddrLPS22HB, AddrLPS22HBAlt),
		SensorEntry("qmc6310", types.SensorQMC6310, AddrQMC6310),
		SensorEntry("qmi8658", types.SensorQMI8658, AddrQMI8658),
		SensorEntry("qmc5883l", types.SensorQMC5883L, AddrQMC5883L),
	}
}
