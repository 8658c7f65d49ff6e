package discovery

import (
	"sort"

	"boardscan-go/types"
)

type slot struct {
	addr  uint8
	model types.Model
	set   bool
}

// Registry is the result of one sweep: singleton slots where the first
// claimant wins, and a sensor map keyed by family. A Scanner builds a fresh
// Registry per sweep and never touches it after returning it, so readers need
// no locking. All accessors are safe on a nil *Registry.
type Registry struct {
	slots   [types.NumRoles]slot
	subtype types.DisplaySubtype
	sensors map[types.SensorType]uint8
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{sensors: make(map[types.SensorType]uint8)}
}

// SensorAddr is one sensor-map pair.
type SensorAddr struct {
	Sensor types.SensorType
	Addr   uint8
}

// Slot reports the device holding role.
func (r *Registry) Slot(role types.Role) (addr uint8, model types.Model, ok bool) {
	if r == nil || role == types.RoleNone || role >= types.NumRoles {
		return 0, types.ModelUnknown, false
	}
	s := r.slots[role]
	return s.addr, s.model, s.set
}

func (r *Registry) Display() (uint8, types.Model, bool) { return r.Slot(types.RoleDisplay) }

// DisplaySubtype is the probed OLED controller variant. It stays
// SubtypeUnknown for displays that are not probed (e.g. ST7567).
func (r *Registry) DisplaySubtype() types.DisplaySubtype {
	if r == nil {
		return types.SubtypeUnknown
	}
	return r.subtype
}

func (r *Registry) Keystore() (uint8, bool) {
	a, _, ok := r.Slot(types.RoleKeystore)
	return a, ok
}

func (r *Registry) Keyboard() (uint8, types.Model, bool) { return r.Slot(types.RoleKeyboard) }
func (r *Registry) Clock() (uint8, types.Model, bool)    { return r.Slot(types.RoleClock) }

func (r *Registry) PowerUnit() (uint8, bool) {
	a, _, ok := r.Slot(types.RolePowerUnit)
	return a, ok
}

// Sensor reports the address recorded for a sensor family.
func (r *Registry) Sensor(t types.SensorType) (uint8, bool) {
	if r == nil {
		return 0, false
	}
	a, ok := r.sensors[t]
	return a, ok
}

// Sensors returns the sensor map ordered by family.
func (r *Registry) Sensors() []SensorAddr {
	if r == nil {
		return nil
	}
	out := make([]SensorAddr, 0, len(r.sensors))
	for t, a := range r.sensors {
		out = append(out, SensorAddr{Sensor: t, Addr: a})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sensor < out[j].Sensor })
	return out
}

// Range calls fn for each sensor-map pair in family order until fn returns false.
func (r *Registry) Range(fn func(t types.SensorType, addr uint8) bool) {
	for _, s := range r.Sensors() {
		if !fn(s.Sensor, s.Addr) {
			return
		}
	}
}

// Len counts filled slots plus sensor-map entries.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	n := len(r.sensors)
	for _, s := range r.slots {
		if s.set {
			n++
		}
	}
	return n
}

// Equal reports whether both registries hold the same devices.
func (r *Registry) Equal(o *Registry) bool {
	if r.Len() != o.Len() || r.DisplaySubtype() != o.DisplaySubtype() {
		return false
	}
	for role := types.RoleDisplay; role < types.NumRoles; role++ {
		a1, m1, ok1 := r.Slot(role)
		a2, m2, ok2 := o.Slot(role)
		if ok1 != ok2 || a1 != a2 || m1 != m2 {
			return false
		}
	}
	for _, s := range r.Sensors() {
		if a, ok := o.Sensor(s.Sensor); !ok || a != s.Addr {
			return false
		}
	}
	return true
}

// Snapshot copies the registry into its serialisable form.
func (r *Registry) Snapshot() types.RegistrySnapshot {
	snap := types.RegistrySnapshot{Slots: []types.SlotEntry{}, Sensors: []types.SensorEntry{}}
	for role := types.RoleDisplay; role < types.NumRoles; role++ {
		a, m, ok := r.Slot(role)
		if !ok {
			continue
		}
		e := types.SlotEntry{Role: role.String(), Model: m.String(), Addr: a}
		if role == types.RoleDisplay && r.DisplaySubtype() != types.SubtypeUnknown {
			e.Subtype = r.DisplaySubtype().String()
		}
		snap.Slots = append(snap.Slots, e)
	}
	for _, s := range r.Sensors() {
		snap.Sensors = append(snap.Sensors, types.SensorEntry{Sensor: s.Sensor.String(), Addr: s.Addr})
	}
	return snap
}

// ---- mutators (Scanner only) ----

func (r *Registry) filled(role types.Role) bool {
	_, _, ok := r.Slot(role)
	return ok
}

// claim fills an empty slot. It returns false and changes nothing when the
// slot is already held.
func (r *Registry) claim(role types.Role, addr uint8, model types.Model, sub types.DisplaySubtype) bool {
	if role == types.RoleNone || role >= types.NumRoles || r.slots[role].set {
		return false
	}
	r.slots[role] = slot{addr: addr, model: model, set: true}
	if role == types.RoleDisplay {
		r.subtype = sub
	}
	return true
}

// putSensor records t at addr, last write wins. It reports the address it
// replaced, if any.
func (r *Registry) putSensor(t types.SensorType, addr uint8) (prev uint8, replaced bool) {
	prev, replaced = r.sensors[t]
	r.sensors[t] = addr
	return prev, replaced
}
