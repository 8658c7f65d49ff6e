package transport

import (
	"sync"
)

// SimDevice is one simulated responder. Each register holds a sequence of
// responses; successive reads walk the sequence and wrap around, so a
// one-element sequence is a constant register and two elements alternate.
type SimDevice struct {
	Registers map[byte][][]byte
	// Status, when non-zero, is returned for every transaction as a
	// *StatusError (4 simulates a transport anomaly).
	Status uint8
}

// SimTx records one transaction seen by a SimBus.
type SimTx struct {
	Addr uint16
	W    []byte
	Rn   int
}

// SimBus is an in-memory bus for host tests and dry runs. Unattached
// addresses NACK with StatusAddrNACK.
type SimBus struct {
	mu   sync.Mutex
	devs map[uint16]*simState
	log  []SimTx
}

type simState struct {
	dev   SimDevice
	ptr   byte
	reads map[byte]int
}

func NewSimBus() *SimBus {
	return &SimBus{devs: make(map[uint16]*simState)}
}

var (
	_ Bus             = (*SimBus)(nil)
	_ AvailableReader = (*SimBus)(nil)
)

// Attach places d at addr, replacing any previous responder.
func (b *SimBus) Attach(addr uint16, d SimDevice) *SimBus {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.devs[addr] = &simState{dev: d, reads: make(map[byte]int)}
	return b
}

// Present attaches a responder with no registers.
func (b *SimBus) Present(addrs ...uint16) *SimBus {
	for _, a := range addrs {
		b.Attach(a, SimDevice{})
	}
	return b
}

// Tx writes set the register pointer (first byte); reads fill r from the
// pointed register. A short response leaves the tail of r zeroed.
func (b *SimBus) Tx(addr uint16, w, r []byte) error {
	_, err := b.transact(addr, w, r)
	return err
}

// ReadAvailable reads from the current register pointer and reports how many
// bytes the responder actually supplied.
func (b *SimBus) ReadAvailable(addr uint16, r []byte) (int, error) {
	return b.transact(addr, nil, r)
}

func (b *SimBus) transact(addr uint16, w, r []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.log = append(b.log, SimTx{Addr: addr, W: append([]byte(nil), w...), Rn: len(r)})

	st, ok := b.devs[addr]
	if !ok {
		return 0, &StatusError{Addr: addr, Code: StatusAddrNACK}
	}
	if st.dev.Status != StatusOK {
		return 0, &StatusError{Addr: addr, Code: st.dev.Status}
	}
	if len(w) > 0 {
		st.ptr = w[0]
	}
	if len(r) == 0 {
		return 0, nil
	}
	for i := range r {
		r[i] = 0
	}
	seq := st.dev.Registers[st.ptr]
	if len(seq) == 0 {
		return 0, nil
	}
	i := st.reads[st.ptr]
	st.reads[st.ptr] = i + 1
	return copy(r, seq[i%len(seq)]), nil
}

// Transactions returns a copy of the transaction log.
func (b *SimBus) Transactions() []SimTx {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]SimTx(nil), b.log...)
}

// PresenceTests counts payload-free transactions addressed to addr.
func (b *SimBus) PresenceTests(addr uint16) int {
	n := 0
	for _, tx := range b.Transactions() {
		if tx.Addr == addr && len(tx.W) == 0 && tx.Rn == 0 {
			n++
		}
	}
	return n
}

// Reset clears the log and rewinds every register sequence.
func (b *SimBus) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.log = nil
	for _, st := range b.devs {
		st.ptr = 0
		st.reads = make(map[byte]int)
	}
}
