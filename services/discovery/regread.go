package discovery

import (
	"boardscan-go/transport"
	"boardscan-go/x/mathx"
)

// ReadRegister writes reg to addr, waits the settle delay and reads width
// bytes (1 or 2, MSB first). Two bytes back give a 16-bit value, one byte an
// 8-bit value, nothing (or a failed transaction) gives 0. There are no
// retries; callers treat 0 as "no match".
func (s *Scanner) ReadRegister(addr uint8, reg byte, width int) uint16 {
	width = mathx.Clamp(width, 1, 2)

	// A failed pointer write surfaces as an empty read below.
	_ = s.bus.Tx(uint16(addr), []byte{reg}, nil)
	s.sleep(s.cfg.SettleDelay)

	var buf [2]byte
	n := s.readAvailable(addr, buf[:width])
	var v uint16
	switch n {
	case 2:
		v = uint16(buf[0])<<8 | uint16(buf[1])
	case 1:
		v = uint16(buf[0])
	}
	s.log.Debugf("register 0x%x at 0x%x = 0x%x (%d bytes)", reg, addr, v, n)
	return v
}

// readAvailable reads into r and reports how many bytes the device supplied.
// Buses that cannot report short reads count a successful read as complete.
func (s *Scanner) readAvailable(addr uint8, r []byte) int {
	if ar, ok := s.bus.(transport.AvailableReader); ok {
		n, err := ar.ReadAvailable(uint16(addr), r)
		if err != nil {
			return 0
		}
		return n
	}
	if err := s.bus.Tx(uint16(addr), nil, r); err != nil {
		return 0
	}
	return len(r)
}
