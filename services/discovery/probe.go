package discovery

import "boardscan-go/types"

const (
	// MaxSubtypeAttempts bounds the status-register polling loop.
	MaxSubtypeAttempts = 4

	oledStatusRegister = 0x00
	oledStatusMask     = 0x0f
)

// ProbeSubtype polls the OLED status register until two consecutive reads
// agree or MaxSubtypeAttempts reads were made, then maps the last masked
// value. Some controllers report a stale status on the first read after
// power-up. A failed read keeps the previous value.
func (s *Scanner) ProbeSubtype(addr uint8) types.DisplaySubtype {
	var (
		r, prev byte
		tries   int
		buf     [1]byte
	)
	for tries < MaxSubtypeAttempts {
		prev = r
		_ = s.bus.Tx(uint16(addr), []byte{oledStatusRegister}, nil)
		if s.readAvailable(addr, buf[:]) == 1 {
			r = buf[0]
		}
		r &= oledStatusMask
		tries++
		if tries > 1 && r == prev {
			break
		}
	}
	sub := subtypeFor(r)
	s.log.Debugf("0x%x subtype probed in %d tries", r, tries)
	return sub
}

func subtypeFor(status byte) types.DisplaySubtype {
	switch status {
	case 0x08, 0x00:
		return types.SubtypeSH1106
	case 0x03, 0x04, 0x06, 0x07:
		return types.SubtypeSSD1306
	default:
		return types.SubtypeUnknown
	}
}
