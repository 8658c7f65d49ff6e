// Package transport is the bus side of discovery: the transaction interface
// (tinygo.org/x/drivers.I2C), how transaction errors map to presence
// outcomes, and concrete buses for firmware, Linux hosts and tests.
package transport

import (
	"errors"

	"boardscan-go/errcode"
	"boardscan-go/x/strconvx"

	"tinygo.org/x/drivers"
)

// Bus is the single-transaction I²C contract. When both w and r are set the
// implementation must write then repeated-start read without releasing the bus.
type Bus = drivers.I2C

// AvailableReader is implemented by buses that can report a short read
// instead of failing it. Register reads use it to tell 0, 1 and 2 byte
// responses apart.
type AvailableReader interface {
	ReadAvailable(addr uint16, r []byte) (n int, err error)
}

// Outcome is the result of a presence transaction.
type Outcome uint8

const (
	Success Outcome = iota
	NoResponse
	Error
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case NoResponse:
		return "no_response"
	default:
		return "error"
	}
}

// Wire-style completion codes.
const (
	StatusOK       = 0
	StatusTooLong  = 1
	StatusAddrNACK = 2
	StatusDataNACK = 3
	StatusUnknown  = 4 // the only code treated as a transport anomaly
	StatusTimedOut = 5
)

// StatusError carries a numeric completion code from transports that report one.
type StatusError struct {
	Addr uint16
	Code uint8
}

func (e *StatusError) Error() string {
	return "i2c status " + strconvx.Itoa(int(e.Code)) + " at 0x" + strconvx.FormatUint(uint64(e.Addr), 16)
}

// OutcomeFromStatus maps a completion code: 0 is success, 4 is an anomaly,
// every other non-zero code means nobody answered.
func OutcomeFromStatus(code uint8) Outcome {
	switch code {
	case StatusOK:
		return Success
	case StatusUnknown:
		return Error
	default:
		return NoResponse
	}
}

// Classify maps a transaction error to an Outcome. Errors without a known
// shape count as NoResponse so a missing device never reads as a bus fault.
func Classify(err error) Outcome {
	if err == nil {
		return Success
	}
	var se *StatusError
	if errors.As(err, &se) {
		return OutcomeFromStatus(se.Code)
	}
	switch errcode.Of(err) {
	case errcode.BusError, errcode.Busy:
		return Error
	case errcode.NoResponse, errcode.Timeout:
		return NoResponse
	}
	if o, ok := classifyPlatform(err); ok {
		return o
	}
	return NoResponse
}
