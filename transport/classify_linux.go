//go:build linux && !tinygo

package transport

import (
	"errors"
	"strings"
	"syscall"
)

// classifyPlatform recognises Linux i2c-dev errnos. Some adapters wrap the
// errno with %v, so the message text is checked as well.
func classifyPlatform(err error) (Outcome, bool) {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ENXIO, syscall.EREMOTEIO, syscall.EIO, syscall.ETIMEDOUT:
			return NoResponse, true
		case syscall.EBUSY, syscall.EINVAL, syscall.EOPNOTSUPP, syscall.EAGAIN:
			return Error, true
		}
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "no such device or address"),
		strings.Contains(msg, "remote i/o error"):
		return NoResponse, true
	case strings.Contains(msg, "device or resource busy"),
		strings.Contains(msg, "operation not supported"):
		return Error, true
	}
	return 0, false
}
