//go:build !linux && !tinygo

package transport

import "strings"

func classifyPlatform(err error) (Outcome, bool) {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "no such device"), strings.Contains(msg, "nack"):
		return NoResponse, true
	case strings.Contains(msg, "busy"):
		return Error, true
	}
	return 0, false
}
