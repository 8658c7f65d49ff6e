//go:build tinygo

package transport

import "strings"

// classifyPlatform treats abort/NACK reports from the machine package as
// absence; only an explicit bus-level failure is an anomaly.
func classifyPlatform(err error) (Outcome, bool) {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "bus error"), strings.Contains(msg, "arbitration"):
		return Error, true
	case strings.Contains(msg, "nack"), strings.Contains(msg, "ack expected"), strings.Contains(msg, "abort"):
		return NoResponse, true
	}
	return 0, false
}
