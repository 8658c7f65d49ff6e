package bringup

import (
	"sync"

	"boardscan-go/types"
	"boardscan-go/x/fmtx"
)

var (
	regMu    sync.RWMutex
	builders = map[string]Builder{}
)

// SensorKey and ModelKey name the builder for a discovered family or part.
func SensorKey(t types.SensorType) string { return "sensor/" + t.String() }
func ModelKey(m types.Model) string       { return "model/" + m.String() }

func RegisterBuilder(key string, b Builder) {
	regMu.Lock()
	defer regMu.Unlock()
	if _, exists := builders[key]; exists {
		panic(fmtx.Sprintf("duplicate bring-up builder: %s", key))
	}
	builders[key] = b
}

func lookupBuilder(key string) (Builder, bool) {
	regMu.RLock()
	defer regMu.RUnlock()
	b, ok := builders[key]
	return b, ok
}
