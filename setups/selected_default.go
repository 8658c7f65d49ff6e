//go:build !pico_tracker

package setups

var Selected = Generic
