package errcode

import (
	"errors"
	"fmt"
	"testing"
)

func TestCodesAreStableStrings(t *testing.T) {
	cases := map[string]Code{
		"ok":              OK,
		"busy":            Busy,
		"no_response":     NoResponse,
		"bus_error":       BusError,
		"invalid_address": InvalidAddress,
		"invalid_config":  InvalidConfig,
		"timeout":         Timeout,
	}
	for want, c := range cases {
		if c.Error() != want {
			t.Fatalf("code %q mismatch: got %q", want, c.Error())
		}
	}
}

func TestOfUnwrapsCodes(t *testing.T) {
	if got := Of(nil); got != OK {
		t.Fatalf("Of(nil) = %q", got)
	}
	if got := Of(Busy); got != Busy {
		t.Fatalf("Of(Busy) = %q", got)
	}
	wrapped := fmt.Errorf("scan: %w", Timeout)
	if got := Of(wrapped); got != Timeout {
		t.Fatalf("Of(wrapped) = %q", got)
	}
	e := Wrap(InvalidConfig, "config.load", errors.New("bad yaml"))
	if got := Of(fmt.Errorf("outer: %w", e)); got != InvalidConfig {
		t.Fatalf("Of(*E) = %q", got)
	}
	if got := Of(errors.New("boom")); got != Error {
		t.Fatalf("Of(plain) = %q", got)
	}
}

func TestEFormatsAndMatches(t *testing.T) {
	cause := errors.New("short read")
	e := &E{C: BusError, Op: "tx", Msg: "addr 0x3c", Err: cause}
	if got, want := e.Error(), "tx: bus_error: addr 0x3c"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(e, BusError) {
		t.Fatal("errors.Is(e, BusError) = false")
	}
	if !errors.Is(e, cause) {
		t.Fatal("cause not reachable through Unwrap")
	}
}

func TestMapDriverErr(t *testing.T) {
	if MapDriverErr(nil) != OK {
		t.Fatal("nil should map to OK")
	}
	if MapDriverErr(errors.New("i2c abort")) != BusError {
		t.Fatal("plain driver error should map to bus_error")
	}
	if MapDriverErr(Timeout) != Timeout {
		t.Fatal("coded error should keep its code")
	}
}
