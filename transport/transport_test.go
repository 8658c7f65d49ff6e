package transport

import (
	"errors"
	"fmt"
	"testing"

	"boardscan-go/errcode"
)

func TestOutcomeFromStatus(t *testing.T) {
	cases := map[uint8]Outcome{
		StatusOK:       Success,
		StatusTooLong:  NoResponse,
		StatusAddrNACK: NoResponse,
		StatusDataNACK: NoResponse,
		StatusUnknown:  Error,
		StatusTimedOut: NoResponse,
	}
	for code, want := range cases {
		if got := OutcomeFromStatus(code); got != want {
			t.Fatalf("status %d -> %v, want %v", code, got, want)
		}
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Outcome
	}{
		{"nil", nil, Success},
		{"status nack", &StatusError{Addr: 0x10, Code: StatusAddrNACK}, NoResponse},
		{"status unknown", fmt.Errorf("wrapped: %w", &StatusError{Code: StatusUnknown}), Error},
		{"bus error code", errcode.BusError, Error},
		{"owner busy", errcode.Busy, Error},
		{"timeout", errcode.Timeout, NoResponse},
		{"unknown", errors.New("something odd"), NoResponse},
	}
	for _, c := range cases {
		if got := Classify(c.err); got != c.want {
			t.Fatalf("%s: Classify = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestSimBusRegistersAndLog(t *testing.T) {
	b := NewSimBus().Attach(0x76, SimDevice{Registers: map[byte][][]byte{
		0xD0: {{0x61}},
		0x00: {{0x08}, {0x00}},
	}})

	if err := b.Tx(0x75, nil, nil); Classify(err) != NoResponse {
		t.Fatalf("empty address: %v", err)
	}
	if err := b.Tx(0x76, nil, nil); err != nil {
		t.Fatalf("presence: %v", err)
	}

	var r [2]byte
	if err := b.Tx(0x76, []byte{0xD0}, nil); err != nil {
		t.Fatal(err)
	}
	n, err := b.ReadAvailable(0x76, r[:])
	if err != nil || n != 1 || r[0] != 0x61 || r[1] != 0 {
		t.Fatalf("ReadAvailable = %d,%v %x", n, err, r)
	}

	// Alternating register.
	got := []byte{}
	for i := 0; i < 3; i++ {
		var one [1]byte
		if err := b.Tx(0x76, []byte{0x00}, one[:]); err != nil {
			t.Fatal(err)
		}
		got = append(got, one[0])
	}
	if string(got) != string([]byte{0x08, 0x00, 0x08}) {
		t.Fatalf("sequence = %x", got)
	}

	if n := b.PresenceTests(0x76); n != 1 {
		t.Fatalf("PresenceTests = %d, want 1", n)
	}
	b.Reset()
	if len(b.Transactions()) != 0 {
		t.Fatal("Reset should clear the log")
	}
}

func TestSimBusForcedStatus(t *testing.T) {
	b := NewSimBus().Attach(0x50, SimDevice{Status: StatusUnknown})
	err := b.Tx(0x50, nil, nil)
	var se *StatusError
	if !errors.As(err, &se) || se.Code != StatusUnknown {
		t.Fatalf("err = %v", err)
	}
	if Classify(err) != Error {
		t.Fatal("status 4 should classify as Error")
	}
}
