//go:build linux

package transport

import (
	"errors"
	"fmt"
	"syscall"
	"testing"
)

func TestClassifyLinuxErrnos(t *testing.T) {
	cases := []struct {
		err  error
		want Outcome
	}{
		{syscall.ENXIO, NoResponse},
		{fmt.Errorf("sysfs-i2c: %w", syscall.EREMOTEIO), NoResponse},
		{fmt.Errorf("sysfs-i2c: %w", syscall.EBUSY), Error},
		{errors.New("sysfs-i2c: remote I/O error"), NoResponse},
		{errors.New("sysfs-i2c: device or resource busy"), Error},
	}
	for _, c := range cases {
		if got := Classify(c.err); got != c.want {
			t.Fatalf("Classify(%v) = %v, want %v", c.err, got, c.want)
		}
	}
}
