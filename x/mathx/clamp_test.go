package mathx

import (
	"testing"
	"time"
)

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 3); got != 3 {
		t.Fatalf("Clamp high = %d", got)
	}
	if got := Clamp(-2, 0, 3); got != 0 {
		t.Fatalf("Clamp low = %d", got)
	}
	if got := Clamp(2, 3, 0); got != 2 {
		t.Fatalf("Clamp swapped bounds = %d", got)
	}
	if got := Clamp(2*time.Second, 0, time.Second); got != time.Second {
		t.Fatalf("Clamp duration = %v", got)
	}
}
