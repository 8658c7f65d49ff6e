package strconvx

import "testing"

func TestItoa(t *testing.T) {
	for v, want := range map[int]string{0: "0", 7: "7", -42: "-42", 126: "126"} {
		if got := Itoa(v); got != want {
			t.Fatalf("Itoa(%d) = %q, want %q", v, got, want)
		}
	}
}

func TestFormatIntSigned(t *testing.T) {
	if got := FormatInt(-0x3c, 16); got != "-3c" {
		t.Fatalf("FormatInt(-0x3c,16) = %q", got)
	}
	if got := FormatInt(-9223372036854775808, 10); got != "-9223372036854775808" {
		t.Fatalf("FormatInt(min) = %q", got)
	}
}

func TestFormatUintBases(t *testing.T) {
	for _, c := range []struct {
		u    uint64
		base int
		want string
	}{
		{0, 16, "0"},
		{0x3c, 16, "3c"},
		{0x76, 16, "76"},
		{5, 2, "101"},
		{35, 36, "z"},
	} {
		if got := FormatUint(c.u, c.base); got != c.want {
			t.Fatalf("FormatUint(%d,%d) = %q, want %q", c.u, c.base, got, c.want)
		}
	}
}

func TestParseUintPrefixes(t *testing.T) {
	for _, c := range []struct {
		s    string
		want uint64
	}{
		{"0", 0},
		{"13", 13},
		{"0x5", 5},
		{"0XfF", 255},
		{"0b101", 5},
		{"0o17", 15},
	} {
		got, err := ParseUint(c.s, 0, 32)
		if err != nil {
			t.Fatalf("ParseUint(%q) error: %v", c.s, err)
		}
		if got != c.want {
			t.Fatalf("ParseUint(%q) = %d, want %d", c.s, got, c.want)
		}
	}
}

func TestParseUintRejects(t *testing.T) {
	for _, s := range []string{"", "0x", "g1", "-1", "0x1ff"} {
		if _, err := ParseUint(s, 0, 8); err == nil {
			t.Fatalf("ParseUint(%q, 0, 8) expected error", s)
		}
	}
}
