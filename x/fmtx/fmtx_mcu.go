//go:build rp2040 || rp2350

package fmtx

import (
	"io"

	"boardscan-go/x/strconvx"
)

// Sprintf supports the subset the firmware logs use:
// %s %v %d %x %X %t %c %% with an optional zero-pad width ("%02x").
// []byte under %x prints as contiguous hex. Anything else prints "?".
func Sprintf(format string, a ...any) string {
	var b []byte
	arg := 0
	next := func() (any, bool) {
		if arg >= len(a) {
			return nil, false
		}
		v := a[arg]
		arg++
		return v, true
	}
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' || i+1 >= len(format) {
			b = append(b, c)
			continue
		}
		i++
		pad := byte(' ')
		if format[i] == '0' {
			pad = '0'
			i++
		}
		width := 0
		for i < len(format) && format[i] >= '0' && format[i] <= '9' {
			width = width*10 + int(format[i]-'0')
			i++
		}
		if i >= len(format) {
			break
		}
		verb := format[i]
		if verb == '%' {
			b = append(b, '%')
			continue
		}
		v, ok := next()
		if !ok {
			b = append(b, "%!"...)
			b = append(b, verb)
			b = append(b, "(MISSING)"...)
			continue
		}
		b = appendPadded(b, formatOne(v, verb), width, pad)
	}
	return string(b)
}

func Fprintf(w io.Writer, format string, a ...any) (int, error) {
	return io.WriteString(w, Sprintf(format, a...))
}

func Errorf(format string, a ...any) error { return &stringError{Sprintf(format, a...)} }

type stringError struct{ s string }

func (e *stringError) Error() string { return e.s }

func appendPadded(b []byte, s string, width int, pad byte) []byte {
	for n := len(s); n < width; n++ {
		b = append(b, pad)
	}
	return append(b, s...)
}

func formatOne(v any, verb byte) string {
	base := 10
	upper := false
	switch verb {
	case 'x':
		base = 16
	case 'X':
		base, upper = 16, true
	}
	var s string
	switch x := v.(type) {
	case string:
		s = x
	case []byte:
		if base == 16 {
			for _, c := range x {
				s += padHex(strconvx.FormatUint(uint64(c), 16))
			}
		} else {
			s = string(x)
		}
	case error:
		s = x.Error()
	case interface{ String() string }:
		s = x.String()
	case bool:
		s = formatBool(x)
	case int:
		s = strconvx.FormatInt(int64(x), base)
	case int8:
		s = strconvx.FormatInt(int64(x), base)
	case int16:
		s = strconvx.FormatInt(int64(x), base)
	case int32:
		if verb == 'c' {
			return string(rune(x))
		}
		s = strconvx.FormatInt(int64(x), base)
	case int64:
		s = strconvx.FormatInt(x, base)
	case uint:
		s = strconvx.FormatUint(uint64(x), base)
	case uint8:
		s = strconvx.FormatUint(uint64(x), base)
	case uint16:
		s = strconvx.FormatUint(uint64(x), base)
	case uint32:
		s = strconvx.FormatUint(uint64(x), base)
	case uint64:
		s = strconvx.FormatUint(x, base)
	case nil:
		s = "<nil>"
	default:
		s = "?"
	}
	if upper {
		s = toUpper(s)
	}
	return s
}

func formatBool(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

func padHex(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

func toUpper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'f' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}
