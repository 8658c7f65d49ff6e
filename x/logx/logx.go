// Package logx is the diagnostic log side-channel. Firmware builds print
// through a writer (usually the UART console); host builds use zap.
package logx

import (
	"io"
	"strings"
	"sync"

	"boardscan-go/x/fmtx"
)

// Logger is the printf-style subset shared by the MCU printer and
// *zap.SugaredLogger.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type Level int8

const (
	LevelDebug Level = iota - 1
	LevelInfo
	LevelWarn
	LevelError
)

var levelTags = map[Level]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO ",
	LevelWarn:  "WARN ",
	LevelError: "ERROR",
}

// ParseLevel accepts debug, info, warn or error. Unknown names yield info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Nop discards everything.
var Nop Logger = nop{}

type nop struct{}

func (nop) Debugf(string, ...any) {}
func (nop) Infof(string, ...any)  {}
func (nop) Warnf(string, ...any)  {}
func (nop) Errorf(string, ...any) {}

// Printer writes one line per record: "LEVEL [prefix] message\n".
type Printer struct {
	mu     sync.Mutex
	w      io.Writer
	min    Level
	prefix string
}

func NewPrinter(w io.Writer, min Level) *Printer {
	return &Printer{w: w, min: min}
}

// With returns a printer sharing the writer that tags lines with name.
func (p *Printer) With(name string) *Printer {
	return &Printer{w: p.w, min: p.min, prefix: name}
}

func (p *Printer) Debugf(format string, args ...any) { p.logf(LevelDebug, format, args) }
func (p *Printer) Infof(format string, args ...any)  { p.logf(LevelInfo, format, args) }
func (p *Printer) Warnf(format string, args ...any)  { p.logf(LevelWarn, format, args) }
func (p *Printer) Errorf(format string, args ...any) { p.logf(LevelError, format, args) }

func (p *Printer) logf(l Level, format string, args []any) {
	if l < p.min || p.w == nil {
		return
	}
	line := levelTags[l] + " "
	if p.prefix != "" {
		line += "[" + p.prefix + "] "
	}
	line += strings.TrimRight(fmtx.Sprintf(format, args...), "\n") + "\n"
	p.mu.Lock()
	_, _ = io.WriteString(p.w, line)
	p.mu.Unlock()
}

// OrNop returns l, or Nop when l is nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return Nop
	}
	return l
}
