package utils

import (
	"fmt"
	"io"
)

// Logger is a verbose trace sink. A nil *Logger discards everything,
// so processing code can log unconditionally.
type Logger struct {
	io.Writer
	Prefix string
}

// NewLogger returns nil for a nil writer.
func NewLogger(w io.Writer, prefix string) *Logger {
	if w == nil {
		return nil
	}
	return &Logger{Writer: w, Prefix: prefix}
}

func (l *Logger) Println(a ...interface{}) {
	if l != nil {
		if l.Prefix != "" {
			fmt.Fprint(l, l.Prefix)
		}
		fmt.Fprintln(l, a...)
	}
}

func (l *Logger) Printf(format string, a ...interface{}) {
	if l != nil {
		fmt.Fprintf(l, l.Prefix+format+"\n", a...)
	}
}
