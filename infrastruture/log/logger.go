// Package logger writes leveled, colored log lines prefixed with a component name.
package logger

import (
	"errors"
	"fmt"
	"io"
	"log"
)

const (
	errorColor   = "\033[31m"
	infoColor    = "\033[32m"
	warningColor = "\033[33m"
	colorReset   = "\033[0m"
)

var ErrEmptyPrefix = errors.New("logger prefix must not be empty")

// Logger prints lines like "[APP] [INFO] message".
type Logger struct {
	out *log.Logger
}

// New creates a logger for the component name, colored with color.
func New(name, color string, w io.Writer) (*Logger, error) {
	if name == "" {
		return nil, ErrEmptyPrefix
	}
	prefix := fmt.Sprintf("%s[%s]%s ", color, name, colorReset)
	return &Logger{out: log.New(w, prefix, log.LstdFlags)}, nil
}

func (l *Logger) Info(msg string) {
	l.out.Printf("%s[INFO]%s %s", infoColor, colorReset, msg)
}

func (l *Logger) Warning(msg string) {
	l.out.Printf("%s[WARNING]%s %s", warningColor, colorReset, msg)
}

func (l *Logger) Error(msg string) {
	l.out.Printf("%s[ERROR]%s %s", errorColor, colorReset, msg)
}
