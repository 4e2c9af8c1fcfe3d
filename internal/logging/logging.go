package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
)

// Level is a log severity threshold.
type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[Level]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

func (l Level) String() string {
	if n, ok := levelNames[l]; ok {
		return n
	}
	return fmt.Sprintf("LEVEL(%d)", int32(l))
}

// ParseLevel maps "debug", "info", "warn"/"warning" and "error".
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

var threshold atomic.Int32

func init() {
	threshold.Store(int32(LevelInfo))
}

// SetLevel changes the threshold below which messages are dropped.
func SetLevel(l Level) {
	threshold.Store(int32(l))
}

// Enabled reports whether l would be written.
func Enabled(l Level) bool {
	return int32(l) >= threshold.Load()
}

// SetupLogging configures the standard logger.
// If filename is empty, logging is disabled (except log.Fatal/panic).
// If filename is set, logs are appended to that file.
func SetupLogging(filename string, level Level) (cleanup func(), err error) {
	SetLevel(level)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if filename == "" {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}

	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	log.SetOutput(f)

	return func() { f.Close() }, nil
}

// SetupTUILogging is SetupLogging plus Bubble Tea's own logger, which the
// viewer needs because stdout belongs to the terminal UI.
func SetupTUILogging(filename string, level Level) (cleanup func(), err error) {
	closeStd, err := SetupLogging(filename, level)
	if err != nil {
		return nil, err
	}
	if filename == "" {
		return closeStd, nil
	}

	tf, err := tea.LogToFile(filename, "momentline")
	if err != nil {
		closeStd()
		return nil, err
	}

	return func() {
		tf.Close()
		closeStd()
	}, nil
}

func output(l Level, format string, args ...interface{}) {
	if !Enabled(l) {
		return
	}
	// calldepth 3 attributes the line to the caller of Debugf/Infof/...
	log.Output(3, "["+l.String()+"] "+fmt.Sprintf(format, args...)) //nolint:errcheck
}

func Debugf(format string, args ...interface{}) { output(LevelDebug, format, args...) }
func Infof(format string, args ...interface{}) { output(LevelInfo, format, args...) }
func Warnf(format string, args ...interface{}) { output(LevelWarn, format, args...) }
func Errorf(format string, args ...interface{}) { output(LevelError, format, args...) }
