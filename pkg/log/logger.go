package log

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/op/go-logging"
	"github.com/pkg/errors"
)

// Level controls logger verbosity.
type Level logging.Level

// Levels accepted by SetLevel, from most to least verbose.
const (
	Debug Level = iota
	Info
	Notice
	Warning
	Error
)

var levelNames = map[string]Level{
	"debug":   Debug,
	"info":    Info,
	"notice":  Notice,
	"warning": Warning,
	"error":   Error,
}

var format = logging.MustStringFormatter(
	`%{color}[%{time:15:04:05.000}] [%{module}] [%{level}]%{color:reset} %{message}`,
)

var (
	mu             sync.Mutex
	leveledBackend logging.LeveledBackend
	currentLevel   = Notice
)

// Logger is implemented by *logging.Logger. Scene building and rendering
// accept this interface so callers can silence them with Discard.
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})

	Notice(v ...interface{})
	Noticef(format string, v ...interface{})

	Info(v ...interface{})
	Infof(format string, v ...interface{})

	Warning(v ...interface{})
	Warningf(format string, v ...interface{})

	Error(v ...interface{})
	Errorf(format string, v ...interface{})
}

// New creates a named module logger writing to the shared sink.
func New(name string) Logger {
	return logging.MustGetLogger(name)
}

// SetSink redirects every module logger to sink. The current level is kept.
func SetSink(sink io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	backend := logging.NewBackendFormatter(logging.NewLogBackend(sink, "", 0), format)
	leveledBackend = logging.AddModuleLevel(backend)
	leveledBackend.SetLevel(toLogging(currentLevel), "")
	logging.SetBackend(leveledBackend)
}

// SetLevel sets logger verbosity for every module.
func SetLevel(level Level) {
	mu.Lock()
	defer mu.Unlock()

	currentLevel = level
	leveledBackend.SetLevel(toLogging(level), "")
}

// GetLevel returns the verbosity last passed to SetLevel.
func GetLevel() Level {
	mu.Lock()
	defer mu.Unlock()
	return currentLevel
}

// ParseLevel maps a level name such as "info" or "WARNING" to a Level.
func ParseLevel(name string) (Level, error) {
	level, ok := levelNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Notice, errors.Errorf("unknown log level %q", name)
	}
	return level, nil
}

func toLogging(level Level) logging.Level {
	switch level {
	case Debug:
		return logging.DEBUG
	case Info:
		return logging.INFO
	case Warning:
		return logging.WARNING
	case Error:
		return logging.ERROR
	default:
		return logging.NOTICE
	}
}

// discard drops every message. It holds no state, so one value can be shared
// by any number of goroutines.
type discard struct{}

func (discard) Debug(...interface{}) {}
func (discard) Debugf(string, ...interface{}) {}
func (discard) Notice(...interface{}) {}
func (discard) Noticef(string, ...interface{}) {}
func (discard) Info(...interface{}) {}
func (discard) Infof(string, ...interface{}) {}
func (discard) Warning(...interface{}) {}
func (discard) Warningf(string, ...interface{}) {}
func (discard) Error(...interface{}) {}
func (discard) Errorf(string, ...interface{}) {}

// Discard returns a logger whose output goes nowhere.
func Discard() Logger {
	return discard{}
}

func init() {
	SetSink(os.Stdout)
}
