package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"simple_server/internal/shared/types"
)

// Init initializes the global zerolog logger.
func Init(cfg types.LogConf) error {
	levelStr := strings.ToLower(cfg.Level)
	level, err := zerolog.ParseLevel(levelStr)
	if err != nil {
		level = zerolog.InfoLevel
		fmt.Printf("Unknown log level '%s', defaulting to 'info'\n", levelStr)
	}

	out, err := outputFor(cfg.Output)
	if err != nil {
		return err
	}

	// Force all timestamps to be in UTC.
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}

	log.Logger = New(out, level)
	Debug().Msgf("Logger initialized with level: %s", level.String())
	return nil
}

// New 构造一个控制台格式的 logger，测试中用于把日志写入缓冲区。
func New(out io.Writer, level zerolog.Level) zerolog.Logger {
	consoleWriter := zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    true,
		TimeFormat: "2006-01-02 15:04:05",
	}
	return zerolog.New(consoleWriter).
		Level(level).
		With().
		Timestamp().
		Logger()
}

func outputFor(name string) (io.Writer, error) {
	switch strings.ToLower(name) {
	case "", "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	default:
		return nil, fmt.Errorf("unknown log output %q", name)
	}
}

// 这对于在日志中区分不同模块或组件的输出非常有用。
func WithComponent(name string) zerolog.Logger {
	return log.Logger.With().Str("component", name).Logger()
}

// Event is a wrapper for a zerolog event.
type Event struct {
	*zerolog.Event
}

// Debug starts a new message with debug level.
func Debug() *Event {
	return &Event{log.Debug()}
}

// Fatal starts a new message with fatal level. The program will exit.
func Fatal() *Event {
	return &Event{log.Fatal()}
}

// Str adds a string field to the event.
func (e *Event) Str(key, value string) *Event {
	e.Event = e.Event.Str(key, value)
	return e
}

// Int adds an integer field to the event.
func (e *Event) Int(key string, value int) *Event {
	e.Event = e.Event.Int(key, value)
	return e
}

// Err adds an error field to the event.
func (e *Event) Err(err error) *Event {
	e.Event = e.Event.Err(err)
	return e
}
