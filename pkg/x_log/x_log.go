// Package x_log wires zerolog with lipgloss console styling and
// lumberjack file rotation.
package x_log

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

//---------------------
// Levels
//---------------------

type Level = zerolog.Level

const (
	DebugLevel = zerolog.DebugLevel
	InfoLevel  = zerolog.InfoLevel
	WarnLevel  = zerolog.WarnLevel
	ErrorLevel = zerolog.ErrorLevel
	FatalLevel = zerolog.FatalLevel
)

var (
	mu     sync.Mutex
	closer io.Closer
)

//---------------------
// Init
//---------------------

// Init configures the global logger from LoadConfig("").
func Init() {
	cfg, err := LoadConfig("")
	if err != nil {
		c := defaultConfig
		cfg = &c
	}
	InitWithConfig(cfg, "")
}

// InitWithConfig configures the global logger. A non-empty module is
// attached to every entry.
func InitWithConfig(cfg *Config, module string) {
	mu.Lock()
	defer mu.Unlock()

	c := *cfg
	applyDefaults(&c)

	lvl, err := zerolog.ParseLevel(c.Level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	if closer != nil {
		_ = closer.Close()
		closer = nil
	}

	var writers []io.Writer
	if c.ToConsole || !c.ToFile {
		styles := DefaultStylesByName(c.Style)
		styles.Out = os.Stderr
		cw := ConsoleWriterWithStyles(styles)
		cw.NoColor = !isatty.IsTerminal(os.Stderr.Fd())
		writers = append(writers, cw)
	}
	if c.ToFile {
		lj := &lumberjack.Logger{
			Filename:   c.LogFile,
			MaxSize:    c.MaxSize,
			MaxBackups: c.MaxBackups,
			MaxAge:     c.MaxAge,
			Compress:   c.Compress,
		}
		closer = lj
		if c.ColoredFile {
			styles := DefaultStylesByName(c.Style)
			styles.Out = lj
			writers = append(writers, ConsoleWriterWithStyles(styles))
		} else {
			writers = append(writers, lj)
		}
	}

	ctx := zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp()
	if module != "" {
		ctx = ctx.Str("module", module)
	}
	log.Logger = ctx.Logger()
}

// New returns a child of the global logger tagged with module.
func New(module string) zerolog.Logger {
	return log.Logger.With().Str("module", module).Logger()
}

// Sync closes the rotating file, if any. The next Init reopens it.
func Sync() {
	mu.Lock()
	defer mu.Unlock()
	if closer != nil {
		_ = closer.Close()
	}
}

//---------------------
// Context
//---------------------

// WithLogger stores l in ctx.
func WithLogger(ctx context.Context, l *zerolog.Logger) context.Context {
	return l.WithContext(ctx)
}

// From returns the logger stored in ctx, or the global logger.
func From(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l != nil && l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &log.Logger
}

//---------------------
// Shortcuts
//---------------------

func Debug() *zerolog.Event { return log.Debug() }
func Info() *zerolog.Event  { return log.Info() }
func Warn() *zerolog.Event  { return log.Warn() }
func Error() *zerolog.Event { return log.Error() }
func Fatal() *zerolog.Event { return log.Fatal() }
