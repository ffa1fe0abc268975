package x_db

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

//
// ---------- GORM log adapter (based on x_log) ----------

// logAdapter routes gorm logging into zerolog.
type logAdapter struct {
	Logger        *zerolog.Logger
	LogLevel      logger.LogLevel // current log level
	SlowThreshold time.Duration   // duration to treat query as slow
}

func newLogAdapter(zlog *zerolog.Logger, level logger.LogLevel) logger.Interface {
	return &logAdapter{
		Logger:        zlog,
		LogLevel:      level,
		SlowThreshold: 200 * time.Millisecond,
	}
}

func (l *logAdapter) LogMode(level logger.LogLevel) logger.Interface {
	newLogger := *l
	newLogger.LogLevel = level
	return &newLogger
}

func (l *logAdapter) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= logger.Info {
		l.Logger.Info().Msgf(msg, data...)
	}
}

func (l *logAdapter) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= logger.Warn {
		l.Logger.Warn().Msgf(msg, data...)
	}
}

func (l *logAdapter) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= logger.Error {
		l.Logger.Error().Msgf(msg, data...)
	}
}

// Trace logs each statement. Missing records are not errors for callers,
// so they are logged at debug.
func (l *logAdapter) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	e := l.Logger.With().
		Dur("elapsed", elapsed).
		Int64("rows", rows).
		Logger()

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		e.Debug().Msg(sql)
	case err != nil && l.LogLevel >= logger.Error:
		e.Error().Err(err).Msg(sql)
	case elapsed > l.SlowThreshold && l.LogLevel >= logger.Warn:
		e.Warn().Msgf("SLOW SQL: %s", sql)
	case l.LogLevel >= logger.Info:
		e.Info().Msg(sql)
	}
}
