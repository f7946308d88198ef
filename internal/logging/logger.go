// Package logging provides the leveled, optionally colored logger used by
// every command. It is a thin printf-style facade over zap: a console core
// writes to stderr (stdout is reserved for shape lines) and an optional
// plain-text file core is teed alongside it.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cuiluyi/rlds-dataset-builder/internal/config"
	"github.com/cuiluyi/rlds-dataset-builder/internal/term"
)

const timeLayout = "2006-01-02 15:04:05"

// successName tags Success entries; zap has no level between INFO and WARN.
const successName = "ok"

// Logger provides leveled, optionally colored logging with optional file sink.
type Logger struct {
	mu      sync.Mutex
	z       *zap.SugaredLogger
	success *zap.SugaredLogger
	file    *os.File
}

// NewLogger configures terminal colors from cfg, writes console output to
// stderr, and optionally appends to cfg.LogFile. Call Close() when done.
func NewLogger(cfg *config.Config) (*Logger, error) {
	term.Configure(cfg.ColorMode, os.Stderr)
	return New(cfg, os.Stderr)
}

// New builds a Logger writing console output to out. Colors follow the
// current [term] state; DEBUG entries are emitted only when cfg.Verbose.
func New(cfg *config.Config, out io.Writer) (*Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Verbose {
		level = zapcore.DebugLevel
	}

	console := zapcore.Lock(zapcore.AddSync(out))
	color := term.Enabled()

	l := &Logger{}
	var file zapcore.WriteSyncer
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		l.file = f
		file = zapcore.Lock(f)
	}

	// Success entries carry [SUCCESS] in place of the level tag, so they get
	// their own cores with the level field dropped.
	tee := func(withLevel bool) zapcore.Core {
		cores := []zapcore.Core{
			zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig(color, withLevel)), console, level),
		}
		if file != nil {
			cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig(false, withLevel)), file, level))
		}
		return zapcore.NewTee(cores...)
	}

	l.z = zap.New(tee(true)).Sugar()
	l.success = zap.New(tee(false)).Named(successName).Sugar()
	return l, nil
}

func encoderConfig(color, withLevel bool) zapcore.EncoderConfig {
	levelKey := "level"
	if !withLevel {
		levelKey = zapcore.OmitKey
	}
	return zapcore.EncoderConfig{
		TimeKey:          "ts",
		LevelKey:         levelKey,
		NameKey:          "logger",
		MessageKey:       "msg",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeTime:       zapcore.TimeEncoderOfLayout(timeLayout),
		EncodeLevel:      levelEncoder(color),
		EncodeName:       nameEncoder(color),
		ConsoleSeparator: " ",
	}
}

// levelEncoder renders "[INFO]" with the level's color when color is set.
func levelEncoder(color bool) zapcore.LevelEncoder {
	return func(lvl zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		label := "[" + lvl.CapitalString() + "]"
		if color {
			label = levelColor(lvl) + label + term.NC
		}
		enc.AppendString(label)
	}
}

func nameEncoder(color bool) zapcore.NameEncoder {
	return func(name string, enc zapcore.PrimitiveArrayEncoder) {
		label := "[" + successLabel(name) + "]"
		if color {
			label = term.Green + label + term.NC
		}
		enc.AppendString(label)
	}
}

func successLabel(name string) string {
	if name == successName {
		return "SUCCESS"
	}
	return name
}

func levelColor(lvl zapcore.Level) string {
	switch lvl {
	case zapcore.DebugLevel:
		return term.Cyan
	case zapcore.InfoLevel:
		return term.Blue
	case zapcore.WarnLevel:
		return term.Yellow
	default:
		return term.Red
	}
}

// Close flushes buffered entries and closes the log file if one was opened.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	// Sync on a terminal stderr reports EINVAL on some platforms; ignore it.
	_ = l.z.Sync()
	_ = l.success.Sync()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// Info logs at INFO level (blue).
func (l *Logger) Info(format string, args ...interface{}) {
	l.z.Info(fmt.Sprintf(format, args...))
}

// Success logs at INFO level, tagged [SUCCESS] (green) instead of [INFO].
func (l *Logger) Success(format string, args ...interface{}) {
	l.success.Info(fmt.Sprintf(format, args...))
}

// Warn logs at WARN level (yellow).
func (l *Logger) Warn(format string, args ...interface{}) {
	l.z.Warn(fmt.Sprintf(format, args...))
}

// Error logs at ERROR level (red).
func (l *Logger) Error(format string, args ...interface{}) {
	l.z.Error(fmt.Sprintf(format, args...))
}

// Debug logs at DEBUG level (cyan); dropped unless the logger was built verbose.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.z.Debug(fmt.Sprintf(format, args...))
}
