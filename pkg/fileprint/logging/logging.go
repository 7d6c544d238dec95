// Package logging provides component loggers for fileprint backed by
// charmbracelet/log, writing to a rotating log file and optionally to stderr.
//
// Standard output carries fingerprint records only, so console logging is
// always routed to stderr.
//
// Basic usage:
//
//	if err := logging.Init(logging.Config{Level: "info"}); err != nil {
//	    return err
//	}
//	defer logging.Close()
//
//	logger := logging.Get("engine")
//	logger.Info("digest complete", "path", path)
package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
)

// ErrInvalidLevel is returned for a level name ParseLevel does not know.
var ErrInvalidLevel = errors.New("invalid log level")

var levelNames = map[string]log.Level{
	"debug":   log.DebugLevel,
	"info":    log.InfoLevel,
	"warn":    log.WarnLevel,
	"warning": log.WarnLevel,
	"error":   log.ErrorLevel,
}

// ParseLevel maps debug, info, warn (or warning) and error, in any case, to
// a charmbracelet/log level.
func ParseLevel(s string) (log.Level, error) {
	if lvl, ok := levelNames[strings.ToLower(s)]; ok {
		return lvl, nil
	}
	return log.InfoLevel, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
}

// Config configures the logging system.
type Config struct {
	// Level is the default log level (debug, info, warn, error).
	Level string

	// Path is the log file path. Empty uses DefaultLogPath().
	Path string

	// Rotation configures log file rotation.
	Rotation RotationConfig

	// Components maps component names to their log levels.
	Components map[string]string

	// ConsoleLevel enables stderr output at the given level.
	// Empty disables console output.
	ConsoleLevel string

	// Fields are attached to every logger, e.g. a run id.
	Fields []interface{}
}

// Logger is a named component logger. It looks up its output on every call,
// so package-level loggers taken before Init start writing once Init runs.
type Logger struct {
	component string
	fields    []interface{}
}

// Get returns the logger for component.
func Get(component string) *Logger {
	return &Logger{component: component}
}

// With returns a logger that adds keyvals to every message.
func (l *Logger) With(keyvals ...interface{}) *Logger {
	fields := make([]interface{}, 0, len(l.fields)+len(keyvals))
	fields = append(fields, l.fields...)
	fields = append(fields, keyvals...)
	return &Logger{component: l.component, fields: fields}
}

func (l *Logger) Debug(msg string, keyvals ...interface{}) { l.emit(log.DebugLevel, msg, keyvals) }
func (l *Logger) Info(msg string, keyvals ...interface{}) { l.emit(log.InfoLevel, msg, keyvals) }
func (l *Logger) Warn(msg string, keyvals ...interface{}) { l.emit(log.WarnLevel, msg, keyvals) }
func (l *Logger) Error(msg string, keyvals ...interface{}) { l.emit(log.ErrorLevel, msg, keyvals) }

func (l *Logger) emit(level log.Level, msg string, keyvals []interface{}) {
	outs := active.outputs(l.component)
	if len(outs) == 0 {
		return
	}
	if len(l.fields) > 0 {
		keyvals = append(append([]interface{}{}, l.fields...), keyvals...)
	}
	for _, out := range outs {
		out.Log(level, msg, keyvals...)
	}
}

// registry holds the configuration installed by Init and the
// charmbracelet loggers built from it, one set per component.
type registry struct {
	mu     sync.RWMutex
	writer *RotatingWriter
	cfg    resolved
	built  map[string][]*log.Logger

	console io.Writer
}

type resolved struct {
	level      log.Level
	components map[string]log.Level
	console    bool
	consoleLvl log.Level
	fields     []interface{}
}

var active = &registry{console: os.Stderr}

// outputs returns the loggers for component, building them on first use.
// Nothing is returned before Init.
func (r *registry) outputs(component string) []*log.Logger {
	r.mu.RLock()
	if r.writer == nil {
		r.mu.RUnlock()
		return nil
	}
	outs, ok := r.built[component]
	r.mu.RUnlock()
	if ok {
		return outs
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.writer == nil {
		return nil
	}
	if outs, ok := r.built[component]; ok {
		return outs
	}

	level := r.cfg.level
	if lvl, ok := r.cfg.components[component]; ok {
		level = lvl
	}

	file := log.NewWithOptions(r.writer, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          component,
	})
	if len(r.cfg.fields) > 0 {
		file = file.With(r.cfg.fields...)
	}
	outs = []*log.Logger{file}

	if r.cfg.console {
		outs = append(outs, log.NewWithOptions(r.console, log.Options{
			Level:           r.cfg.consoleLvl,
			ReportTimestamp: true,
			TimeFormat:      "15:04:05",
			Prefix:          component,
		}))
	}

	r.built[component] = outs
	return outs
}

func resolve(cfg Config) (resolved, error) {
	var out resolved

	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return out, fmt.Errorf("parsing log level: %w", err)
	}
	out.level = level

	out.components = make(map[string]log.Level, len(cfg.Components))
	for comp, name := range cfg.Components {
		lvl, err := ParseLevel(name)
		if err != nil {
			return out, fmt.Errorf("parsing level for component %s: %w", comp, err)
		}
		out.components[comp] = lvl
	}

	if cfg.ConsoleLevel != "" {
		lvl, err := ParseLevel(cfg.ConsoleLevel)
		if err != nil {
			return out, fmt.Errorf("parsing console level: %w", err)
		}
		out.console, out.consoleLvl = true, lvl
	}

	out.fields = cfg.Fields
	return out, nil
}

// Init opens the log file and installs cfg. Calling Init again replaces the
// previous configuration. Before Init, all loggers discard.
func Init(cfg Config) error {
	settings, err := resolve(cfg)
	if err != nil {
		return err
	}

	path := cfg.Path
	if path == "" {
		path = DefaultLogPath()
	}
	writer, err := NewRotatingWriter(path, cfg.Rotation)
	if err != nil {
		return fmt.Errorf("creating log writer: %w", err)
	}

	active.mu.Lock()
	prev := active.writer
	active.writer = writer
	active.cfg = settings
	active.built = make(map[string][]*log.Logger)
	active.mu.Unlock()

	if prev != nil {
		if err := prev.Close(); err != nil {
			return fmt.Errorf("closing previous writer: %w", err)
		}
	}
	return nil
}

// Close flushes and closes the log file. Loggers discard until the next
// Init.
func Close() error {
	active.mu.Lock()
	writer := active.writer
	active.writer = nil
	active.built = nil
	active.mu.Unlock()

	if writer == nil {
		return nil
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("closing log writer: %w", err)
	}
	return nil
}

// DefaultLogPath returns $XDG_STATE_HOME/fileprint/fileprint.log.
func DefaultLogPath() string {
	return filepath.Join(xdg.StateHome, "fileprint", "fileprint.log")
}
