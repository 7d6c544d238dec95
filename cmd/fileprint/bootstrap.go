package main

import (
	"os"

	"github.com/google/uuid"
	"github.com/jamesainslie/fileprint/pkg/fileprint/config"
	"github.com/jamesainslie/fileprint/pkg/fileprint/logging"
	"github.com/jamesainslie/fileprint/pkg/fileprint/types"
	"github.com/spf13/cobra"
)

// runID tags every log line written by this process.
var runID = uuid.NewString()

// initializeLogging starts file logging from the loaded configuration. It
// is a no-op unless logging.path is set or --verbose is on, so a plain run
// writes nothing to disk. With --verbose, debug output is mirrored to stderr
// and an unset logging.path falls back to the state directory.
func initializeLogging(cmd *cobra.Command, args []string) error {
	c := cfg
	if c == nil {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		c = loaded
	}

	if c.Logging.Path == "" && !getVerbose() {
		return nil
	}

	logCfg := logging.Config{
		Level:      c.Logging.Level,
		Path:       c.Logging.Path,
		Rotation:   parseRotationConfig(c.Logging.Rotation),
		Components: c.Logging.Components,
		Fields:     []interface{}{"run", runID},
	}
	if logCfg.Path != "" {
		expanded, err := config.ExpandPath(logCfg.Path)
		if err != nil {
			return err
		}
		logCfg.Path = expanded
	}
	if getVerbose() {
		logCfg.ConsoleLevel = "debug"
		if logCfg.Path == "" {
			if err := os.MkdirAll(config.StateDir(), 0o755); err != nil {
				return err
			}
		}
	}

	if err := logging.Init(logCfg); err != nil {
		return err
	}

	if cmd != nil {
		logging.Get("cli").Debug("command started", "command", cmd.CommandPath(), "args", args)
	}
	return nil
}

// closeLogging flushes the log file.
func closeLogging() {
	_ = logging.Close()
}

// parseRotationConfig converts the config file form to the logging form.
// An empty or invalid max_size falls back to the default.
func parseRotationConfig(rc config.RotationConfig) logging.RotationConfig {
	maxSize, err := types.ParseSize(rc.MaxSize)
	if err != nil || maxSize <= 0 {
		maxSize, _ = types.ParseSize(config.DefaultLogMaxSize)
	}

	return logging.RotationConfig{
		MaxSize:    maxSize,
		MaxAge:     rc.MaxAge,
		MaxBackups: rc.MaxBackups,
		Daily:      rc.Daily,
	}
}
