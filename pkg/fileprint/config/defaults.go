// Package config provides configuration management for fileprint.
package config

// DefaultLayout is the record layout used when neither the config file nor a
// flag names one. It is a variable so release builds can pin it with
//
//	-ldflags "-X github.com/jamesainslie/fileprint/pkg/fileprint/config.DefaultLayout=v1"
var DefaultLayout = "v2"

// Default configuration values.
const (
	// DefaultOutput is the formatter name for fingerprint output.
	DefaultOutput = "record"

	// DefaultBlockSize is the read size per chunk.
	DefaultBlockSize = "128KiB"

	// DefaultConfigDir is the default configuration directory path.
	DefaultConfigDir = "~/.config/fileprint"

	// DefaultLogMaxSize is the log size that triggers rotation.
	DefaultLogMaxSize = "10MB"
)
