// Package types provides core data types for the fileprint fingerprinter.
// It includes the file target produced by the metadata collector, the census
// counters produced by the engine, and helpers for parsing and formatting
// byte sizes.
package types

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// Size constants for binary (IEC) units.
const (
	KiB int64 = 1024
	MiB int64 = 1024 * KiB
	GiB int64 = 1024 * MiB
	TiB int64 = 1024 * GiB
)

// Kind classifies what a path resolves to.
type Kind int

// Kinds a path can resolve to. Device nodes, fifos and sockets are
// KindOther.
const (
	KindOther Kind = iota
	KindRegular
	KindDirectory
	KindSymlink
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindRegular:
		return "regular"
	case KindDirectory:
		return "directory"
	case KindSymlink:
		return "symlink"
	default:
		return "other"
	}
}

// FileTarget is a path plus its resolved kind and timestamps.
// Times are whole seconds since the Unix epoch.
type FileTarget struct {
	// Path is the path exactly as the caller supplied it.
	Path string `json:"path"`

	// Kind is what the path resolved to without following symlinks.
	Kind Kind `json:"kind"`

	// Size is the size reported by the status query.
	Size int64 `json:"size"`

	// Atime is the last-access time.
	Atime uint64 `json:"atime"`

	// Ctime is the last status-change time.
	Ctime uint64 `json:"ctime"`

	// Mtime is the last-modify time.
	Mtime uint64 `json:"mtime"`
}

// IsRegular reports whether the target is a regular file.
func (t *FileTarget) IsRegular() bool {
	return t.Kind == KindRegular
}

// HasContent reports whether the target is fingerprinted: a regular file,
// or a symlink whose content is read through the link.
func (t *FileTarget) HasContent() bool {
	return t.Kind == KindRegular || t.Kind == KindSymlink
}

// Census holds the three content-derived counters.
type Census struct {
	// BinaryBytes counts bytes that are neither printable nor whitespace.
	BinaryBytes uint64 `json:"binary_bytes"`

	// Lines counts 0x0A bytes.
	Lines uint64 `json:"lines"`

	// Bytes counts every byte read.
	Bytes uint64 `json:"bytes"`
}

// sizePattern matches size strings like "100M", "2G", "500K", "1.5GB", etc.
var sizePattern = regexp.MustCompile(`(?i)^\s*([0-9]+(?:\.[0-9]+)?)\s*([KMGT]?(?:i?B)?)\s*$`)

// ErrInvalidSize indicates that the size string could not be parsed.
var ErrInvalidSize = errors.New("invalid size format")

// ErrNegativeSize indicates that a negative size value was provided.
var ErrNegativeSize = errors.New("size cannot be negative")

// ParseSize parses a human-readable size string and returns the size in bytes.
// It supports plain bytes ("1024") and K, M, G, T suffixes with optional
// "B" or "iB" ("128K", "128KiB", "10MB"). All units are binary.
//
// Returns ErrInvalidSize if the format is not recognized.
// Returns ErrNegativeSize if the value is negative.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty string", ErrInvalidSize)
	}

	if strings.HasPrefix(s, "-") {
		return 0, ErrNegativeSize
	}

	matches := sizePattern.FindStringSubmatch(s)
	if matches == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	value, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	suffix := strings.ToUpper(matches[2])
	suffix = strings.TrimSuffix(suffix, "IB")
	suffix = strings.TrimSuffix(suffix, "B")

	var multiplier int64
	switch suffix {
	case "":
		multiplier = 1
	case "K":
		multiplier = KiB
	case "M":
		multiplier = MiB
	case "G":
		multiplier = GiB
	case "T":
		multiplier = TiB
	default:
		return 0, fmt.Errorf("%w: unknown suffix %q", ErrInvalidSize, suffix)
	}

	return int64(value * float64(multiplier)), nil
}

// FormatSize converts a size in bytes to a human-readable string using
// binary (IEC) units, e.g. FormatSize(1024) returns "1.0 KiB".
func FormatSize(bytes uint64) string {
	return humanize.IBytes(bytes)
}
