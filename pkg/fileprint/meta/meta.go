// Package meta resolves a path's kind and timestamps with a status query
// that does not open or read the file.
package meta

import (
	"errors"
	"fmt"

	"github.com/jamesainslie/fileprint/pkg/fileprint/logging"
	"github.com/jamesainslie/fileprint/pkg/fileprint/types"
)

var logger = logging.Get("meta")

// ErrStat is returned when the path cannot be resolved.
var ErrStat = errors.New("could not stat file")

// ErrEmptyPath is returned when Collect is called without a path.
var ErrEmptyPath = errors.New("path cannot be empty")

// Collect queries the metadata of path without following a final symlink.
// A symlink reports its own times, not its target's.
func Collect(path string) (*types.FileTarget, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	target, err := lstat(path)
	if err != nil {
		logger.Debug("stat failed", "path", path, "err", err)
		return nil, fmt.Errorf("%w: %w", ErrStat, err)
	}

	logger.Debug("collected metadata",
		"path", path,
		"kind", target.Kind,
		"atime", target.Atime,
		"ctime", target.Ctime,
		"mtime", target.Mtime)

	return target, nil
}
