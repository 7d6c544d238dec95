//go:build !darwin && !linux

package meta

import (
	"os"

	"github.com/jamesainslie/fileprint/pkg/fileprint/types"
)

// lstat falls back to os.Lstat. Access and status-change times are not
// portable here, so all three times report the modification time.
func lstat(path string) (*types.FileTarget, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return nil, err
	}

	kind := types.KindOther
	switch {
	case info.Mode().IsRegular():
		kind = types.KindRegular
	case info.IsDir():
		kind = types.KindDirectory
	case info.Mode()&os.ModeSymlink != 0:
		kind = types.KindSymlink
	}

	mtime := uint64(info.ModTime().Unix())
	return &types.FileTarget{
		Path:  path,
		Kind:  kind,
		Size:  info.Size(),
		Atime: mtime,
		Ctime: mtime,
		Mtime: mtime,
	}, nil
}
