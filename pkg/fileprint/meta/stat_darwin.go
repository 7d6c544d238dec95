//go:build darwin

package meta

import (
	"github.com/jamesainslie/fileprint/pkg/fileprint/types"
	"golang.org/x/sys/unix"
)

// lstat uses lstat(2). On macOS the times live in the *timespec fields.
func lstat(path string) (*types.FileTarget, error) {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return nil, err
	}

	return &types.FileTarget{
		Path:  path,
		Kind:  kindOf(uint32(st.Mode)),
		Size:  st.Size,
		Atime: uint64(st.Atimespec.Sec),
		Ctime: uint64(st.Ctimespec.Sec),
		Mtime: uint64(st.Mtimespec.Sec),
	}, nil
}
