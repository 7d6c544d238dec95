//go:build linux

package meta

import (
	"github.com/jamesainslie/fileprint/pkg/fileprint/types"
	"golang.org/x/sys/unix"
)

// lstat uses lstat(2) so the status-change time is available.
func lstat(path string) (*types.FileTarget, error) {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return nil, err
	}

	return &types.FileTarget{
		Path:  path,
		Kind:  kindOf(uint32(st.Mode)),
		Size:  st.Size,
		Atime: uint64(st.Atim.Sec),
		Ctime: uint64(st.Ctim.Sec),
		Mtime: uint64(st.Mtim.Sec),
	}, nil
}
