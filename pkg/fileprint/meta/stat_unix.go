//go:build linux || darwin

package meta

import (
	"github.com/jamesainslie/fileprint/pkg/fileprint/types"
	"golang.org/x/sys/unix"
)

// kindOf classifies the file type bits of a raw st_mode.
func kindOf(mode uint32) types.Kind {
	switch mode & unix.S_IFMT {
	case unix.S_IFREG:
		return types.KindRegular
	case unix.S_IFDIR:
		return types.KindDirectory
	case unix.S_IFLNK:
		return types.KindSymlink
	default:
		return types.KindOther
	}
}
