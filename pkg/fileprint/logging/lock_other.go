//go:build !unix

package logging

// lock is a no-op where flock is unavailable; the in-process mutex still
// serializes writers within one process.
func (w *RotatingWriter) lock() error { return nil }

func (w *RotatingWriter) unlock() {}
