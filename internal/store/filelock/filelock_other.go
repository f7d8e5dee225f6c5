//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package filelock

import (
	"fmt"
	"os"
)

// No advisory locking here; the lock file only marks the state as open.
func Acquire(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}
	return f, nil
}

// Release closes f. A nil f is a no-op.
func Release(f *os.File) error {
	if f == nil {
		return nil
	}
	return f.Close()
}
