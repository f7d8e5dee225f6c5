// Package filelock holds an advisory lock next to a state file for as long
// as a store keeps it open.
package filelock

import "errors"

// ErrLocked means another process holds the state.
var ErrLocked = errors.New("state file is in use by another combo process")

// Path is the lock file kept beside path.
func Path(path string) string { return path + ".lock" }
