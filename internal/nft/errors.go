package nft

import (
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"strings"
)

// ErrProgramNotFound matches a SpawnError whose program does not exist.
var ErrProgramNotFound = errors.New("program not found")

// SpawnError is returned when a process could not be started, fed or
// reaped.
type SpawnError struct {
	Program string
	Op      string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Program, e.Op, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// Is reports ErrProgramNotFound for lookup and exec failures on a missing
// binary.
func (e *SpawnError) Is(target error) bool {
	if target != ErrProgramNotFound || e.Op != "start" {
		return false
	}
	return errors.Is(e.Err, exec.ErrNotFound) || errors.Is(e.Err, fs.ErrNotExist)
}

// ProcessFailedError is returned when nft exits with a non-zero status.
// Stdout and Stderr are kept verbatim.
type ProcessFailedError struct {
	Program  string
	Args     []string
	Hint     string
	ExitCode int
	Stdout   string
	Stderr   string
}

func (e *ProcessFailedError) Error() string {
	msg := fmt.Sprintf("%s failed while %s: exit status %d", e.Program, e.Hint, e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

// OutputEncodingError is returned when list output is not valid UTF-8.
type OutputEncodingError struct {
	Program string
	Stream  string
}

func (e *OutputEncodingError) Error() string {
	return fmt.Sprintf("%s: %s is not valid UTF-8", e.Program, e.Stream)
}
