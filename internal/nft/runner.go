package nft

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"
)

// Process describes one invocation of an external program.
type Process struct {
	Program string
	Args    []string
	Dir     string

	// Stdin is written to the process and then closed. A nil Stdin leaves
	// the process without input.
	Stdin []byte

	// OnState, when set, is called as the process moves through its
	// lifecycle. It is never called with Idle, Succeeded or Failed; those
	// belong to the caller.
	OnState func(State)
}

func (p Process) report(s State) {
	if p.OnState != nil {
		p.OnState(s)
	}
}

// Output is what a finished process left behind.
type Output struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// CommandRunner starts a process and waits for it.
//
// A non-zero exit is not an error at this level: Run returns the Output with
// ExitCode set and a nil error. Errors are reserved for failures to start,
// feed or wait for the process, and are returned as *SpawnError.
type CommandRunner interface {
	Run(ctx context.Context, p Process) (Output, error)
}

// waitDelay bounds how long Wait keeps draining pipes held open by
// grandchildren after the process is gone.
const waitDelay = 2 * time.Second

// RealCommandRunner runs processes with os/exec.
type RealCommandRunner struct{}

// DefaultCommandRunner is used by clients that were not given a runner.
var DefaultCommandRunner CommandRunner = &RealCommandRunner{}

// Run implements CommandRunner.
func (r *RealCommandRunner) Run(ctx context.Context, p Process) (Output, error) {
	cmd := exec.CommandContext(ctx, p.Program, p.Args...)
	cmd.Dir = p.Dir
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	var stdin interface {
		Write([]byte) (int, error)
		Close() error
	}
	if p.Stdin != nil {
		w, err := cmd.StdinPipe()
		if err != nil {
			return Output{}, &SpawnError{Program: p.Program, Op: "open stdin", Err: err}
		}
		stdin = w
	}

	if err := cmd.Start(); err != nil {
		if stdin != nil {
			_ = stdin.Close()
		}
		return Output{}, &SpawnError{Program: p.Program, Op: "start", Err: err}
	}
	p.report(StateSpawned)

	// A process that exits without draining stdin makes the write fail with
	// EPIPE. The exit status is the better diagnostic, so the write error
	// only surfaces when the process claims success.
	var writeErr error
	if stdin != nil {
		p.report(StateWritingInput)
		_, writeErr = stdin.Write(p.Stdin)
		if cerr := stdin.Close(); writeErr == nil {
			writeErr = cerr
		}
	}

	p.report(StateAwaitingExit)
	waitErr := cmd.Wait()

	out := Output{Stdout: stdout.Bytes(), Stderr: stderr.Bytes(), ExitCode: -1}
	if cmd.ProcessState != nil {
		out.ExitCode = cmd.ProcessState.ExitCode()
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return out, &SpawnError{Program: p.Program, Op: "wait", Err: ctxErr}
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return out, &SpawnError{Program: p.Program, Op: "wait", Err: waitErr}
		}
	}
	if writeErr != nil && out.ExitCode == 0 {
		return out, &SpawnError{Program: p.Program, Op: "write stdin", Err: writeErr}
	}
	return out, nil
}
