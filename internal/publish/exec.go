// Package publish runs the collaborators that take over once the scene
// document is written: the runtime compiler, the HTML page, the preview
// app and live-reload notification.
package publish

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Runner launches external programs.
type Runner interface {
	// Run runs a program to completion.
	Run(ctx context.Context, name string, args ...string) error

	// Start launches a program without waiting for it.
	Start(ctx context.Context, name string, args ...string) error
}

// ExecRunner runs programs with os/exec.
type ExecRunner struct{}

// ProcessError reports a program that could not be run or exited
// unsuccessfully.
type ProcessError struct {
	Program string
	Output  string
	Err     error
}

// Error implements the error interface.
func (e *ProcessError) Error() string {
	if out := strings.TrimSpace(e.Output); out != "" {
		return fmt.Sprintf("%s: %v: %s", e.Program, e.Err, out)
	}
	return fmt.Sprintf("%s: %v", e.Program, e.Err)
}

// Unwrap returns the underlying error.
func (e *ProcessError) Unwrap() error { return e.Err }

// Run implements Runner. Combined output is attached to the error.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return &ProcessError{Program: name, Output: out.String(), Err: err}
	}
	return nil
}

// Start implements Runner. The process is released once started.
func (ExecRunner) Start(_ context.Context, name string, args ...string) error {
	// not CommandContext: the preview outlives the export
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return &ProcessError{Program: name, Err: err}
	}
	return cmd.Process.Release()
}
