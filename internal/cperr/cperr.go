// Package cperr defines the error taxonomy shared across the build
// orchestrator: Config, Directive, Graph, Source, Compile, Link and
// Archive errors. Each kind is a distinct type, so callers can recover
// it with errors.As; the CLI itself prints every error the same way and
// exits with status 1. Error messages that wrap a cause are formatted
// with golang.org/x/xerrors.
package cperr

import (
	"fmt"

	"golang.org/x/xerrors"
)

// Config reports a malformed, unreadable, or incomplete project
// configuration.
type Config struct {
	Msg string
	Err error
}

func (e *Config) Error() string {
	if e.Err != nil {
		return xerrors.Errorf("config: %s: %w", e.Msg, e.Err).Error()
	}
	return fmt.Sprintf("config: %s", e.Msg)
}

func (e *Config) Unwrap() error { return e.Err }

// Directive reports an unrecognized build-directive type. Non-fatal by
// convention: callers collect these as warnings rather than aborting.
type Directive struct {
	File string
	Msg  string
}

func (e *Directive) Error() string {
	return fmt.Sprintf("directive: %s: %s", e.File, e.Msg)
}

// Graph reports a duplicate node id or a cycle. Unresolved dependencies
// never produce a Graph error; the planner records them in
// Graph.Unresolved and planning continues.
type Graph struct {
	Msg string
	Err error
}

func (e *Graph) Error() string {
	if e.Err != nil {
		return xerrors.Errorf("graph: %s: %w", e.Msg, e.Err).Error()
	}
	return fmt.Sprintf("graph: %s", e.Msg)
}

func (e *Graph) Unwrap() error { return e.Err }

// Source reports a missing source directory or an unreadable source
// file.
type Source struct {
	Path string
	Err  error
}

func (e *Source) Error() string {
	return xerrors.Errorf("source: %s: %w", e.Path, e.Err).Error()
}

func (e *Source) Unwrap() error { return e.Err }

// Subprocess is the shared shape of Compile, Link and Archive errors: a
// non-zero exit from a child process, carrying the exact command line
// and captured output so the caller can surface it verbatim.
type Subprocess struct {
	Kind     string // "compile", "link", or "archive"
	Command  []string
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error
}

func (e *Subprocess) Error() string {
	return fmt.Sprintf("%s failed (exit %d): %s\n%s%s", e.Kind, e.ExitCode, cmdString(e.Command), e.Stdout, e.Stderr)
}

func (e *Subprocess) Unwrap() error { return e.Err }

func cmdString(cmd []string) string {
	s := ""
	for i, c := range cmd {
		if i > 0 {
			s += " "
		}
		s += c
	}
	return s
}

// Compile constructs a Subprocess error for a failed compile step.
func Compile(cmd []string, stdout, stderr string, exitCode int, err error) error {
	return &Subprocess{Kind: "compile", Command: cmd, Stdout: stdout, Stderr: stderr, ExitCode: exitCode, Err: err}
}

// Link constructs a Subprocess error for a failed link step.
func Link(cmd []string, stdout, stderr string, exitCode int, err error) error {
	return &Subprocess{Kind: "link", Command: cmd, Stdout: stdout, Stderr: stderr, ExitCode: exitCode, Err: err}
}

// Archive constructs a Subprocess error for a failed archiver invocation.
func Archive(cmd []string, stdout, stderr string, exitCode int, err error) error {
	return &Subprocess{Kind: "archive", Command: cmd, Stdout: stdout, Stderr: stderr, ExitCode: exitCode, Err: err}
}
