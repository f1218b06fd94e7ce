// Package tty provides small helpers for detecting whether standard
// streams are attached to an interactive terminal, used to decide when to
// emit ANSI color.
package tty

import (
	"os"

	"github.com/mattn/go-isatty"
)

// IsStdoutTerminal reports whether stdout is attached to a terminal.
func IsStdoutTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// IsStderrTerminal reports whether stderr is attached to a terminal.
func IsStderrTerminal() bool {
	return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
}
