// Package clicolor decides whether CLI output should be colorized:
// only when stdout is a terminal and NO_COLOR is unset.
package clicolor

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
)

// Enabled reports whether ANSI color codes should be emitted on
// stdout.
func Enabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

const (
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	reset  = "\033[0m"
)

func paint(code, s string) string {
	if !Enabled() {
		return s
	}
	return code + s + reset
}

// Red, Green and Yellow wrap s in ANSI color codes when Enabled.
func Red(s string) string    { return paint(red, s) }
func Green(s string) string  { return paint(green, s) }
func Yellow(s string) string { return paint(yellow, s) }

// Errorf formats like fmt.Sprintf, colored red when Enabled.
func Errorf(format string, args ...interface{}) string {
	return Red(fmt.Sprintf(format, args...))
}
