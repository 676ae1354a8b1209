// Package colorize is a pure text post-processor for finished error
// reports. It recognizes frame header lines and highlights them together
// with the line that follows and the terminal summary line. Everything else
// passes through unchanged.
package colorize

import (
	"regexp"
	"strings"

	"github.com/fatih/color"
)

var headerPattern = regexp.MustCompile(`^( *File ")([^"]*\.go)(", line )([0-9]+)(, in )(.*)$`)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

var (
	pathColor    = forced(color.New(color.Bold, color.BgGreen))
	numberColor  = forced(color.New(color.Bold, color.FgYellow))
	summaryColor = forced(color.New(color.Bold, color.FgRed))
)

// forced keeps the transform deterministic: whether colors are applied at
// all is the caller's decision via Enabled, not the terminal's.
func forced(c *color.Color) *color.Color {
	c.EnableColor()
	return c
}

// Enabled reports whether colored output makes sense in the current
// environment.
func Enabled() bool {
	return !color.NoColor
}

// Inject colorizes an error report. Stripping the result with Strip
// reproduces the input exactly.
func Inject(errorReport string) string {
	lines := strings.Split(errorReport, "\n")

	previousWasHeader := false
	for i, line := range lines {
		match := headerPattern.FindStringSubmatch(line)

		switch {
		case match != nil:
			lines[i] = match[1] + pathColor.Sprint(match[2]) + match[3] +
				numberColor.Sprint(match[4]) + match[5] + numberColor.Sprint(match[6])
			previousWasHeader = true

		case i == len(lines)-1 && line != "":
			lines[i] = summaryColor.Sprint(line)

		case previousWasHeader:
			if line != "" {
				lines[i] = summaryColor.Sprint(line)
			}
			previousWasHeader = false
		}
	}
	return strings.Join(lines, "\n")
}

// Strip removes all ANSI color sequences.
func Strip(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}
