package report

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultFrameLimit bounds how many frames a report shows when the caller
// does not ask for a specific limit.
const DefaultFrameLimit = 24

// processLimit is the process-wide traversal depth used when a caller passes
// limit 0 ("unset"). Zero means fall back to DefaultFrameLimit.
var processLimit = 0

// SetDefaultLimit installs a process-wide frame limit used by extractions
// that do not specify their own. Pass 0 to restore the built-in default.
func SetDefaultLimit(limit int) {
	processLimit = limit
}

// FormattedFrame is the render-ready view of one traceback frame.
type FormattedFrame struct {
	File       string
	Line       int
	Function   string
	SourceLine string // empty when the source is unavailable
	LocalLines []string
}

// header renders the location line every frame block starts with.
func (f *FormattedFrame) header() string {
	return fmt.Sprintf("  File %q, line %d, in %s", f.File, f.Line, f.Function)
}

// render returns the frame block: header, source line, then the sorted local
// variable lines separated from the source by one blank line.
func (f *FormattedFrame) render() []string {
	lines := []string{f.header()}
	if f.SourceLine != "" {
		lines = append(lines, "    "+f.SourceLine)
	}
	if len(f.LocalLines) > 0 {
		lines = append(lines, "")
		lines = append(lines, f.LocalLines...)
	}
	return lines
}

// extractFrames walks the chain in call order and produces the frames a rich
// report will show. Runtime bootstrap frames are dropped without consuming
// the limit. skipFrames then trims the front of the accepted sequence, which
// is how a wrapping layer hides its own call frame.
func extractFrames(tb *Traceback, limit, skipFrames int) []*FormattedFrame {
	effective := limit
	if effective == 0 {
		if processLimit > 0 {
			effective = processLimit
		} else {
			effective = DefaultFrameLimit
		}
	}

	var accepted []*FormattedFrame
	for _, fr := range tb.Frames() {
		if effective > 0 && len(accepted) >= effective {
			break
		}
		if bootstrapFrame(fr.Function) {
			continue
		}
		accepted = append(accepted, &FormattedFrame{
			File:       fr.File,
			Line:       fr.Line,
			Function:   fr.Function,
			SourceLine: sourceCache.getLine(fr.File, fr.Line),
			LocalLines: renderLocals(fr.Locals()),
		})
	}

	if skipFrames > 0 {
		if skipFrames >= len(accepted) {
			return nil
		}
		accepted = accepted[skipFrames:]
	}
	return accepted
}

// bootstrapFrame reports whether a frame belongs to the runtime's own
// bootstrap or panic machinery rather than user code.
func bootstrapFrame(function string) bool {
	if function == "" {
		return true
	}
	if strings.HasPrefix(function, "runtime.") {
		return true
	}
	return function == "testing.tRunner"
}

// renderLocals filters, sorts and formats a frame's bindings. Order is
// ascending by lowercased name so output is reproducible.
func renderLocals(locals Vars) []string {
	if len(locals) == 0 {
		return nil
	}

	names := make([]string, 0, len(locals))
	for name, value := range locals {
		if skipBinding(name, value) {
			continue
		}
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})

	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, formatBinding(name, locals[name]))
	}
	return lines
}

// plainFrames renders the chain the way the runtime itself prints a stack:
// function, then indented file:line. No locals.
func plainFrames(tb *Traceback, limit, skipFrames int) []string {
	frames := extractFrames(tb, limit, skipFrames)
	lines := make([]string, 0, len(frames)*2)
	for _, fr := range frames {
		lines = append(lines, fr.Function+"(...)")
		lines = append(lines, fmt.Sprintf("\t%s:%d", fr.File, fr.Line))
	}
	return lines
}
