package report

import (
	"errors"
	"strings"
)

// Options controls how a report is built. The zero value means plain mode
// with the process-wide frame limit; callers normally start from
// DefaultOptions.
type Options struct {
	Limit      int  // 0 falls back to the process-wide default, negative is unbounded
	RichMode   bool // include per-frame local variables
	SkipFrames int  // frames trimmed from the front of the extraction
}

// DefaultOptions returns the options used when a caller has no opinion:
// rich mode, default limit, nothing skipped.
func DefaultOptions() Options {
	return Options{RichMode: true}
}

// BuildReport produces the final report text for err. An error carrying a
// stored report short-circuits extraction and is returned verbatim. An error
// carrying a captured traceback is reported from that chain; anything else
// is reported from the current call stack.
func BuildReport(err error, opts Options) string {
	if err == nil {
		return ""
	}

	var stored *StoredReportError
	if errors.As(err, &stored) {
		return stored.Report
	}

	return strings.Join(buildLines(err, opts, 1), "\n")
}

// BuildReportLines is BuildReport in as-list form: one string per report
// line, trailing whitespace stripped.
func BuildReportLines(err error, opts Options) []string {
	if err == nil {
		return nil
	}

	var stored *StoredReportError
	if errors.As(err, &stored) {
		return strings.Split(stored.Report, "\n")
	}

	lines := buildLines(err, opts, 1)
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return lines
}

// Summary renders the terminal "<TypeName>: <message>" line for err.
func Summary(err error) string {
	base := baseError(err)
	return TypeName(base) + ": " + base.Error()
}

func buildLines(err error, opts Options, skip int) []string {
	tb := tracebackFor(err, skip+1)

	var lines []string
	if opts.RichMode {
		for _, fr := range extractFrames(tb, opts.Limit, opts.SkipFrames) {
			lines = append(lines, fr.render()...)
			lines = append(lines, "")
		}
	} else {
		lines = append(lines, plainFrames(tb, opts.Limit, opts.SkipFrames)...)
		lines = append(lines, "")
	}

	return append(lines, Summary(err))
}

// tracebackFor prefers the chain embedded in the error, which is the one
// captured where the failure actually happened. Errors handled far from the
// failure site still report correctly because of this.
func tracebackFor(err error, skip int) *Traceback {
	var traced *TracedError
	if errors.As(err, &traced) {
		return traced.Trace
	}
	return newTraceback(skip+1, nil)
}

// baseError strips this package's own wrappers so summaries name the real
// failure type, not the reporting machinery.
func baseError(err error) error {
	for {
		switch e := err.(type) {
		case *TracedError:
			err = e.Err
		case *StoredReportError:
			err = e.Err
		default:
			return err
		}
	}
}
