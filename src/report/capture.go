package report

import (
	"errors"
	"runtime"
)

const maxCapturedFrames = 64

// Vars holds local variable bindings recorded alongside an error. Keys are
// the variable names as they should appear in the report.
type Vars map[string]interface{}

// Frame is one activation record of a captured traversal chain: where the
// call was, plus whatever bindings were recorded for it.
type Frame struct {
	PC       uintptr
	File     string
	Line     int
	Function string

	locals Vars
}

// Location returns the source position of the frame.
func (f *Frame) Location() (file string, line int, function string) {
	return f.File, f.Line, f.Function
}

// Locals returns the bindings recorded for this frame. May be nil.
func (f *Frame) Locals() Vars {
	return f.locals
}

// Traceback is the ordered chain of frames active when a failure was
// captured. Frames are kept in call order: outermost caller first, the
// failure point last.
type Traceback struct {
	frames []*Frame
}

// Frames returns the chain in call order.
func (t *Traceback) Frames() []*Frame {
	return t.frames
}

// TracedError pairs an error with the traceback captured where it happened.
// It is the explicit side channel replacing ad hoc attribute injection on
// foreign error types.
type TracedError struct {
	Err   error
	Trace *Traceback
}

func (e *TracedError) Error() string { return e.Err.Error() }

func (e *TracedError) Unwrap() error { return e.Err }

// StoredReportError carries a pre-built report. When present anywhere in an
// error chain, report building returns the stored text verbatim and no
// extraction happens.
type StoredReportError struct {
	Err    error
	Report string
}

func (e *StoredReportError) Error() string { return e.Err.Error() }

func (e *StoredReportError) Unwrap() error { return e.Err }

// WithReport attaches a pre-built report to err. Advanced producers use this
// to override reporting entirely for one error.
func WithReport(err error, reportText string) error {
	if err == nil {
		return nil
	}
	return &StoredReportError{Err: err, Report: reportText}
}

// Capture attaches the current call stack to err together with the caller's
// local bindings. Capturing an already-traced error again, further up the
// call chain, merges the new bindings into the matching outer frame instead
// of recording a second chain.
func Capture(err error, vars Vars) error {
	return CaptureDepth(err, vars, 1)
}

// CaptureDepth is Capture with explicit control over how many caller frames
// to skip before the chain starts. Wrapping layers use it to keep their own
// frames out of the chain.
func CaptureDepth(err error, vars Vars, skip int) error {
	if err == nil {
		return nil
	}

	var traced *TracedError
	if errors.As(err, &traced) {
		mergeVars(traced.Trace, vars, skip+1)
		return err
	}

	return &TracedError{Err: err, Trace: newTraceback(skip+1, vars)}
}

// newTraceback captures the calling goroutine's stack. The innermost
// captured frame receives vars.
func newTraceback(skip int, vars Vars) *Traceback {
	pcs := make([]uintptr, maxCapturedFrames)
	n := runtime.Callers(skip+2, pcs)

	frames := runtime.CallersFrames(pcs[:n])
	chain := make([]*Frame, 0, n)
	for {
		fr, more := frames.Next()
		if fr.Function != "" {
			chain = append(chain, &Frame{
				PC:       fr.PC,
				File:     fr.File,
				Line:     fr.Line,
				Function: fr.Function,
			})
		}
		if !more {
			break
		}
	}

	// runtime.CallersFrames yields innermost first. Reverse into call order
	// so the failure point sits at the end of the chain.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}

	if len(chain) > 0 && len(vars) > 0 {
		chain[len(chain)-1].locals = vars
	}
	return &Traceback{frames: chain}
}

// mergeVars records vars against the frame of the caller identified by skip.
// The frame is matched by function name within the existing chain. When the
// chain was captured on another goroutine and no frame matches, the bindings
// are attached to a new outermost frame so they are never silently dropped.
func mergeVars(tb *Traceback, vars Vars, skip int) {
	if len(vars) == 0 {
		return
	}

	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return
	}
	function := ""
	if fn := runtime.FuncForPC(pc); fn != nil {
		function = fn.Name()
	}

	for _, fr := range tb.frames {
		if fr.Function == function && fr.File == file {
			if fr.locals == nil {
				fr.locals = Vars{}
			}
			for k, v := range vars {
				fr.locals[k] = v
			}
			return
		}
	}

	outer := &Frame{PC: pc, File: file, Line: line, Function: function, locals: vars}
	tb.frames = append([]*Frame{outer}, tb.frames...)
}
