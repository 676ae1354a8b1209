// Package catcher funnels caught errors and recovered panics into enhanced
// error reports and hands the finished text to a log sink, one line at a
// time.
//
// It supports three invocation shapes, mirrored on how exception handlers
// are attached in other runtimes:
//
//  1. Direct call on an error already in hand:
//     c.Handle(err)
//
//  2. Wrapping a function (decorator style):
//     run := c.Wrap(riskyFunc)
//     run()
//
//  3. Deferred panic recovery (context-manager style):
//     defer c.Recover(&err)
package catcher

import (
	"fmt"
	"strings"

	logger "github.com/sirupsen/logrus"

	"prettytrace/src/colorize"
	"prettytrace/src/report"
)

// Mode tags the invocation shape an error arrived through. It is resolved
// once per entrypoint and drives the skip-frame dispatch table instead of
// shape checks scattered through call sites.
type Mode int

const (
	ModeCall Mode = iota
	ModeWrap
	ModeRecover
)

func (m Mode) String() string {
	switch m {
	case ModeCall:
		return "call"
	case ModeWrap:
		return "function_wrap"
	case ModeRecover:
		return "recover"
	}
	return "unknown"
}

// LogFunc receives one line of report text at a time, in order.
type LogFunc func(line string)

// ReportHandler receives the finished plain report once per handled error.
// Mailers, webhook notifiers and repositories register through this.
type ReportHandler func(err error, reportText string)

// PanicError wraps a recovered non-error panic value so it can travel as an
// error and name itself in report summaries.
type PanicError struct {
	Value interface{}
}

func (e *PanicError) Error() string { return fmt.Sprint(e.Value) }

// Catcher builds and dispatches error reports.
type Catcher struct {
	config   Config
	logFunc  LogFunc
	handlers []ReportHandler
}

// New returns a Catcher logging through logrus at error level. The config
// controls frame limits, skip policy, rich mode, colors and re-raise
// behavior.
func New(config Config) *Catcher {
	return &Catcher{
		config:  config,
		logFunc: func(line string) { logger.Error(line) },
	}
}

// SetLogFunc replaces the default logrus sink.
func (c *Catcher) SetLogFunc(fn LogFunc) {
	if fn != nil {
		c.logFunc = fn
	}
}

// AddHandler registers a downstream consumer of finished reports. Handlers
// run after the report has been logged; a failing handler never suppresses
// the already-logged report.
func (c *Catcher) AddHandler(h ReportHandler) {
	c.handlers = append(c.handlers, h)
}

// Handle reports an error that was already caught at the call site. Returns
// the original, unmodified error when the Raises flag is set, nil otherwise,
// so callers can re-propagate safely.
func (c *Catcher) Handle(err error) error {
	if err == nil {
		return nil
	}
	// Capture here so an untraced error is reported from the caller's
	// stack, not from the reporting machinery. The original err stays
	// untouched for re-raising.
	c.handleException(ModeCall, report.CaptureDepth(err, nil, 1))
	if c.config.Raises {
		return err
	}
	return nil
}

// Wrap decorates fn so any error it returns is reported. With Raises set the
// error still propagates to the caller after reporting.
func (c *Catcher) Wrap(fn func() error) func() error {
	return func() error {
		err := fn()
		if err == nil {
			return nil
		}
		c.handleException(ModeWrap, report.CaptureDepth(err, nil, 1))
		if c.config.Raises {
			return err
		}
		return nil
	}
}

// Recover reports a recovered panic, stores the resulting error in errp when
// non-nil, and re-panics when Raises is set. It must be deferred directly
// ("defer c.Recover(&err)"), otherwise the runtime will not hand it the
// panic value.
func (c *Catcher) Recover(errp *error) {
	r := recover()
	if r == nil {
		return
	}

	err, ok := r.(error)
	if !ok {
		err = &PanicError{Value: r}
	}
	err = report.CaptureDepth(err, nil, 1)

	c.handleException(ModeRecover, err)

	if c.config.Raises {
		panic(r)
	}
	if errp != nil {
		*errp = err
	}
}

// skipForMode is the dispatch table deciding how many leading frames each
// invocation shape hides. Wrapping layers hide their own call frame; the
// count is policy, not a guarantee that it always matches the real depth.
func (c *Catcher) skipForMode(mode Mode) int {
	skip := c.config.SkipFrames
	if mode == ModeWrap {
		skip += c.config.WrapSkipFrames
	}
	return skip
}

// handleException builds the report and dispatches it. A failure inside
// report generation is contained here so the original error is never
// silently lost.
func (c *Catcher) handleException(mode Mode, err error) {
	errorMessage := report.Summary(err)

	defer func() {
		if r := recover(); r != nil {
			c.logFunc("Error generating error report.")
			c.logFunc(fmt.Sprintf("%s: %v [%s]", report.TypeName(r), r, errorMessage))
		}
	}()

	opts := report.Options{
		Limit:      c.config.Limit,
		RichMode:   c.config.Rich,
		SkipFrames: c.skipForMode(mode),
	}
	reportText := report.BuildReport(err, opts)
	c.dispatchReport(err, reportText)
}

// dispatchReport colorizes when enabled, logs line by line, then feeds the
// plain text to registered handlers.
func (c *Catcher) dispatchReport(err error, reportText string) {
	logged := reportText
	if c.config.Colors && colorize.Enabled() {
		logged = colorize.Inject(logged)
	}
	for _, line := range strings.Split(logged, "\n") {
		c.logFunc(line)
	}

	for _, h := range c.handlers {
		c.runHandler(h, err, reportText)
	}
}

// runHandler isolates handler failures from the report that was already
// logged.
func (c *Catcher) runHandler(h ReportHandler, err error, reportText string) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithField("panic", fmt.Sprint(r)).Error("report handler failed")
		}
	}()
	h(err, reportText)
}
