// Package demo raises a three-level failure with local variables at every
// level and prints the resulting report, colorized when the terminal
// supports it.
package demo

import (
	"fmt"

	"prettytrace/src/catcher"
	"prettytrace/src/report"
)

// DivisionError mirrors the classic division-by-zero demo failure.
type DivisionError struct{}

func (e *DivisionError) Error() string { return "division by zero" }

// Run executes the demo chain through a wrapping catcher, printing the
// report to stdout.
func Run() {
	c := catcher.New(catcher.GetConfig())
	c.SetLogFunc(func(line string) { fmt.Println(line) })

	run := c.Wrap(funcA)
	_ = run()
}

func funcA() error {
	a := 1
	if err := funcB(); err != nil {
		return report.Capture(err, report.Vars{"a": a})
	}
	return nil
}

func funcB() error {
	b := "two"
	if err := funcC(); err != nil {
		return report.Capture(err, report.Vars{"b": b})
	}
	return nil
}

func funcC() error {
	c := []int{3}
	divisor := 0
	if divisor == 0 {
		return report.Capture(&DivisionError{}, report.Vars{"c": c, "divisor": divisor})
	}
	return nil
}
