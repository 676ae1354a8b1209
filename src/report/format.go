package report

import (
	"fmt"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"

	"github.com/davecgh/go-spew/spew"
)

const unprintableValue = "-Can't print value-"

// prettyConfig drives the multi-line rendering of values too wide for one
// line. SortKeys keeps map output deterministic across runs.
var prettyConfig = &spew.ConfigState{
	Indent:                  "  ",
	SortKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

// rawConfig renders a value without invoking its own String/Error methods.
// Used when those methods are the thing that just panicked.
var rawConfig = &spew.ConfigState{
	Indent:                  "  ",
	SortKeys:                true,
	DisableMethods:          true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

// skipBinding reports whether a binding stays out of the report entirely:
// reserved names (leading and trailing double underscore, used for internal
// metadata) and runtime introspection handles, which are never useful to a
// reader.
func skipBinding(name string, value interface{}) bool {
	if strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__") {
		return true
	}
	switch value.(type) {
	case reflect.Type, reflect.Value, *runtime.Func:
		return true
	}
	return false
}

// formatBinding renders one local variable as an indented "name = value"
// block. Multi-line values align under the first line. A panic anywhere in
// formatting degrades to a fallback line instead of propagating.
func formatBinding(name string, value interface{}) string {
	prefix := "    " + name + " = "

	formatted, ok := formatValue(value, len(prefix))
	if !ok {
		return fmt.Sprintf("    %s = %s [%s]", name, unprintableValue, TypeName(value))
	}
	return prefix + formatted
}

// formatValue renders a value constrained to the width budget derived from
// the prefix. ok is false when formatting panicked and the caller should use
// the fallback line.
func formatValue(value interface{}, prefixLen int) (s string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s, ok = "", false
		}
	}()

	if stringer, isStringer := value.(fmt.Stringer); isStringer {
		if strings.Contains(TypeName(value), "Path") {
			return pathValue(stringer), true
		}
		// A panicking String method is handled by the caller's fallback.
		return stringer.String(), true
	}

	oneLine := fmt.Sprintf("%#v", value)
	if len(oneLine) <= prefixLen || !strings.ContainsAny(oneLine, "{[(") {
		return oneLine, true
	}

	// Too wide for one line: pretty-print and re-indent the continuation
	// lines so they align under "name = ".
	dump := strings.TrimRight(prettyConfig.Sdump(value), "\n")
	parts := strings.Split(dump, "\n")
	for i := 1; i < len(parts); i++ {
		parts[i] = strings.Repeat(" ", prefixLen) + parts[i]
	}
	return strings.Join(parts, "\n"), true
}

// pathValue prefers a path-like value's own canonical text form. When
// String panics (broken or incompatible path implementations exist in the
// wild), fall back to "<TypeName>(<slash-form>)" built from the raw fields,
// without calling back into the broken method.
func pathValue(v fmt.Stringer) (s string) {
	defer func() {
		if r := recover(); r != nil {
			raw := strings.TrimRight(rawConfig.Sprintf("%v", v), "\n")
			s = fmt.Sprintf("%s(%s)", TypeName(v), filepath.ToSlash(raw))
		}
	}()
	return v.String()
}

// TypeName returns the bare dynamic type name of a value, pointer layers
// stripped, mirroring how exception class names read in a report.
func TypeName(value interface{}) string {
	if value == nil {
		return "nil"
	}
	t := reflect.TypeOf(value)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}
