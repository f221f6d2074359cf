// Package diag implements the compiler's diagnostic bag: coded errors and
// warnings with source spans, optional hints, and "did you mean"
// suggestions, rendered with a source-line-and-caret terminal format.
package diag

import (
	"fmt"
	"strings"

	"github.com/norilang/nori/internal/lexer"
)

// Severity classifies a Diagnostic.
type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	if s == Warning {
		return "warning"
	}
	return "error"
}

// Stable diagnostic codes, per spec.md §3 and §7.
const (
	ErrUnterminatedString      = "E0001"
	ErrUnterminatedBlockComment = "E0002"
	ErrUnexpectedChar          = "E0003"

	ErrPubWithoutLet  = "E0011"
	ErrInvalidSync    = "E0012"
	ErrUnexpectedToken = "E0020"

	ErrTypeError      = "E0040"
	ErrUndefinedVariable = "E0070"
	ErrCustomEvent    = "E0071"
	ErrRecursion      = "E0100"
	ErrBreakOutsideLoop    = "E0101"
	ErrContinueOutsideLoop = "E0102"
	ErrNoMatchingOverload  = "E0130"
	ErrPropertyNotWritable = "E0140"
	ErrUnknownEnumValue    = "E0141"

	WarnUnknownEvent = "W0010"
)

// Diagnostic is a single compiler message.
type Diagnostic struct {
	Severity   Severity
	Code       string
	Message    string
	Span       lexer.Span
	Hint       string
	Suggestion string
}

// Bag accumulates diagnostics for one compilation. Order of insertion
// matches source order within a phase (per spec.md §5); phases append to
// the same bag in sequence so that lexer diagnostics precede parser
// diagnostics precede analyzer diagnostics in the common case.
type Bag struct {
	diags []Diagnostic
}

// NewBag returns an empty diagnostic bag.
func NewBag() *Bag {
	return &Bag{}
}

// Add appends a diagnostic to the bag.
func (b *Bag) Add(d Diagnostic) {
	b.diags = append(b.diags, d)
}

// Errorf appends an error-severity diagnostic.
func (b *Bag) Errorf(code string, span lexer.Span, format string, args ...any) {
	b.Add(Diagnostic{Severity: Error, Code: code, Message: fmt.Sprintf(format, args...), Span: span})
}

// Warnf appends a warning-severity diagnostic.
func (b *Bag) Warnf(code string, span lexer.Span, format string, args ...any) {
	b.Add(Diagnostic{Severity: Warning, Code: code, Message: fmt.Sprintf(format, args...), Span: span})
}

// All returns every diagnostic added so far, in insertion order.
func (b *Bag) All() []Diagnostic {
	return b.diags
}

// HasErrors reports whether the bag contains at least one error-severity
// diagnostic. The pipeline orchestrator short-circuits between phases on
// this condition (spec.md §5, §7).
func (b *Bag) HasErrors() bool {
	for _, d := range b.diags {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// Len returns the number of diagnostics in the bag.
func (b *Bag) Len() int { return len(b.diags) }

// Format renders a single diagnostic against source, with a caret pointing
// at the start column of its span. If color is true, ANSI codes highlight
// the severity label and the caret.
func Format(d Diagnostic, source string, color bool) string {
	var sb strings.Builder

	sevLabel := strings.ToUpper(d.Severity.String())
	if color {
		if d.Severity == Error {
			sb.WriteString("\033[1;31m")
		} else {
			sb.WriteString("\033[1;33m")
		}
	}
	fmt.Fprintf(&sb, "%s[%s]", sevLabel, d.Code)
	if color {
		sb.WriteString("\033[0m")
	}
	file := d.Span.File
	if file == "" {
		file = "<input>"
	}
	fmt.Fprintf(&sb, " %s:%s: %s\n", file, d.Span.Start, d.Message)

	if line := sourceLine(source, d.Span.Start.Line); line != "" {
		lineNumStr := fmt.Sprintf("%5d | ", d.Span.Start.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(lineNumStr)+d.Span.Start.Column-1))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	if d.Suggestion != "" {
		fmt.Fprintf(&sb, "  did you mean '%s'?\n", d.Suggestion)
	}
	if d.Hint != "" {
		fmt.Fprintf(&sb, "  hint: %s\n", d.Hint)
	}

	return sb.String()
}

// FormatAll renders every diagnostic in the bag against source.
func FormatAll(b *Bag, source string, color bool) string {
	var sb strings.Builder
	for _, d := range b.All() {
		sb.WriteString(Format(d, source, color))
	}
	return sb.String()
}

func sourceLine(source string, lineNum int) string {
	if source == "" || lineNum < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}
