package hir

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Positioner allows finding the location in the query file.
// The easiest way to be a Positioner is to embed a Span
type Positioner interface {
	Pos() Span
}

// Span is a location in a query file, suitable for direct display.
// Line and Column are 1-based; the zero Span means "unknown".
type Span struct {
	Line   int
	Column int
	Length int
}

func (s Span) Pos() Span     { return s }
func (s Span) IsZero() bool  { return s == Span{} }
func (s Span) String() string {
	if s.IsZero() {
		return "?"
	}
	return fmt.Sprintf("%d:%d+%d", s.Line, s.Column, s.Length)
}

// SpanBetween returns the Span starting at fst and covering snd, as long as both
// are on the same line. Otherwise, it returns the start of fst.
func SpanBetween(fst, snd Positioner) Span {
	start, end := fst.Pos(), snd.Pos()
	if start.Line != end.Line || end.Column < start.Column {
		return start
	}
	return Span{Line: start.Line, Column: start.Column, Length: end.Column + end.Length - start.Column}
}

// ParseSpan parses the "line:column+length" notation produced by Span.String.
// The "+length" suffix is optional.
func ParseSpan(s string) (Span, error) {
	lineStr, rest, ok := strings.Cut(s, ":")
	if !ok {
		return Span{}, errors.Errorf("span %q is missing ':'", s)
	}
	colStr, lenStr, hasLen := strings.Cut(rest, "+")
	line, err := strconv.Atoi(lineStr)
	if err != nil || line < 1 {
		return Span{}, errors.Errorf("span %q has an invalid line", s)
	}
	col, err := strconv.Atoi(colStr)
	if err != nil || col < 1 {
		return Span{}, errors.Errorf("span %q has an invalid column", s)
	}
	length := 0
	if hasLen {
		length, err = strconv.Atoi(lenStr)
		if err != nil || length < 0 {
			return Span{}, errors.Errorf("span %q has an invalid length", s)
		}
	}
	return Span{Line: line, Column: col, Length: length}, nil
}
