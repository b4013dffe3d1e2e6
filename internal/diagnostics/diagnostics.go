// Package diagnostics replaces the single pass/fail flag of the original
// implementation with a per-compilation list of typed diagnostics.
// Success() is "the list is empty" (see internal/parser and
// internal/compiler).
package diagnostics

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/wugaoyin/idlc/internal/source"
)

// Severity classifies a diagnostic for presentation purposes; the compiler
// pipeline itself only ever produces errors, since there is no warning-level
// diagnostic kind in the error table.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Related points to a secondary source location relevant to a diagnostic,
// e.g. the earlier declaration a duplicate name collides with.
type Related struct {
	File    string
	Line    int
	Column  int
	Message string
}

// Diagnostic is the canonical compiler diagnostic. Code is the E_... string
// for one of the kinds named in SPEC_FULL.md §7 (E_LEX_UNEXPECTED_CHAR for
// LexUnexpectedChar, E_PARSE_CONSUME_NOT_EXPECTED for ConsumeNotExpected, ...).
type Diagnostic struct {
	Severity Severity
	Code     string
	Message  string
	File     string
	Line     int
	Column   int
	Hint     string
	Related  *Related
}

// FromSpan builds an error-severity Diagnostic anchored at span's position.
func FromSpan(code string, span source.Span, format string, args ...any) Diagnostic {
	pos := span.Position()
	file := ""
	if span.Valid() {
		file = span.File.Name()
	}
	return Diagnostic{
		Severity: SeverityError,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		File:     file,
		Line:     pos.Line,
		Column:   pos.Column,
	}
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s:%d:%d %s", d.Code, d.File, d.Line, d.Column, d.Message)
}

// SortAndDedupe enforces deterministic diagnostic ordering and removes
// duplicate reports of the same problem at the same location.
func SortAndDedupe(in []Diagnostic) []Diagnostic {
	if len(in) == 0 {
		return nil
	}
	out := append([]Diagnostic(nil), in...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		if a.Code != b.Code {
			return a.Code < b.Code
		}
		if a.Message != b.Message {
			return a.Message < b.Message
		}
		ar, br := relatedSortKey(a.Related), relatedSortKey(b.Related)
		if ar.file != br.file {
			return ar.file < br.file
		}
		if ar.line != br.line {
			return ar.line < br.line
		}
		return ar.column < br.column
	})
	seen := map[string]struct{}{}
	result := make([]Diagnostic, 0, len(out))
	for _, d := range out {
		key := dedupeKey(d)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, d)
	}
	return result
}

type relatedKey struct {
	file   string
	line   int
	column int
}

func relatedSortKey(r *Related) relatedKey {
	if r == nil {
		return relatedKey{}
	}
	return relatedKey{file: r.File, line: r.Line, column: r.Column}
}

func dedupeKey(d Diagnostic) string {
	rk := relatedSortKey(d.Related)
	return d.Code + "|" + d.File + "|" + strconv.Itoa(d.Line) + "|" + strconv.Itoa(d.Column) + "|" + d.Message + "|" +
		rk.file + "|" + strconv.Itoa(rk.line) + "|" + strconv.Itoa(rk.column)
}

// HasErrors reports whether any diagnostic in the list is error-severity.
func HasErrors(in []Diagnostic) bool {
	for _, d := range in {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}
