// Package ignore handles # sentrystack:ignore directives.
package ignore

import (
	"slices"
	"strings"

	"github.com/mpyw/sentrystack/internal/finding"
	"github.com/mpyw/sentrystack/internal/pyast"
)

// Code is a diagnostic code that can be ignored.
type Code string

// Valid codes.
const (
	AddCapture        Code = finding.CodeAddCapture
	ConvertLegacyFlag Code = finding.CodeConvertLegacyFlag
)

// aliases maps the pylint message names of the same checks to their codes.
var aliases = map[Code]Code{
	"add-exc-info":       AddCapture,
	"change-to-exc-info": ConvertLegacyFlag,
}

// AllCodes returns every code an ignore directive may name.
func AllCodes() []Code {
	return []Code{AddCapture, ConvertLegacyFlag}
}

const directive = "sentrystack:ignore"

// Entry tracks an ignore directive and its usage.
type Entry struct {
	span  pyast.Span    // Span of the ignore comment
	codes []Code        // List of codes (empty = all)
	used  map[Code]bool // Track usage per code
}

// Map tracks ignore entries by line number.
type Map map[int]*Entry

// Build scans a file for ignore comments and returns a map.
func Build(f *pyast.File) Map {
	m := make(Map)

	for _, c := range f.Comments() {
		codes, ok := parseComment(f.Text(c))
		if !ok {
			continue
		}
		span := f.Span(c)
		m[span.Start.Line] = &Entry{
			span:  span,
			codes: codes,
			used:  make(map[Code]bool),
		}
	}

	return m
}

// parseComment parses an ignore directive and returns the codes.
// Returns nil slice if no specific codes are specified (ignore all).
// Returns false if not an ignore comment.
func parseComment(text string) ([]Code, bool) {
	text = strings.TrimPrefix(text, "#")
	text = strings.TrimSpace(text)

	rest, ok := strings.CutPrefix(text, directive)
	if !ok {
		return nil, false
	}
	// "sentrystack:ignored" is not the directive.
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return nil, false
	}
	rest = strings.TrimSpace(rest)

	// Stop at comment markers: " - " or a nested "#"
	if idx := strings.Index(rest, " - "); idx >= 0 {
		rest = rest[:idx]
	}
	if idx := strings.Index(rest, "#"); idx >= 0 {
		rest = rest[:idx]
	}
	// Handle "- " at the start (no codes specified, just comment)
	if strings.HasPrefix(rest, "- ") || rest == "-" {
		return nil, true
	}

	rest = strings.TrimSpace(rest)
	if rest == "" {
		return nil, true
	}

	parts := strings.Split(rest, ",")
	codes := make([]Code, 0, len(parts))

	for _, part := range parts {
		code := Code(strings.TrimSpace(part))
		if canonical, ok := aliases[code]; ok {
			code = canonical
		}
		if code != "" {
			codes = append(codes, code)
		}
	}

	return codes, true
}

// ShouldIgnore returns true if the given line should be ignored for code.
// A directive covers its own line and the line after it.
func (m Map) ShouldIgnore(line int, code Code) bool {
	if m.shouldIgnoreEntry(m[line], code) {
		return true
	}
	if m.shouldIgnoreEntry(m[line-1], code) {
		return true
	}

	return false
}

func (m Map) shouldIgnoreEntry(entry *Entry, code Code) bool {
	if entry == nil {
		return false
	}

	if len(entry.codes) == 0 {
		entry.used[code] = true
		return true
	}

	if slices.Contains(entry.codes, code) {
		entry.used[code] = true
		return true
	}

	return false
}

// UnusedIgnore represents an unused ignore directive.
type UnusedIgnore struct {
	Span  pyast.Span
	Codes []Code // Unused codes (empty if entire directive is unused)
}

// GetUnusedIgnores returns ignore directives that were not used, in line
// order. Codes that are not valid are always reported.
func (m Map) GetUnusedIgnores() []UnusedIgnore {
	var unused []UnusedIgnore

	for _, entry := range m {
		if len(entry.codes) == 0 {
			if len(entry.used) == 0 {
				unused = append(unused, UnusedIgnore{Span: entry.span})
			}
			continue
		}

		var unusedCodes []Code
		for _, code := range entry.codes {
			if !slices.Contains(AllCodes(), code) || !entry.used[code] {
				unusedCodes = append(unusedCodes, code)
			}
		}
		if len(unusedCodes) > 0 {
			unused = append(unused, UnusedIgnore{Span: entry.span, Codes: unusedCodes})
		}
	}

	slices.SortFunc(unused, func(a, b UnusedIgnore) int {
		return a.Span.Start.Line - b.Span.Start.Line
	})

	return unused
}
