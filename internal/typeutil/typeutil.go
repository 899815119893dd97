package typeutil

import "strings"

// Class names a Python class by module path and class name.
// Format: "pkg.module.ClassName" (e.g., "structlog.stdlib.BoundLogger").
type Class struct {
	Module string
	Name   string
}

// QualName returns the dotted form "module.Name".
func (c Class) QualName() string {
	return c.Module + "." + c.Name
}

// Matches checks if the qualified name denotes this class.
func (c Class) Matches(qualName string) bool {
	return qualName == c.QualName()
}

// IsClass checks if the qualified name matches any of the classes.
func IsClass(qualName string, classes []Class) bool {
	for _, c := range classes {
		if c.Matches(qualName) {
			return true
		}
	}
	return false
}

// ParseClasses parses a comma-separated list of qualified class names.
// Entries without a module part are skipped.
func ParseClasses(s string) []Class {
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	classes := make([]Class, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		lastDot := strings.LastIndex(part, ".")
		if lastDot <= 0 || lastDot == len(part)-1 {
			continue // Invalid format
		}

		classes = append(classes, Class{
			Module: part[:lastDot],
			Name:   part[lastDot+1:],
		})
	}

	return classes
}
