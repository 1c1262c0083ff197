package dbmigrate

import (
	"strings"
	"unicode"
)

// Annotation keys recognised in artifact comments.
const (
	DependsAnnotation  = "depends"
	SourcesAnnotation  = "sources"
	RollbackAnnotation = "rollback"
)

// parseAnnotation reports the value of a "-- key: value" line.
func parseAnnotation(line string, key string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "--") {
		return "", false
	}

	rest := strings.TrimSpace(strings.TrimPrefix(trimmed, "--"))
	if !strings.HasPrefix(rest, key+":") {
		return "", false
	}

	return strings.TrimSpace(strings.TrimPrefix(rest, key+":")), true
}

// leadingBlock returns the lines at the start of text that are blank or
// comments.
func leadingBlock(text string) []string {
	var block []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && !strings.HasPrefix(trimmed, "--") {
			break
		}

		block = append(block, trimmed)
	}

	return block
}

// leadingNames collects the names listed by every key annotation in the
// leading block, in first-seen order without duplicates.  Names are separated
// by commas, whitespace or both.
func leadingNames(text string, key string) []string {
	var names []string
	seen := make(map[string]struct{})

	for _, line := range leadingBlock(text) {
		value, ok := parseAnnotation(line, key)
		if !ok {
			continue
		}

		fields := strings.FieldsFunc(value, func(r rune) bool {
			return r == ',' || unicode.IsSpace(r)
		})
		for _, name := range fields {
			if _, dup := seen[name]; dup {
				continue
			}

			seen[name] = struct{}{}
			names = append(names, name)
		}
	}

	return names
}

// rollbackStatement joins the values of every rollback annotation in text.
func rollbackStatement(text string) string {
	var statements []string
	for _, line := range strings.Split(text, "\n") {
		if value, ok := parseAnnotation(line, RollbackAnnotation); ok && value != "" {
			statements = append(statements, value)
		}
	}

	return strings.Join(statements, "\n")
}
