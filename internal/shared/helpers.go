// Package shared provides common helpers used across the ros-specgen
// packages.
package shared

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// PackagePrefix is prepended to every component name to form the
// platform package name.
const PackagePrefix = "ros-"

var whitespaceRun = regexp.MustCompile(`\s+`)

// CollapseWhitespace replaces runs of whitespace with one space and
// trims both ends.
func CollapseWhitespace(value string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(value, " "))
}

// UpperFirst upper-cases the first letter of value.
func UpperFirst(value string) string {
	r, size := utf8.DecodeRuneInString(value)
	if r == utf8.RuneError {
		return value
	}
	return string(unicode.ToUpper(r)) + value[size:]
}

// FirstSentence returns value up to and including its first period, or
// all of value when it has none.
func FirstSentence(value string) string {
	if idx := strings.Index(value, "."); idx != -1 {
		return value[:idx+1]
	}
	return value
}

// CommandError wraps a command execution error with its trimmed output
// for cleaner error messages.
func CommandError(output []byte, err error) error {
	return fmt.Errorf("%s: %w", strings.TrimSpace(string(output)), err)
}
