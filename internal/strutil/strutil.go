// Package strutil contains the small text helpers used by the parcel format.
package strutil

import (
	"strings"
	"unicode/utf8"
)

// ToChar returns the only rune of txt, or false when txt is not exactly one rune long.
func ToChar(txt string) (rune, bool) {
	r, size := utf8.DecodeRuneInString(txt)
	if size == 0 || size != len(txt) || r == utf8.RuneError {
		return 0, false
	}
	return r, true
}

// ToLength pads txt with fill or truncates it so that it is exactly width runes long.
func ToLength(txt string, width int, fill rune) string {
	n := 0
	for i := range txt {
		if n == width {
			return txt[:i]
		}
		n++
	}
	if n == width {
		return txt
	}
	return txt + strings.Repeat(string(fill), width-n)
}

// SplitLines splits text into lines. A trailing line terminator does not
// produce an empty last line and "\r\n" endings are accepted.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// FitBlock returns exactly height lines of exactly width runes. Missing lines
// are blank and extra lines are dropped.
func FitBlock(lines []string, height, width int) []string {
	out := make([]string, height)
	for i := range out {
		var l string
		if i < len(lines) {
			l = lines[i]
		}
		out[i] = ToLength(l, width, ' ')
	}
	return out
}
