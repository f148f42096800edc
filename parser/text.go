package parser

import (
	"bufio"
	"regexp"
	"strings"
	"unicode"
)

var (
	leadingIntegerPattern = regexp.MustCompile(`^(\d+)\.\d+\.\d+`)
	digitsOnlyPattern     = regexp.MustCompile(`^[0-9]+$`)
)

// Lines splits text into lines without their terminators.
// A trailing newline does not produce an empty final line.
func Lines(text string) []string {
	var lines []string
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	// On a scanner error (line longer than the buffer) the lines read so far are kept.
	return lines
}

// FirstLineMatching returns the first line matched by re.
func FirstLineMatching(lines []string, re *regexp.Regexp) (string, bool) {
	if re == nil {
		return "", false
	}
	for _, line := range lines {
		if re.MatchString(line) {
			return line, true
		}
	}
	return "", false
}

// FirstDigitsLine returns the first line that consists solely of digits,
// with trailing whitespace removed.
func FirstDigitsLine(text string) (string, bool) {
	line, ok := FirstLineMatching(Lines(text), digitsOnlyPattern)
	if !ok {
		return "", false
	}
	return StripTrailing(line), true
}

// StripTrailing removes trailing whitespace.
func StripTrailing(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}

// LeadingInteger returns the leading run of digits of a dotted
// three-part version such as "7.2.1". Trailing text after the third
// component is allowed; a version with fewer components is not a match.
func LeadingInteger(s string) (string, bool) {
	m := leadingIntegerPattern.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// MatchFull returns the first capture group of re when re matches the whole of s.
// The pattern does not need to be anchored.
func MatchFull(re *regexp.Regexp, s string) (string, bool) {
	if re == nil {
		return "", false
	}
	loc := re.FindStringSubmatchIndex(s)
	if loc == nil || loc[0] != 0 || loc[1] != len(s) {
		return "", false
	}
	if len(loc) < 4 || loc[2] < 0 {
		return "", false
	}
	return s[loc[2]:loc[3]], true
}

// AfterPrefix returns the token that follows prefix in s, up to (not
// including) the first stop rune. s must start with prefix and the token
// must be non-empty.
func AfterPrefix(s, prefix string, stop rune) (string, bool) {
	rest, ok := strings.CutPrefix(s, prefix)
	if !ok {
		return "", false
	}
	if i := strings.IndexRune(rest, stop); i >= 0 {
		rest = rest[:i]
	}
	if rest == "" {
		return "", false
	}
	return rest, true
}
