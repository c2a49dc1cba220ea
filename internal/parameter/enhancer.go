package parameter

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

// ExplainCondition restates a boolean condition expression in prose for
// error messages. It recognizes the two shapes the resolver and
// condition evaluator actually produce; anything else is echoed as-is.
func ExplainCondition(condition string) string {
	condition = strings.TrimSpace(condition)

	if m := eqPattern.FindStringSubmatch(condition); m != nil {
		return fmt.Sprintf("%s is set to %s", m[1], m[2])
	}
	if m := inPattern.FindStringSubmatch(condition); m != nil {
		return fmt.Sprintf("%s is one of the specified values", m[1])
	}
	if strings.Contains(condition, "&&") {
		parts := strings.Split(condition, "&&")
		explained := make([]string, len(parts))
		for i, p := range parts {
			explained[i] = ExplainCondition(p)
		}
		return strings.Join(explained, " and ")
	}
	if strings.Contains(condition, "||") {
		parts := strings.Split(condition, "||")
		explained := make([]string, len(parts))
		for i, p := range parts {
			explained[i] = ExplainCondition(p)
		}
		return strings.Join(explained, " or ")
	}
	return condition
}

// SuggestClosestMatch returns the closest candidate in choices to input
// under case-insensitive Levenshtein distance, subject to a two-stage
// threshold: each candidate must be within max(len(input)+2, 6) of
// input, and the eventual best match must be within max(len(input),3)*2.
// Returns ("", false) when no candidate qualifies.
func SuggestClosestMatch(input string, choices []string) (string, bool) {
	if len(choices) == 0 {
		return "", false
	}
	lowerInput := strings.ToLower(input)
	perCandidateMax := max(len(input)+2, 6)

	best := ""
	bestDist := -1
	for _, c := range choices {
		d := levenshtein.ComputeDistance(lowerInput, strings.ToLower(c))
		if d > perCandidateMax {
			continue
		}
		if bestDist == -1 || d < bestDist {
			bestDist = d
			best = c
		}
	}
	if bestDist == -1 {
		return "", false
	}

	finalMax := max(len(input), 3) * 2
	if bestDist > finalMax {
		return "", false
	}
	return best, true
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// patternInfo describes a known string-parameter pattern for
// suggestion text: a human description and a representative example.
type patternInfo struct {
	Description string
	Example     string
}

var knownPatterns = map[string]patternInfo{
	`^[^@\s]+@[^@\s]+\.[^@\s]+$`:                               {"an email address", "user@example.com"},
	`^https?://`:                                                {"a URL", "https://example.com"},
	`^(\d{1,3}\.){3}\d{1,3}$`:                                    {"an IPv4 address", "192.168.1.1"},
	`^\d+\.\d+\.\d+$`:                                            {"a semantic version", "1.2.3"},
	`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`: {"a UUID", "123e4567-e89b-12d3-a456-426614174000"},
	`^[0-9A-HJKMNP-TV-Z]{26}$`:                                   {"a ULID", "01ARZ3NDEKTSV4RRFFQ69G5FAV"},
}

// ExplainPattern describes a regex pattern for a string parameter in
// terms a user can act on: a known description/example pair when the
// pattern is recognized, otherwise "text matching <pattern>" as the
// description and the pattern text itself as the example.
func ExplainPattern(pattern string) (description, example string) {
	if info, ok := knownPatterns[pattern]; ok {
		return info.Description, info.Example
	}
	return fmt.Sprintf("text matching %s", pattern), pattern
}

// ExplainLength renders a suggestion for a string-length validation
// failure: how many characters to add or remove.
func ExplainLength(value string, minLength, maxLength *int) string {
	length := len([]rune(value))
	if minLength != nil && length < *minLength {
		return fmt.Sprintf("add %d more character(s)", *minLength-length)
	}
	if maxLength != nil && length > *maxLength {
		return fmt.Sprintf("remove %d character(s)", length-*maxLength)
	}
	return ""
}

// ExplainRange renders a suggestion for a numeric range validation
// failure.
func ExplainRange(value float64, min, max *float64) string {
	if min != nil && value < *min {
		return fmt.Sprintf("try a value >= %v", *min)
	}
	if max != nil && value > *max {
		return fmt.Sprintf("try a value <= %v", *max)
	}
	return ""
}
