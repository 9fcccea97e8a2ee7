package core

// convert.go turns cell text into comparable keys for the view pipeline and
// normalizes imported text into the engine's value vocabulary.
//
// Nothing here returns an error: malformed input degrades to a sentinel so
// that a sort over dirty data never fails.
//   - dates: the zero time.Time, which sorts before every valid date
//   - numbers: 0
//   - priorities: 0

import (
	"strconv"
	"strings"
	"time"
)

// dateLayouts accept DD-MM-YYYY with or without zero padding.
var dateLayouts = []string{DateLayout, "2-1-2006"}

// priorityRanks orders priorities for sorting. Unknown values rank 0.
var priorityRanks = map[string]int{
	strings.ToLower(string(PriorityHigh)):   3,
	strings.ToLower(string(PriorityMedium)): 2,
	strings.ToLower(string(PriorityLow)):    1,
}

// ParseDate parses DD-MM-YYYY text. ok is false for empty or malformed input.
func ParseDate(s string) (t time.Time, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// dateKey returns the sort key for a date cell.
func dateKey(s string) time.Time {
	t, _ := ParseDate(s)
	return t
}

// ParseNumber strips grouping commas and parses the rest as a float.
// Unparsable text yields 0.
func ParseNumber(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// PriorityRank maps High/Medium/Low to 3/2/1, case-insensitively.
func PriorityRank(s string) int {
	return priorityRanks[strings.ToLower(strings.TrimSpace(s))]
}

// NormalizeStatus maps loose spellings ("In Progress", "COMPLETE") onto the
// canonical Status text. Unrecognized text is returned trimmed but otherwise
// unchanged.
func NormalizeStatus(s string) string {
	s = strings.TrimSpace(s)
	norm := strings.ToLower(strings.Join(strings.Fields(strings.ReplaceAll(s, "_", " ")), "-"))
	for _, st := range Statuses {
		if norm == string(st) {
			return norm
		}
	}
	return s
}

// NormalizePriority maps "high", "HIGH" etc. onto the canonical Priority
// text. Unrecognized text is returned trimmed.
func NormalizePriority(s string) string {
	s = strings.TrimSpace(s)
	for _, p := range Priorities {
		if strings.EqualFold(s, string(p)) {
			return string(p)
		}
	}
	return s
}

// CleanCell removes common spreadsheet artifacts from imported text:
// surrounding whitespace, an Excel formula prefix (="..."), and wrapping
// quotes.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	return strings.Trim(s, `"'`)
}

// NormalizeValue converts imported text for a column of the given type.
func NormalizeValue(t FieldType, s string) string {
	s = CleanCell(s)
	switch t {
	case FieldStatus:
		return NormalizeStatus(s)
	case FieldPriority:
		return NormalizePriority(s)
	default:
		return s
	}
}
