package player

import (
	"regexp"
	"strconv"
	"strings"
)

// salarySentinels are roster texts meaning "not disclosed".
var salarySentinels = map[string]bool{
	"":    true,
	"-":   true,
	"--":  true,
	"—":   true,
	"N/A": true,
	"n/a": true,
}

var nonNumeric = regexp.MustCompile(`[^\d.]+`)

// ParseSalary converts roster salary text such as "$1,000,000" to an integer.
// Sentinels and unparseable values yield nil.
func ParseSalary(text string) *int64 {
	text = strings.TrimSpace(text)
	if salarySentinels[text] {
		return nil
	}

	digits := nonNumeric.ReplaceAllString(text, "")
	if digits == "" {
		return nil
	}

	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

// Clean coerces raw salary text to integers and drops every row missing any of
// minutes, points, rebounds or assists. The table is modified in place and
// returned. Running Clean on an already-cleaned table leaves it unchanged.
func Clean(t *Table) *Table {
	if t == nil {
		return nil
	}

	kept := t.Records[:0]
	for _, r := range t.Records {
		if r.SalaryText != "" || r.Salary == nil {
			r.Salary = ParseSalary(r.SalaryText)
			r.SalaryText = ""
		}
		if !r.HasStats() {
			continue
		}
		kept = append(kept, r)
	}

	// release dropped rows
	for i := len(kept); i < len(t.Records); i++ {
		t.Records[i] = nil
	}
	t.Records = kept
	return t
}
