package event

import (
	"regexp"
	"strings"
	"time"
)

// ISODate is the canonical date layout produced by NormalizeDate.
const ISODate = "2006-01-02"

var (
	weekdayPrefix = regexp.MustCompile(`^(?i)(monday|tuesday|wednesday|thursday|friday|saturday|sunday|mon|tue|wed|thu|fri|sat|sun|weekend|wknd)\s+`)
	ordinalSuffix = regexp.MustCompile(`(?i)(\d+)(st|nd|rd|th)`)
	numericSlash  = regexp.MustCompile(`^\d+/\d+/\d+`)
	alphaRun      = regexp.MustCompile(`[a-zA-Z]+`)
)

// dateLayouts is the ordered set of accepted input formats. The
// layouts are mutually exclusive by construction (separator and year
// width differ), so order only determines which one gets to fail
// first. Single-digit day and month are covered by the unpadded
// layout verbs.
var dateLayouts = []string{
	ISODate,          // already canonical
	"2 January 2006", // 16 May 2025
	"2 Jan 2006",     // 16 Aug 2025
	"2 January 06",
	"2 Jan 06",
	"2-Jan-2006", // 16-May-2025
	"2-Jan-06",   // 7-Jan-25
	"2/1/2006",   // 16/05/2025
	"2/1/06",     // 7/1/25
	"2-1-2006",
	"2-1-06",
	"2.1.2006", // 16.05.2025
	"2.1.06",   // 7.1.25
}

// NormalizeDate canonicalizes free-text UK date formats to an ISO
// "YYYY-MM-DD" string. It strips a leading weekday or weekend token,
// removes ordinal suffixes, and collapses slash day-ranges like
// "16/17 May 2025" to their first day. Returns "" when the text
// cannot be parsed or a component is out of range.
func NormalizeDate(text string) string {
	cleaned := strings.TrimSpace(text)
	if cleaned == "" {
		return ""
	}

	cleaned = strings.TrimSpace(weekdayPrefix.ReplaceAllString(cleaned, ""))
	cleaned = ordinalSuffix.ReplaceAllString(cleaned, "$1")

	// "16/17 May 2025" reads as a day range, not a numeric date: keep
	// the first day and re-join with the month and year tokens.
	if strings.Contains(cleaned, "/") && !numericSlash.MatchString(cleaned) {
		parts := strings.Fields(cleaned)
		if len(parts) >= 3 {
			day, _, _ := strings.Cut(parts[0], "/")
			cleaned = day + " " + strings.Join(parts[1:], " ")
		}
	}

	cleaned = strings.Join(strings.Fields(cleaned), " ")
	cleaned = titleCaseWords(cleaned)

	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, cleaned)
		if err != nil {
			continue
		}
		// Century pivot for 2-digit years: anything the parser put
		// before 2000 belongs to this century ("25" means 2025).
		if !strings.Contains(layout, "2006") && t.Year() < 2000 {
			t = t.AddDate(100, 0, 0)
		}
		return t.Format(ISODate)
	}
	return ""
}

// titleCaseWords capitalizes alphabetic runs so month names in any
// case ("MAY", "may") satisfy time.Parse's case-sensitive layouts.
func titleCaseWords(s string) string {
	return alphaRun.ReplaceAllStringFunc(s, func(word string) string {
		return strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	})
}
