package event

import (
	"regexp"
	"strings"
	"time"
)

// MultiTimeSeparator joins the sub-times of a multi-kickoff value,
// e.g. "15:00 & 18:00".
const MultiTimeSeparator = " & "

var (
	strict24Hour = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
	bareMeridiem = regexp.MustCompile(`^(\d{1,2})(am|pm)$`)
	noonToken    = regexp.MustCompile(`\b(12\s*noon|noon\s*12|noon)\b`)
	midnightTok  = regexp.MustCompile(`\b(12\s*midnight|midnight\s*12|midnight)\b`)
)

// NormalizeTime canonicalizes free-text kickoff times to 24-hour
// "HH:MM". Values already in strict 24-hour form pass through
// unchanged. "TBC" in any case yields "". Multiple times joined by
// " & " are normalized individually and rejoined in their original
// order; a sub-time that cannot be parsed is dropped silently and the
// rest kept. Returns "" when nothing parses.
func NormalizeTime(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || strings.EqualFold(trimmed, "tbc") {
		return ""
	}
	if strict24Hour.MatchString(trimmed) {
		return trimmed
	}

	lowered := strings.ToLower(trimmed)
	lowered = noonToken.ReplaceAllString(lowered, "12:00pm")
	lowered = midnightTok.ReplaceAllString(lowered, "12:00am")
	lowered = strings.ReplaceAll(lowered, "(tbc)", "")
	lowered = strings.ReplaceAll(lowered, " and ", MultiTimeSeparator)
	lowered = strings.ReplaceAll(lowered, ".", ":")

	parts := strings.Split(lowered, MultiTimeSeparator)
	normalized := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.ReplaceAll(strings.TrimSpace(part), " ", "")
		if part == "" {
			continue
		}
		// Sub-times already in 24-hour form stay as they are, so a
		// canonical multi-time value round-trips unchanged.
		if strict24Hour.MatchString(part) {
			normalized = append(normalized, part)
			continue
		}
		// Hour-only values like "3pm" get minutes injected.
		if m := bareMeridiem.FindStringSubmatch(part); m != nil {
			part = m[1] + ":00" + m[2]
		}
		t, err := time.Parse("3:04pm", part)
		if err != nil {
			continue
		}
		normalized = append(normalized, t.Format("15:04"))
	}
	if len(normalized) == 0 {
		return ""
	}
	return strings.Join(normalized, MultiTimeSeparator)
}

// EarliestTime returns the first kickoff within a possibly multi-time
// canonical value, or "" for an empty value.
func EarliestTime(startTime string) string {
	if startTime == "" {
		return ""
	}
	first, _, _ := strings.Cut(startTime, MultiTimeSeparator)
	return first
}
