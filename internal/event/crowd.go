package event

import (
	"regexp"
	"strconv"
	"strings"
)

// maxPlausibleCrowd is just above Twickenham's 82,000 capacity;
// anything larger is a scrape artifact, not an attendance figure.
const maxPlausibleCrowd = 100000

var (
	crowdQualifiers = regexp.MustCompile(`(?i)(TBC|Estimate|Est|Approx|~)`)
	crowdRange      = regexp.MustCompile(`(\d+)\s*-\s*(\d+,\d+)`)
	digitRun        = regexp.MustCompile(`\d+`)
)

// FormatCrowd validates free-text crowd figures and formats them with
// thousands separators. Ranges like "50,000 - 82,000" resolve to the
// upper bound; implausible values are discarded. Returns "" when no
// usable figure is present.
func FormatCrowd(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	cleaned := strings.TrimSpace(crowdQualifiers.ReplaceAllString(text, ""))
	if m := crowdRange.FindStringSubmatch(cleaned); m != nil {
		cleaned = m[2]
	}
	cleaned = strings.ReplaceAll(cleaned, ",", "")

	crowd := -1
	for _, run := range digitRun.FindAllString(cleaned, -1) {
		n, err := strconv.Atoi(run)
		if err != nil {
			continue
		}
		if n > maxPlausibleCrowd {
			continue
		}
		if n > crowd {
			crowd = n
		}
	}
	if crowd < 0 {
		return ""
	}
	return groupThousands(crowd)
}

// groupThousands renders 82000 as "82,000".
func groupThousands(n int) string {
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
