package event

import "testing"

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "Full weekday with ordinal", text: "Monday 1st December 2024", want: "2024-12-01"},
		{name: "Abbreviated weekday", text: "Sat 13th Dec 2024", want: "2024-12-13"},
		{name: "Weekend day range", text: "Weekend 16/17 May 2025", want: "2025-05-16"},
		{name: "Wknd day range", text: "Wknd 23/24 May 2025", want: "2025-05-23"},
		{name: "Dash abbreviated month two digit year", text: "7-Jan-25", want: "2025-01-07"},
		{name: "Slash numeric four digit year", text: "7/1/2025", want: "2025-01-07"},
		{name: "Dash numeric two digit year", text: "07-01-25", want: "2025-01-07"},
		{name: "Dot numeric four digit year", text: "07.01.2025", want: "2025-01-07"},
		{name: "Dot numeric two digit year", text: "7.1.25", want: "2025-01-07"},
		{name: "Ordinal without weekday", text: "21st June 2025", want: "2025-06-21"},
		{name: "Weekday before numeric date", text: "Tuesday 07/01/2025", want: "2025-01-07"},
		{name: "Weekday before dot date", text: "Wed 7.1.25", want: "2025-01-07"},
		{name: "Two digit year century pivot", text: "16 May 25", want: "2025-05-16"},
		{name: "Lowercase month", text: "16 may 2025", want: "2025-05-16"},
		{name: "Already canonical", text: "2025-05-16", want: "2025-05-16"},
		{name: "Empty string", text: "", want: ""},
		{name: "Unparseable text", text: "Invalid Date", want: ""},
		{name: "Out of range components", text: "32/13/25", want: ""},
		{name: "Weekend token alone", text: "Weekend", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeDate(tt.text); got != tt.want {
				t.Errorf("NormalizeDate(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestNormalizeDateIdempotent(t *testing.T) {
	inputs := []string{
		"Monday 1st December 2024",
		"Weekend 16/17 May 2025",
		"7-Jan-25",
		"2025-05-16",
	}
	for _, text := range inputs {
		once := NormalizeDate(text)
		if once == "" {
			t.Fatalf("NormalizeDate(%q) unexpectedly unparseable", text)
		}
		if twice := NormalizeDate(once); twice != once {
			t.Errorf("NormalizeDate(%q) = %q, not idempotent (got %q)", once, twice, once)
		}
	}
}
