package Models

import (
	"testing"
	"time"
)

func TestParseDayFirstDate(t *testing.T) {
	cases := map[string]time.Time{
		"02/05/2024":          time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
		"2/5/2024 08:30":      time.Date(2024, 5, 2, 8, 30, 0, 0, time.UTC),
		"2024-05-02T08:30:00": time.Date(2024, 5, 2, 8, 30, 0, 0, time.UTC),
	}
	for in, want := range cases {
		got := ParseDayFirstDate(in)
		if got == nil || !got.Equal(want) {
			t.Errorf("ParseDayFirstDate(%q) = %v, want %v", in, got, want)
		}
	}

	if got := ParseDayFirstDate(""); got != nil {
		t.Errorf("empty input must yield nil")
	}
	if got := ParseDayFirstDate("mañana"); got != nil {
		t.Errorf("unparsable input must yield nil")
	}
}

func TestNormalizeClock(t *testing.T) {
	cases := map[string]string{
		"8":                   "8:00:00",
		"08:30":               "08:30:00",
		"08:30:15":            "08:30:15",
		"02/05/2024 08:30:15": "08:30:15",
		"":                    "",
	}
	for in, want := range cases {
		if got := NormalizeClock(in); got != want {
			t.Errorf("NormalizeClock(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCombineDateTime(t *testing.T) {
	date := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)

	got := CombineDateTime(&date, "08:30:00")
	want := time.Date(2024, 5, 2, 8, 30, 0, 0, time.UTC)
	if got == nil || !got.Equal(want) {
		t.Errorf("CombineDateTime = %v, want %v", got, want)
	}

	if CombineDateTime(&date, "") != nil {
		t.Errorf("a missing clock must not anchor a window")
	}
	if CombineDateTime(nil, "08:30:00") != nil {
		t.Errorf("a missing date must not anchor a window")
	}

	midnight := CombineDateTimeOrMidnight(&date, "")
	if midnight == nil || !midnight.Equal(date) {
		t.Errorf("the lenient variant falls back to midnight, got %v", midnight)
	}
}
