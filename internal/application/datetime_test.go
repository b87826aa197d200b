package application

import (
	"testing"
	"time"
)

func TestParseDateTime(t *testing.T) {
	cases := []struct {
		name string
		date string
		tod  string
		want time.Time
		ok   bool
	}{
		{"morning", "03-01-2024", "10:00 AM", time.Date(2024, time.January, 3, 10, 0, 0, 0, time.Local), true},
		{"afternoon", "03-01-2024", "02:30 PM", time.Date(2024, time.January, 3, 14, 30, 0, 0, time.Local), true},
		{"noon", "15-06-2024", "12:00 PM", time.Date(2024, time.June, 15, 12, 0, 0, 0, time.Local), true},
		{"midnight", "15-06-2024", "12:00 AM", time.Date(2024, time.June, 15, 0, 0, 0, 0, time.Local), true},
		{"end of day", "15-06-2024", "11:59 PM", time.Date(2024, time.June, 15, 23, 59, 0, 0, time.Local), true},
		{"single digit day and month", "5-6-2024", "9:05 AM", time.Date(2024, time.June, 5, 9, 5, 0, 0, time.Local), true},
		{"no space before meridiem", "03-01-2024", "10:00AM", time.Date(2024, time.January, 3, 10, 0, 0, 0, time.Local), true},
		{"lowercase meridiem", "03-01-2024", "10:00 pm", time.Date(2024, time.January, 3, 22, 0, 0, 0, time.Local), true},
		{"calendar overflow normalizes", "31-02-2024", "10:00 AM", time.Date(2024, time.March, 2, 10, 0, 0, 0, time.Local), true},

		{"iso date rejected", "2024-01-03", "10:00 AM", time.Time{}, false},
		{"slash date rejected", "03/01/2024", "10:00 AM", time.Time{}, false},
		{"month zero rejected", "03-00-2024", "10:00 AM", time.Time{}, false},
		{"day zero rejected", "00-01-2024", "10:00 AM", time.Time{}, false},
		{"year too early rejected", "03-01-1899", "10:00 AM", time.Time{}, false},
		{"24h clock rejected", "03-01-2024", "14:30", time.Time{}, false},
		{"hour zero rejected", "03-01-2024", "0:30 AM", time.Time{}, false},
		{"hour thirteen rejected", "03-01-2024", "13:00 PM", time.Time{}, false},
		{"minute sixty rejected", "03-01-2024", "10:60 AM", time.Time{}, false},
		{"empty time rejected", "03-01-2024", "", time.Time{}, false},
		{"empty date rejected", "", "10:00 AM", time.Time{}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseDateTime(tc.date, tc.tod)
			if ok != tc.ok {
				t.Fatalf("ParseDateTime(%q, %q) ok = %v, want %v", tc.date, tc.tod, ok, tc.ok)
			}
			if ok && !got.Equal(tc.want) {
				t.Fatalf("ParseDateTime(%q, %q) = %v, want %v", tc.date, tc.tod, got, tc.want)
			}
		})
	}
}

func TestParseDateTimeTrimsWhitespace(t *testing.T) {
	got, ok := ParseDateTime("  03-01-2024  ", "  10:00 AM ")
	if !ok {
		t.Fatal("expected surrounding whitespace to be tolerated")
	}
	want := time.Date(2024, time.January, 3, 10, 0, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
