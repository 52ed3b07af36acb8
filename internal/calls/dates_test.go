package calls

import (
	"testing"
	"time"
)

func TestDateFormatter_FormatAndKey(t *testing.T) {
	f := NewDateFormatter(time.UTC)
	ts := time.Date(2022, 9, 16, 8, 5, 0, 0, time.UTC)
	if got := f.FormatDate(ts); got != "Sep 16 - 08:05" {
		t.Fatalf("unexpected date %q", got)
	}
	if got := f.DateKey(ts); got != "Sep 16" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestDateFormatter_UsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	f := NewDateFormatter(loc)
	ts := time.Date(2022, 9, 16, 23, 0, 0, 0, time.UTC)
	if got := f.DateKey(ts); got != "Sep 17" {
		t.Fatalf("expected next day in UTC+2, got %q", got)
	}
}

func TestFormatDuration(t *testing.T) {
	cases := map[int64]string{
		0:   "0 minutes 0 seconds",
		65:  "1 minutes 5 seconds",
		-3:  "0 minutes 0 seconds",
		600: "10 minutes 0 seconds",
	}
	for in, want := range cases {
		if got := FormatDuration(in); got != want {
			t.Fatalf("FormatDuration(%d): expected %q, got %q", in, want, got)
		}
	}
}
