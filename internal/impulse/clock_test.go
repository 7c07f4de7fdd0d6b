package impulse

import (
	"errors"
	"testing"
	"time"

	"journal/internal/apperr"
)

func TestParseDatetimeKeepsWallClock(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	cases := map[string]time.Time{
		"2026-10-14T08:30":          time.Date(2026, 10, 14, 8, 30, 0, 0, time.UTC),
		"2026-10-14T08:30:15":       time.Date(2026, 10, 14, 8, 30, 15, 0, time.UTC),
		"2026-10-14 23:05:00":       time.Date(2026, 10, 14, 23, 5, 0, 0, time.UTC),
		"2026-10-14T08:30:00+08:00": time.Date(2026, 10, 14, 8, 30, 0, 0, time.UTC),
		"":                          now,
	}
	for in, want := range cases {
		got, err := ParseDatetime(in, now)
		if err != nil {
			t.Fatalf("%q: %v", in, err)
		}
		if !got.Equal(want) {
			t.Fatalf("%q: got %v want %v", in, got, want)
		}
	}
}

func TestParseDatetimeRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := ParseDatetime("yesterday-ish", time.Now())
	var ve *apperr.ValidationError
	if !errors.As(err, &ve) || ve.Field != "datetime" {
		t.Fatalf("err=%v", err)
	}
}

func TestParseActed(t *testing.T) {
	t.Parallel()

	if a, err := ParseActed(" YES "); err != nil || a != ActedYes {
		t.Fatalf("a=%q err=%v", a, err)
	}
	if _, err := ParseActed("sometimes"); err == nil {
		t.Fatalf("expected error")
	}
}
