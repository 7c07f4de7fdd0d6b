package stats

import (
	"errors"
	"testing"
	"time"

	"journal/internal/apperr"
	"journal/internal/impulse"
)

func entry(hour, minute int, feeling string, acted impulse.Acted) impulse.Log {
	return impulse.Log{
		Datetime: time.Date(2026, 10, 12, hour, minute, 0, 0, time.UTC),
		Feeling:  feeling,
		Acted:    acted,
	}
}

func TestSummarizeScenario(t *testing.T) {
	t.Parallel()

	logs := []impulse.Log{
		entry(8, 0, "anxious about deadline", impulse.ActedNo),
		entry(8, 30, "anxious", impulse.ActedYes),
		entry(14, 0, "bored", impulse.ActedNo),
	}
	s, err := Summarize(logs)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if s.Total != 3 || s.Acted != 1 || s.Resisted != 2 {
		t.Fatalf("counts=%+v", s)
	}
	if s.ResistanceRate != 67 {
		t.Fatalf("ResistanceRate=%d", s.ResistanceRate)
	}
	if s.PeakHour != 8 {
		t.Fatalf("PeakHour=%d", s.PeakHour)
	}
	if len(s.TopWords) == 0 || s.TopWords[0] != "anxious" {
		t.Fatalf("TopWords=%v", s.TopWords)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	t.Parallel()

	if _, err := Summarize(nil); !errors.Is(err, apperr.ErrInsufficientData) {
		t.Fatalf("err=%v", err)
	}
}

func TestResistanceRateBounds(t *testing.T) {
	t.Parallel()

	none := []impulse.Log{entry(1, 0, "a", impulse.ActedNo), entry(2, 0, "b", impulse.ActedNo)}
	s, _ := Summarize(none)
	if s.ResistanceRate != 100 || s.Acted+s.Resisted != s.Total {
		t.Fatalf("none acted: %+v", s)
	}

	all := []impulse.Log{entry(1, 0, "a", impulse.ActedYes), entry(2, 0, "b", impulse.ActedYes)}
	s, _ = Summarize(all)
	if s.ResistanceRate != 0 || s.Acted+s.Resisted != s.Total {
		t.Fatalf("all acted: %+v", s)
	}
}

func TestPercentRoundsHalfUp(t *testing.T) {
	t.Parallel()

	cases := []struct{ part, whole, want int }{
		{1, 8, 13}, // 12.5
		{1, 3, 33},
		{2, 3, 67},
		{1, 200, 1}, // 0.5
		{0, 5, 0},
		{5, 5, 100},
	}
	for _, c := range cases {
		if got := percentRounded(c.part, c.whole); got != c.want {
			t.Fatalf("%d/%d: got %d want %d", c.part, c.whole, got, c.want)
		}
	}
}

func TestPeakHourTieBreaksLow(t *testing.T) {
	t.Parallel()

	logs := []impulse.Log{
		entry(22, 0, "x", impulse.ActedNo),
		entry(22, 10, "x", impulse.ActedNo),
		entry(7, 0, "x", impulse.ActedNo),
		entry(7, 45, "x", impulse.ActedNo),
		entry(15, 0, "x", impulse.ActedNo),
	}
	s, _ := Summarize(logs)
	if s.PeakHour != 7 {
		t.Fatalf("PeakHour=%d", s.PeakHour)
	}

	s, _ = Summarize([]impulse.Log{entry(0, 5, "midnight", impulse.ActedNo)})
	if s.PeakHour != 0 {
		t.Fatalf("PeakHour=%d", s.PeakHour)
	}
}

func TestTopWordsNaiveTokens(t *testing.T) {
	t.Parallel()

	logs := []impulse.Log{
		entry(9, 0, "I  want  to eat", impulse.ActedNo),
		entry(10, 0, "i want TO scroll\tagain", impulse.ActedYes),
	}
	got := TopWords(logs, 3)
	want := []string{"i", "want", "to"}
	if len(got) != len(want) {
		t.Fatalf("got=%v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got=%v want=%v", got, want)
		}
	}
}

func TestTopWordsBoundedByDistinctTokens(t *testing.T) {
	t.Parallel()

	got := TopWords([]impulse.Log{entry(9, 0, "tired tired", impulse.ActedNo)}, 3)
	if len(got) != 1 || got[0] != "tired" {
		t.Fatalf("got=%v", got)
	}
	if got := TopWords([]impulse.Log{entry(9, 0, "   ", impulse.ActedNo)}, 3); len(got) != 0 {
		t.Fatalf("got=%v", got)
	}
}
