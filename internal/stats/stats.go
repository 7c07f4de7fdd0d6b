// Package stats turns a window of impulse logs into aggregate metrics.
package stats

import (
	"sort"
	"strings"

	"journal/internal/apperr"
	"journal/internal/impulse"
)

const topWordsLimit = 3

type Summary struct {
	Total          int      `json:"total_impulses"`
	Acted          int      `json:"acted_impulses"`
	Resisted       int      `json:"resisted_impulses"`
	ResistanceRate int      `json:"resistance_rate_percent"`
	PeakHour       int      `json:"peak_hour"`
	TopWords       []string `json:"top_emotion_words"`
}

// Summarize computes the summary for logs, which should be in chronological
// order so that word ties keep their first-seen order.
func Summarize(logs []impulse.Log) (Summary, error) {
	if len(logs) == 0 {
		return Summary{}, apperr.ErrInsufficientData
	}

	s := Summary{Total: len(logs)}
	var hours [24]int
	for _, l := range logs {
		if l.Acted == impulse.ActedYes {
			s.Acted++
		}
		hours[l.Datetime.Hour()]++
	}
	s.Resisted = s.Total - s.Acted
	s.ResistanceRate = percentRounded(s.Resisted, s.Total)
	s.PeakHour = peakHour(hours)
	s.TopWords = TopWords(logs, topWordsLimit)
	return s, nil
}

// percentRounded is round-half-up of part/whole*100 in integer arithmetic.
func percentRounded(part, whole int) int {
	return (part*200 + whole) / (2 * whole)
}

func peakHour(hours [24]int) int {
	peak := 0
	for h := 1; h < len(hours); h++ {
		if hours[h] > hours[peak] {
			peak = h
		}
	}
	return peak
}

type wordCount struct {
	word  string
	count int
}

// TopWords ranks raw whitespace tokens of the feelings by frequency. No stemming
// and no stop words.
func TopWords(logs []impulse.Log, n int) []string {
	index := map[string]int{}
	var counts []wordCount
	for _, l := range logs {
		for _, w := range strings.Fields(strings.ToLower(l.Feeling)) {
			if i, ok := index[w]; ok {
				counts[i].count++
				continue
			}
			index[w] = len(counts)
			counts = append(counts, wordCount{word: w, count: 1})
		}
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].count > counts[j].count
	})

	if len(counts) > n {
		counts = counts[:n]
	}
	out := make([]string, 0, len(counts))
	for _, c := range counts {
		out = append(out, c.word)
	}
	return out
}
