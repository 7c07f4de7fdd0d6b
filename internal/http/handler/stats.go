package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"journal/internal/apperr"
	"journal/internal/impulse"
	"journal/internal/stats"

	"github.com/sirupsen/logrus"
)

const (
	defaultStatsDays = 7
	maxStatsDays     = 365
)

type WindowLister interface {
	ListInWindow(ctx context.Context, start, end time.Time) ([]impulse.Log, error)
}

type StatsHandler struct {
	Logs WindowLister
	Now  func() time.Time
	Log  logrus.FieldLogger
}

type statsResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Days  int    `json:"days"`
	stats.Summary
}

// Get summarizes the trailing ?days=N window. An empty window yields zero counts.
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	days := defaultStatsDays
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxStatsDays {
			writeError(w, h.Log, apperr.Invalid("days", "must be between 1 and 365"))
			return
		}
		days = n
	}

	end := impulse.WallClock(h.Now())
	start := end.AddDate(0, 0, -days)

	logs, err := h.Logs.ListInWindow(r.Context(), start, end)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	summary, err := stats.Summarize(logs)
	if errors.Is(err, apperr.ErrInsufficientData) {
		summary = stats.Summary{TopWords: []string{}}
	} else if err != nil {
		writeError(w, h.Log, err)
		return
	}

	writeJSON(w, http.StatusOK, statsResponse{
		Start:   start.Format(wireTime),
		End:     end.Format(wireTime),
		Days:    days,
		Summary: summary,
	})
}
