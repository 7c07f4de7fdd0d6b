package handler

import (
	"context"
	"net/http"
	"time"

	"journal/internal/report"
	"journal/internal/stats"

	"github.com/sirupsen/logrus"
)

type ReportStore interface {
	ListAll(ctx context.Context) ([]report.Report, error)
	GetByID(ctx context.Context, id uint64) (report.Report, error)
}

type ReportGenerator interface {
	Generate(ctx context.Context, now time.Time) (report.Report, error)
}

type ReportHandler struct {
	Store     ReportStore
	Generator ReportGenerator
	Now       func() time.Time
	Log       logrus.FieldLogger
}

type reportDTO struct {
	ID        uint64        `json:"id"`
	WeekStart string        `json:"week_start"`
	WeekEnd   string        `json:"week_end"`
	Content   string        `json:"content"`
	Stats     stats.Summary `json:"stats"`
	CreatedAt time.Time     `json:"created_at"`
}

func toReportDTO(rep report.Report) reportDTO {
	return reportDTO{
		ID:        rep.ID,
		WeekStart: rep.WeekStart.Format(wireTime),
		WeekEnd:   rep.WeekEnd.Format(wireTime),
		Content:   rep.Content,
		Stats:     rep.Stats.Data(),
		CreatedAt: rep.CreatedAt,
	}
}

func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Store.ListAll(r.Context())
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	items := make([]reportDTO, 0, len(rows))
	for _, rep := range rows {
		items = append(items, toReportDTO(rep))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	rep, err := h.Store.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, toReportDTO(rep))
}

func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	rep, err := h.Generator.Generate(r.Context(), h.Now())
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, toReportDTO(rep))
}
