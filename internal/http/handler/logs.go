package handler

import (
	"context"
	"net/http"
	"time"

	"journal/internal/impulse"

	"github.com/sirupsen/logrus"
)

type LogStore interface {
	Insert(ctx context.Context, in impulse.NewLog) (impulse.Log, error)
	ListAll(ctx context.Context) ([]impulse.Log, error)
	DeleteByID(ctx context.Context, id uint64) error
	DeleteAll(ctx context.Context) error
}

type LogHandler struct {
	Store LogStore
	Now   func() time.Time
	Log   logrus.FieldLogger
}

type submitLogReq struct {
	Datetime string `json:"datetime"`
	Feeling  string `json:"feeling"`
	Acted    string `json:"acted"`
}

type logDTO struct {
	ID        uint64    `json:"id"`
	Datetime  string    `json:"datetime"`
	Feeling   string    `json:"feeling"`
	Acted     string    `json:"acted"`
	CreatedAt time.Time `json:"created_at"`
}

func toLogDTO(l impulse.Log) logDTO {
	return logDTO{
		ID:        l.ID,
		Datetime:  l.Datetime.Format(wireTime),
		Feeling:   l.Feeling,
		Acted:     string(l.Acted),
		CreatedAt: l.CreatedAt,
	}
}

func (h *LogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req submitLogReq
	if !decodeJSON(w, r, &req) {
		return
	}

	dt, err := impulse.ParseDatetime(req.Datetime, h.Now())
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	acted, err := impulse.ParseActed(req.Acted)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	l, err := h.Store.Insert(r.Context(), impulse.NewLog{Datetime: dt, Feeling: req.Feeling, Acted: acted})
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, toLogDTO(l))
}

func (h *LogHandler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Store.ListAll(r.Context())
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	items := make([]logDTO, 0, len(rows))
	for _, l := range rows {
		items = append(items, toLogDTO(l))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *LogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.Store.DeleteByID(r.Context(), id); err != nil {
		writeError(w, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *LogHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteAll(r.Context()); err != nil {
		writeError(w, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
