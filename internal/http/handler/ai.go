package handler

import (
	"context"
	"net/http"

	"journal/internal/ai"

	"github.com/sirupsen/logrus"
)

type Narrator interface {
	AnalyzeEmotion(ctx context.Context, text string) (ai.EmotionAnalysis, error)
	Chat(ctx context.Context, message string, history []ai.Message) (string, error)
}

type AIHandler struct {
	Narrator Narrator
	Log      logrus.FieldLogger
}

type analyzeReq struct {
	Text string `json:"text"`
}

func (h *AIHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeReq
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.Narrator.AnalyzeEmotion(r.Context(), req.Text)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type chatReq struct {
	Message string       `json:"message"`
	History []ai.Message `json:"history"`
}

func (h *AIHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatReq
	if !decodeJSON(w, r, &req) {
		return
	}
	reply, err := h.Narrator.Chat(r.Context(), req.Message, req.History)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reply": reply})
}
