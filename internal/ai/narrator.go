package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"journal/internal/apperr"

	"github.com/sirupsen/logrus"
)

// EmotionAnalysis is the structured result of a single-text analysis.
type EmotionAnalysis struct {
	PrimaryEmotion   string   `json:"primaryEmotion"`
	Intensity        int      `json:"intensity"`
	Triggers         []string `json:"triggers"`
	CopingStrategies []string `json:"copingStrategies"`
}

// FallbackAnalysis is returned whenever the model output cannot be used.
func FallbackAnalysis() EmotionAnalysis {
	return EmotionAnalysis{
		PrimaryEmotion:   "unknown",
		Intensity:        5,
		Triggers:         []string{"undetermined"},
		CopingStrategies: []string{"breathe", "seek support"},
	}
}

var emotionSchema = &Schema{
	Name:        "EmotionAnalysis",
	Description: "Emotion analysis of one journal entry",
	Definition:  GenerateSchema[EmotionAnalysis](),
}

type ChatContexter interface {
	ChatContext(ctx context.Context) (string, error)
}

type Options struct {
	Model        string
	MaxTokens    int
	Temperature  float64
	Timeout      time.Duration
	HistoryLimit int
}

// Narrator owns every prompt sent to the completion service.
type Narrator struct {
	completer Completer
	chatCtx   ChatContexter
	opts      Options
	log       logrus.FieldLogger
}

func NewNarrator(c Completer, chatCtx ChatContexter, opts Options, log logrus.FieldLogger) *Narrator {
	return &Narrator{completer: c, chatCtx: chatCtx, opts: opts, log: log}
}

func (n *Narrator) AnalyzeEmotion(ctx context.Context, text string) (EmotionAnalysis, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return EmotionAnalysis{}, apperr.Invalid("text", "required")
	}

	out, err := n.complete(ctx, emotionPrompt, []Message{{Role: RoleUser, Content: text}}, emotionSchema)
	if err != nil {
		return EmotionAnalysis{}, err
	}

	res := parseAnalysis(out)
	if res.outcome == fallbackUsed {
		n.log.WithFields(logrus.Fields{"reason": res.reason, "output_len": len(out)}).
			Warn("emotion analysis output unusable, using fallback")
	}
	return res.analysis, nil
}

func (n *Narrator) Chat(ctx context.Context, message string, history []Message) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", apperr.Invalid("message", "required")
	}
	for _, m := range history {
		if m.Role != RoleUser && m.Role != RoleAssistant {
			return "", apperr.Invalid("history", fmt.Sprintf("unknown role %q", m.Role))
		}
	}
	if limit := n.opts.HistoryLimit; limit > 0 && len(history) > limit {
		history = history[len(history)-limit:]
	}

	block, err := n.chatCtx.ChatContext(ctx)
	if err != nil {
		return "", err
	}

	msgs := make([]Message, 0, len(history)+1)
	msgs = append(msgs, history...)
	msgs = append(msgs, Message{Role: RoleUser, Content: message})

	reply, err := n.complete(ctx, chatPersona+block, msgs, nil)
	if err != nil {
		return "", err
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return chatApology, nil
	}
	return reply, nil
}

// ReportNarrative writes the weekly report prose for a rendered report context.
func (n *Narrator) ReportNarrative(ctx context.Context, reportContext string) (string, error) {
	out, err := n.complete(ctx, reportPrompt, []Message{{Role: RoleUser, Content: reportContext}}, nil)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (n *Narrator) complete(ctx context.Context, system string, msgs []Message, schema *Schema) (string, error) {
	if n.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	out, err := n.completer.Complete(ctx, Request{
		Model:       n.opts.Model,
		System:      system,
		Messages:    msgs,
		MaxTokens:   n.opts.MaxTokens,
		Temperature: n.opts.Temperature,
		Schema:      schema,
	})
	if err != nil {
		n.log.WithFields(logrus.Fields{"error": err, "elapsed": time.Since(start)}).Error("completion failed")
		if !errors.Is(err, apperr.ErrServiceUnavailable) {
			err = apperr.Unavailable(err)
		}
		return "", err
	}
	n.log.WithField("elapsed", time.Since(start)).Debug("completion done")
	return out, nil
}

type analysisOutcome int

const (
	parsedOK analysisOutcome = iota
	fallbackUsed
)

type analysisResult struct {
	analysis EmotionAnalysis
	outcome  analysisOutcome
	reason   error
}

func parseAnalysis(out string) analysisResult {
	var a EmotionAnalysis
	if err := decodeModelJSON(out, &a); err != nil {
		return analysisResult{analysis: FallbackAnalysis(), outcome: fallbackUsed, reason: err}
	}
	a.PrimaryEmotion = strings.TrimSpace(a.PrimaryEmotion)
	switch {
	case a.PrimaryEmotion == "":
		return analysisResult{analysis: FallbackAnalysis(), outcome: fallbackUsed, reason: errors.New("missing primaryEmotion")}
	case a.Intensity < 1 || a.Intensity > 10:
		return analysisResult{analysis: FallbackAnalysis(), outcome: fallbackUsed, reason: fmt.Errorf("intensity %d out of range", a.Intensity)}
	}
	if a.Triggers == nil {
		a.Triggers = []string{}
	}
	if a.CopingStrategies == nil {
		a.CopingStrategies = []string{}
	}
	return analysisResult{analysis: a, outcome: parsedOK}
}

// decodeModelJSON tolerates code fences and chatter around the first JSON object.
func decodeModelJSON(out string, v any) error {
	s := strings.TrimSpace(out)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)
	if s == "" {
		return io.ErrUnexpectedEOF
	}

	if err := json.Unmarshal([]byte(s), v); err == nil {
		return nil
	}

	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start == -1 || end <= start {
		return fmt.Errorf("no JSON object found in model output (len=%d)", len(s))
	}
	if err := json.Unmarshal([]byte(s[start:end+1]), v); err != nil {
		return fmt.Errorf("unmarshal extracted JSON (len=%d): %w", end+1-start, err)
	}
	return nil
}
