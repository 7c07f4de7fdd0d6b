package ai

import (
	"context"
	"errors"
	"fmt"

	"journal/internal/apperr"

	einoopenai "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"
)

// ChatModel completes through an OpenAI-compatible Chat Completions endpoint
// (DeepSeek and similar vendors). Structured-output schemas are not sent; the
// emotion prompt already asks for JSON and parsing falls back on its own.
type ChatModel struct {
	model   model.BaseChatModel
	limiter *rate.Limiter
}

func NewChatModel(ctx context.Context, apiKey, baseURL, modelName string, limiter *rate.Limiter) (*ChatModel, error) {
	if apiKey == "" {
		return nil, errors.New("chat model: missing api key")
	}
	cm, err := einoopenai.NewChatModel(ctx, &einoopenai.ChatModelConfig{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   modelName,
	})
	if err != nil {
		return nil, fmt.Errorf("chat model init: %w", err)
	}
	return &ChatModel{model: cm, limiter: limiter}, nil
}

func (c *ChatModel) Complete(ctx context.Context, req Request) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", apperr.Unavailable(err)
		}
	}

	msgs := make([]*schema.Message, 0, len(req.Messages)+1)
	msgs = append(msgs, schema.SystemMessage(req.System))
	for _, m := range req.Messages {
		if m.Role == RoleAssistant {
			msgs = append(msgs, schema.AssistantMessage(m.Content, nil))
			continue
		}
		msgs = append(msgs, schema.UserMessage(m.Content))
	}

	var opts []model.Option
	if req.Model != "" {
		opts = append(opts, model.WithModel(req.Model))
	}
	if req.MaxTokens > 0 {
		opts = append(opts, model.WithMaxTokens(req.MaxTokens))
	}
	if req.Temperature > 0 {
		opts = append(opts, model.WithTemperature(float32(req.Temperature)))
	}

	resp, err := c.model.Generate(ctx, msgs, opts...)
	if err != nil {
		return "", apperr.Unavailable(fmt.Errorf("chat completion: %w", err))
	}
	return resp.Content, nil
}
