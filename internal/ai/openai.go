package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"journal/internal/apperr"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const maxAttempts = 3

var retryWaits = []time.Duration{1 * time.Second, 3 * time.Second, 9 * time.Second}

// OpenAI completes through the Responses API.
type OpenAI struct {
	client  openai.Client
	model   string
	limiter *rate.Limiter
	log     logrus.FieldLogger
}

func NewOpenAI(apiKey, baseURL, model string, limiter *rate.Limiter, log logrus.FieldLogger) (*OpenAI, error) {
	if apiKey == "" {
		return nil, errors.New("openai: missing api key")
	}
	if model == "" {
		return nil, errors.New("openai: missing model")
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAI{
		client:  openai.NewClient(opts...),
		model:   model,
		limiter: limiter,
		log:     log,
	}, nil
}

func (o *OpenAI) Complete(ctx context.Context, req Request) (string, error) {
	params := o.params(req)

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if o.limiter != nil {
			if err := o.limiter.Wait(ctx); err != nil {
				return "", apperr.Unavailable(err)
			}
		}

		resp, err := o.client.Responses.New(ctx, params)
		if err == nil {
			return resp.OutputText(), nil
		}
		lastErr = err
		if !retryable(err) || attempt == maxAttempts-1 {
			break
		}

		o.log.WithFields(logrus.Fields{"attempt": attempt + 1, "error": err}).Warn("completion failed, retrying")
		select {
		case <-ctx.Done():
			return "", apperr.Unavailable(ctx.Err())
		case <-time.After(retryWaits[attempt]):
		}
	}
	return "", apperr.Unavailable(fmt.Errorf("openai responses: %w", lastErr))
}

func (o *OpenAI) params(req Request) responses.ResponseNewParams {
	model := req.Model
	if model == "" {
		model = o.model
	}

	items := make([]responses.ResponseInputItemUnionParam, 0, len(req.Messages))
	for _, m := range req.Messages {
		role := responses.EasyInputMessageRoleUser
		if m.Role == RoleAssistant {
			role = responses.EasyInputMessageRoleAssistant
		}
		items = append(items, responses.ResponseInputItemParamOfMessage(m.Content, role))
	}

	params := responses.ResponseNewParams{
		Model:        model,
		Instructions: openai.String(req.System),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: items,
		},
	}
	if req.MaxTokens > 0 {
		params.MaxOutputTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	if req.Schema != nil {
		params.Text = responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Name:        req.Schema.Name,
					Schema:      req.Schema.Definition,
					Strict:      openai.Bool(true),
					Description: openai.String(req.Schema.Description),
					Type:        "json_schema",
				},
			},
		}
	}
	return params
}

// retryable reports rate limiting and server-side failures.
func retryable(err error) bool {
	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= http.StatusInternalServerError
}
