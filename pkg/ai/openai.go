package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	aiDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "praxis",
		Subsystem: "ai",
		Name:      "review_duration_seconds",
		Help:      "Duration of AI review requests",
	}, []string{"model"})

	aiFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "praxis",
		Subsystem: "ai",
		Name:      "review_failures_total",
		Help:      "Number of AI review failures",
	}, []string{"model"})
)

// OpenAIConfig defines configuration options for the OpenAI reviewer.
type OpenAIConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	Logger      zerolog.Logger
}

// OpenAIReviewer implements Reviewer against the OpenAI chat completion API.
type OpenAIReviewer struct {
	client *openai.Client
	cfg    OpenAIConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenAIReviewer builds a reviewer using the provided configuration.
func NewOpenAIReviewer(cfg OpenAIConfig) (*OpenAIReviewer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1024
	}

	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	return &OpenAIReviewer{
		client: openai.NewClientWithConfig(openai.DefaultConfig(cfg.APIKey)),
		cfg:    cfg,
		tracer: otel.Tracer("github.com/praxislab/praxis-go-api/pkg/ai/openai"),
		logger: logger,
	}, nil
}

type reviewPayload struct {
	Suggestions []ReviewSuggestion `json:"suggestions"`
}

// Review sends the drafting request to OpenAI and parses the response.
func (r *OpenAIReviewer) Review(parent context.Context, input ReviewInput) ([]ReviewSuggestion, error) {
	ctx, span := r.tracer.Start(parent, "openai.review", trace.WithAttributes(
		attribute.String("model", r.cfg.Model),
		attribute.Int("criteria", len(input.Criteria)),
	))
	defer span.End()

	request := openai.ChatCompletionRequest{
		Model:       r.cfg.Model,
		MaxTokens:   r.cfg.MaxTokens,
		Temperature: r.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: reviewerSystemPrompt(),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildReviewPrompt(input),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	}

	start := time.Now()
	resp, err := r.client.CreateChatCompletion(ctx, request)
	aiDuration.WithLabelValues(r.cfg.Model).Observe(time.Since(start).Seconds())
	if err != nil {
		aiFailures.WithLabelValues(r.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("openai review: %w", err)
	}

	if len(resp.Choices) == 0 {
		aiFailures.WithLabelValues(r.cfg.Model).Inc()
		return nil, fmt.Errorf("no choices returned from openai")
	}

	var payload reviewPayload
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		aiFailures.WithLabelValues(r.cfg.Model).Inc()
		span.RecordError(err)
		return nil, fmt.Errorf("parse openai review response: %w", err)
	}

	return payload.Suggestions, nil
}

func reviewerSystemPrompt() string {
	return strings.TrimSpace(`
You are an experienced educator drafting rubric-based feedback on a team's
final project report. For every rubric criterion you are given, propose an
integer score within the stated range and a short, specific justification.
Respond with a JSON object: {"suggestions": [{"criterion_id": ..., "score": ..., "justification": "..."}]}.
`)
}

func buildReviewPrompt(input ReviewInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Problem: %s\n", input.ProblemTitle)
	if input.ReportURL != "" {
		fmt.Fprintf(&b, "Report URL: %s\n", input.ReportURL)
	}
	b.WriteString("Rubric criteria:\n")
	for _, criterion := range input.Criteria {
		fmt.Fprintf(&b, "- id=%d %s (score 1..%d)\n", criterion.ID, criterion.Title, criterion.MaxScore)
	}
	if input.ReportContent != "" {
		b.WriteString("\nReport content:\n")
		b.WriteString(input.ReportContent)
	}
	return b.String()
}
