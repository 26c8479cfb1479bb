package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	"google.golang.org/genai"

	"github.com/avelow/recite-api/internal/config"
	"github.com/avelow/recite-api/internal/domain"
	"github.com/avelow/recite-api/internal/grading"
)

// gradingPromptTemplate instructs the model to act as a strict tutor and
// answer in the JSON shape of judgmentSchema. The three-level status is part
// of the contract; anything else fails validation downstream.
const gradingPromptTemplate = `You are a strict but encouraging language tutor grading a learner's answer.

Exercise:
{{.Prompt}}

Reference answer:
{{.Reference}}

Learner's answer:
{{.Answer}}

Grade the learner's answer against the reference answer. Meaning matters more
than exact wording; accept synonyms and alternative phrasings that preserve
the meaning.

Respond with a single JSON object and nothing else:
{
  "status": "CORRECT" | "PARTIAL" | "INCORRECT",
  "feedback": "one or two sentences for the learner",
  "correction": "the corrected answer, only when status is not CORRECT",
  "analysis": "a short note on the main error, optional"
}`

// Judge implements the grading.Judge interface using Google's Gemini API.
type Judge struct {
	logger         *slog.Logger
	client         *genai.Client
	model          string
	promptTemplate *template.Template
}

var _ grading.Judge = (*Judge)(nil)

// NewJudge creates a Gemini-backed judge. It fails when the API key or model
// name is missing; callers that want degraded operation without a judge
// should not construct one.
func NewJudge(ctx context.Context, logger *slog.Logger, cfg config.JudgeConfig) (*Judge, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", grading.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", grading.ErrInvalidConfig)
	}

	promptTemplate, err := template.New("grading").Parse(gradingPromptTemplate)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v", grading.ErrInvalidConfig, err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", grading.ErrInvalidConfig, err)
	}

	return &Judge{
		logger:         logger.With(slog.String("component", "gemini_judge")),
		client:         client,
		model:          cfg.ModelName,
		promptTemplate: promptTemplate,
	}, nil
}

// Grade implements grading.Judge. It makes exactly one API attempt; the
// caller owns the timeout on ctx.
func (j *Judge) Grade(ctx context.Context, req grading.Request) (*domain.GradingOutcome, error) {
	prompt, err := j.buildPrompt(req)
	if err != nil {
		return nil, err
	}

	j.logger.DebugContext(ctx, "calling judgment service",
		slog.String("model", j.model),
		slog.Int("prompt_length", len(prompt)))

	resp, err := j.client.Models.GenerateContent(ctx, j.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		// Network and service errors are worth retrying.
		return nil, fmt.Errorf("%w: %v", grading.ErrTransientFailure, err)
	}

	return j.parseResponse(resp)
}

func (j *Judge) buildPrompt(req grading.Request) (string, error) {
	var buf bytes.Buffer
	err := j.promptTemplate.Execute(&buf, promptData{
		Prompt:    req.Prompt,
		Answer:    req.Answer,
		Reference: req.Reference,
	})
	if err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}

// parseResponse maps the raw API response to a grading outcome. Shape
// problems map to ErrInvalidResponse and safety blocks to ErrContentBlocked;
// neither is retried.
func (j *Judge) parseResponse(resp *genai.GenerateContentResponse) (*domain.GradingOutcome, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("%w: no candidates in response", grading.ErrInvalidResponse)
	}

	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return nil, fmt.Errorf("%w: blocked by safety filters", grading.ErrContentBlocked)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("%w: empty content in response", grading.ErrInvalidResponse)
	}

	var judgment judgmentSchema
	if err := json.Unmarshal([]byte(text), &judgment); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON response: %v", grading.ErrInvalidResponse, err)
	}

	outcome := &domain.GradingOutcome{
		Status:     domain.GradingStatus(strings.ToUpper(strings.TrimSpace(judgment.Status))),
		Feedback:   strings.TrimSpace(judgment.Feedback),
		Correction: strings.TrimSpace(judgment.Correction),
		Analysis:   strings.TrimSpace(judgment.Analysis),
	}

	return outcome, nil
}
