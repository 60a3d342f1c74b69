// Package languagemodel adapts the official OpenAI Go SDK into the
// LanguageModel contract: CheckDuplicate and Match. Grounded on
// guiyumin-vget's openai.go client-construction pattern and on
// internal/clients/openai/caption.go's parse-then-JSON-repair idiom for
// turning a free-form completion into a typed result.
package languagemodel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
	"github.com/yungbote/neurobridge-backend/internal/platform/workerr"
)

type Comment struct {
	Text  string `json:"text"`
	Score int    `json:"score"`
}

// LanguageModel is the out-of-scope LLM provider contract.
type LanguageModel interface {
	CheckDuplicate(ctx context.Context, textA, textB string) (probability int, err error)
	Match(ctx context.Context, vacancyText, resumeText string) (score int, comments []Comment, err error)
}

type client struct {
	log    *logger.Logger
	oa     openai.Client
	model  openai.ChatModel
}

func New(log *logger.Logger) (LanguageModel, error) {
	apiKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("languagemodel: missing OPENAI_API_KEY")
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if base := strings.TrimSpace(os.Getenv("OPENAI_BASE_URL")); base != "" {
		opts = append(opts, option.WithBaseURL(base))
	}

	model := openai.ChatModel(strings.TrimSpace(os.Getenv("OPENAI_MODEL")))
	if model == "" {
		model = openai.ChatModelGPT4o
	}

	return &client{
		log:   log.With("client", "LanguageModel"),
		oa:    openai.NewClient(opts...),
		model: model,
	}, nil
}

func (c *client) complete(ctx context.Context, system, user string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	resp, err := c.oa.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(0.0),
	})
	if err != nil {
		return "", workerr.Provider(err, nil)
	}
	if len(resp.Choices) == 0 {
		return "", workerr.Provider(errors.New("languagemodel: empty choices"), nil)
	}
	return resp.Choices[0].Message.Content, nil
}

func extractJSONObject(s string) string {
	s = strings.TrimSpace(s)
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}

func (c *client) repairJSON(ctx context.Context, raw string, shape string) (string, error) {
	repaired, err := c.complete(
		ctx,
		"You are a JSON repair tool. Output ONLY valid JSON matching the required shape, nothing else.",
		fmt.Sprintf("Fix the following into valid JSON with shape:\n%s\n\nRAW:\n%s", shape, raw),
	)
	if err != nil {
		return "", err
	}
	return extractJSONObject(repaired), nil
}

func (c *client) CheckDuplicate(ctx context.Context, textA, textB string) (int, error) {
	system := "You compare two job vacancy texts and judge whether they describe the same opening. " +
		"Respond with ONLY a JSON object: {\"probability\": <integer 1-10>}. 10 means certainly the same vacancy."
	user := fmt.Sprintf("Vacancy A:\n%s\n\nVacancy B:\n%s", textA, textB)

	raw, err := c.complete(ctx, system, user)
	if err != nil {
		return 0, err
	}

	var parsed struct {
		Probability int `json:"probability"`
	}
	body := extractJSONObject(raw)
	if err := json.Unmarshal([]byte(body), &parsed); err != nil || parsed.Probability < 1 || parsed.Probability > 10 {
		repaired, rErr := c.repairJSON(ctx, raw, `{"probability": <integer 1-10>}`)
		if rErr != nil {
			return 0, workerr.Validation(fmt.Errorf("check_duplicate: unparseable response: %w", err), map[string]any{"raw": raw})
		}
		if err := json.Unmarshal([]byte(repaired), &parsed); err != nil {
			return 0, workerr.Validation(fmt.Errorf("check_duplicate: unparseable after repair: %w", err), map[string]any{"raw": raw})
		}
	}
	return clamp(parsed.Probability, 1, 10), nil
}

func (c *client) Match(ctx context.Context, vacancyText, resumeText string) (int, []Comment, error) {
	system := "You score how well a resume matches a job vacancy. " +
		"Respond with ONLY a JSON object: " +
		`{"score": <integer 1-10>, "comments": [{"text": "...", "score": <integer 1-10>}]}`
	user := fmt.Sprintf("Vacancy:\n%s\n\nResume:\n%s", vacancyText, resumeText)

	raw, err := c.complete(ctx, system, user)
	if err != nil {
		return 0, nil, err
	}

	var parsed struct {
		Score    int       `json:"score"`
		Comments []Comment `json:"comments"`
	}
	body := extractJSONObject(raw)
	if err := json.Unmarshal([]byte(body), &parsed); err != nil || parsed.Score < 1 || parsed.Score > 10 {
		repaired, rErr := c.repairJSON(ctx, raw, `{"score": <integer 1-10>, "comments": [{"text": "...", "score": <integer 1-10>}]}`)
		if rErr != nil {
			return 0, nil, workerr.Validation(fmt.Errorf("match: unparseable response: %w", err), map[string]any{"raw": raw})
		}
		if err := json.Unmarshal([]byte(repaired), &parsed); err != nil {
			return 0, nil, workerr.Validation(fmt.Errorf("match: unparseable after repair: %w", err), map[string]any{"raw": raw})
		}
	}
	if parsed.Comments == nil {
		parsed.Comments = []Comment{}
	}
	return clamp(parsed.Score, 1, 10), parsed.Comments, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
