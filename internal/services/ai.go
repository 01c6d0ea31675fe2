package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/thunderbolt-trucking/dispatch-api/internal/constants"
)

var (
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoDraftsGenerated    = errors.New("AI did not generate any job drafts")
	ErrAINoValidDrafts        = errors.New("no valid job drafts could be created from AI output")
)

// AIService turns free-text order notes into job drafts.
type AIService struct {
	client *openai.Client
	now    func() time.Time
}

// JobDraft is an unsaved job suggested from order notes.
type JobDraft struct {
	TruckType   string     `json:"truck_type"`
	Material    string     `json:"material"`
	Quantity    *float64   `json:"quantity"`
	TimingStart *time.Time `json:"timing_start"`
	TimingEnd   *time.Time `json:"timing_end"`
	Notes       string     `json:"notes"`
}

// NewAIService returns a service whose client is nil when apiKey is empty.
func NewAIService(apiKey string) *AIService {
	if apiKey == "" {
		return &AIService{now: time.Now}
	}
	return NewAIServiceWithConfig(openai.DefaultConfig(apiKey))
}

func NewAIServiceWithConfig(config openai.ClientConfig) *AIService {
	return &AIService{
		client: openai.NewClientWithConfig(config),
		now:    time.Now,
	}
}

// Configured reports whether an API key was supplied.
func (s *AIService) Configured() bool {
	return s != nil && s.client != nil
}

// DraftJobs extracts job drafts from text using OpenAI GPT. Drafts without a
// truck type are dropped and at most MaxAIGeneratedDrafts are returned.
func (s *AIService) DraftJobs(ctx context.Context, text string) ([]JobDraft, error) {
	if !s.Configured() {
		return nil, ErrAIServiceNotConfigured
	}

	currentTime := s.now().Format(time.RFC3339)
	prompt := fmt.Sprintf(`You extract hauling jobs for a trucking dispatcher from customer order notes.

Current time: %s

Order notes:
%s

Return a JSON array of jobs in this shape:
[
  {
    "truck_type": "one of dump_truck, water_truck, float, hydroseeder, sweeper",
    "material": "material to haul, empty if not stated",
    "quantity": <number of tonnes or loads, or null>,
    "timing_start": "RFC3339 start time" or null,
    "timing_end": "RFC3339 end time" or null,
    "notes": "anything else the driver needs to know"
  }
]

Rules:
- Return [] when the notes contain no job
- Convert relative times such as "tomorrow morning" to absolute RFC3339 times
- Return only JSON with no explanation`, currentTime, text)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4o,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.2,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, ErrAINoDraftsGenerated
	}

	content := stripCodeFence(resp.Choices[0].Message.Content)

	var drafts []JobDraft
	if err := json.Unmarshal([]byte(content), &drafts); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}
	if len(drafts) == 0 {
		return nil, ErrAINoDraftsGenerated
	}

	valid := make([]JobDraft, 0, len(drafts))
	for _, d := range drafts {
		d.TruckType = strings.TrimSpace(d.TruckType)
		if d.TruckType == "" {
			continue
		}
		valid = append(valid, d)
		if len(valid) == constants.MaxAIGeneratedDrafts {
			break
		}
	}
	if len(valid) == 0 {
		return nil, ErrAINoValidDrafts
	}

	return valid, nil
}

// stripCodeFence removes a surrounding markdown code block if the model added one.
func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
