package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeOpenAI(t *testing.T, content string) *AIService {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			ID:     "chatcmpl-test",
			Object: "chat.completion",
			Model:  openai.GPT4o,
			Choices: []openai.ChatCompletionChoice{
				{
					Index:        0,
					Message:      openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content},
					FinishReason: openai.FinishReasonStop,
				},
			},
		})
	}))
	t.Cleanup(server.Close)

	config := openai.DefaultConfig("test-key")
	config.BaseURL = server.URL + "/v1"
	return NewAIServiceWithConfig(config)
}

func TestAIService_NotConfigured(t *testing.T) {
	service := NewAIService("")
	assert.False(t, service.Configured())

	_, err := service.DraftJobs(context.Background(), "two loads of gravel")
	assert.ErrorIs(t, err, ErrAIServiceNotConfigured)
}

func TestAIService_DraftJobs(t *testing.T) {
	content := "```json\n" + `[
		{"truck_type": "dump_truck", "material": "gravel", "quantity": 2, "timing_start": "2024-06-01T07:00:00Z", "timing_end": null, "notes": "gate code 1234"},
		{"truck_type": "", "material": "unknown"}
	]` + "\n```"
	service := newFakeOpenAI(t, content)

	drafts, err := service.DraftJobs(context.Background(), "two loads of gravel tomorrow at 7")
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "dump_truck", drafts[0].TruckType)
	assert.Equal(t, "gravel", drafts[0].Material)
	require.NotNil(t, drafts[0].Quantity)
	assert.Equal(t, 2.0, *drafts[0].Quantity)
	require.NotNil(t, drafts[0].TimingStart)
	assert.Nil(t, drafts[0].TimingEnd)
}

func TestAIService_DraftJobsEmptyAndInvalid(t *testing.T) {
	_, err := newFakeOpenAI(t, "[]").DraftJobs(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrAINoDraftsGenerated)

	_, err = newFakeOpenAI(t, `[{"truck_type": " "}]`).DraftJobs(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrAINoValidDrafts)

	_, err = newFakeOpenAI(t, "not json").DraftJobs(context.Background(), "hello")
	assert.Error(t, err)
}
