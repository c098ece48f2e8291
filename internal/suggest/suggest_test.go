package suggest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/anonto42/postcraft/backend/internal/models"
	"github.com/anonto42/postcraft/backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	text         string
	err          error
	instructions []string
}

func (f *fakeCompleter) Complete(_ context.Context, instruction string) (string, error) {
	f.instructions = append(f.instructions, instruction)
	return f.text, f.err
}

func TestParseSuggestions(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"comma list", `Launch Day, "Ship It", Go Live`, []string{"Launch Day", "Ship It", "Go Live"}},
		{"newlines", "\"First\"\n\nSecond\n", []string{"First", "Second"}},
		{"mixed", "A,\nB ,, C", []string{"A", "B", "C"}},
		{"only quotes", `"",""`, []string{}},
		{"empty", "", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSuggestions(tt.text))
		})
	}
}

func TestInstructionPicksTemplateByField(t *testing.T) {
	assert.True(t, strings.HasPrefix(Instruction("coffee", "title"), "Generate 3 short, catchy post titles"))
	assert.Contains(t, Instruction("coffee", "title"), "based on: coffee.")
	assert.True(t, strings.HasPrefix(Instruction("coffee", "description"), "Generate a single detailed post caption"))
	assert.True(t, strings.HasPrefix(Instruction("coffee", ""), "Generate a single detailed post caption"))
}

func TestServiceSuggest(t *testing.T) {
	fake := &fakeCompleter{text: "One, Two, Three"}
	svc := NewService(fake, logger.Discard())

	got, err := svc.Suggest(context.Background(), "coffee shop opening", "title")
	require.NoError(t, err)
	assert.Equal(t, []string{"One", "Two", "Three"}, got)
	assert.Len(t, fake.instructions, 1)
}

func TestServiceSuggestErrors(t *testing.T) {
	_, err := NewService(&fakeCompleter{}, logger.Discard()).Suggest(context.Background(), "  ", "title")
	assert.True(t, models.IsKind(err, models.KindValidation))

	fake := &fakeCompleter{err: errors.New("boom")}
	_, err = NewService(fake, logger.Discard()).Suggest(context.Background(), "coffee", "title")
	assert.True(t, models.IsKind(err, models.KindUpstream))
	assert.Len(t, fake.instructions, 1, "no retry")

	_, err = NewService(nil, logger.Discard()).Suggest(context.Background(), "coffee", "title")
	assert.True(t, models.IsKind(err, models.KindUpstream))
}

func TestOpenAICompleter(t *testing.T) {
	var got struct {
		Model       string  `json:"model"`
		Temperature float64 `json:"temperature"`
		MaxTokens   int     `json:"max_tokens"`
		Messages    []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	var headers http.Header

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		headers = r.Header.Clone()
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"openai/gpt-4o",
			"choices":[{"index":0,"message":{"role":"assistant","content":"Alpha, Beta"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	c := NewOpenAICompleter(OpenAIConfig{
		APIKey:   "key",
		BaseURL:  srv.URL,
		Model:    "openai/gpt-4o",
		Referer:  "http://localhost:3000",
		AppTitle: "PostCraft",
	})

	text, err := c.Complete(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "Alpha, Beta", text)

	assert.Equal(t, "openai/gpt-4o", got.Model)
	assert.InDelta(t, 0.7, got.Temperature, 0.0001)
	assert.Equal(t, 400, got.MaxTokens)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "hello", got.Messages[0].Content)

	assert.Equal(t, "Bearer key", headers.Get("Authorization"))
	assert.Equal(t, "http://localhost:3000", headers.Get("HTTP-Referer"))
	assert.Equal(t, "PostCraft", headers.Get("X-Title"))
}

func TestOpenAICompleterUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":{"message":"upstream down","type":"server_error"}}`))
	}))
	defer srv.Close()

	c := NewOpenAICompleter(OpenAIConfig{APIKey: "key", BaseURL: srv.URL, Model: "m"})
	_, err := c.Complete(context.Background(), "hello")
	assert.Error(t, err)
}
