// Package suggest produces title and caption ideas through a text completion service.
package suggest

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/anonto42/postcraft/backend/internal/models"
	"github.com/sirupsen/logrus"
)

// FieldTitle selects the title template; any other field gets the caption template.
const FieldTitle = "title"

const titleTemplate = "Generate 3 short, catchy post titles for social media based on: %s. " +
	"Use a friendly, engaging style suitable for Instagram, LinkedIn, or Facebook. " +
	"Return them as a comma-separated list. Do not use quotes at start or end."

const captionTemplate = "Generate a single detailed post caption/description for social media based on: %s. " +
	"Make it at least 30-50 words long. " +
	"Use a friendly, engaging style suitable for Instagram, LinkedIn, or Facebook. " +
	"Do NOT include any hashtags, @mentions, or tags. " +
	"Return plain text without quotes at the start or end."

var splitPattern = regexp.MustCompile(`\n|,`)

// Completer sends one instruction to a completion service and returns its text.
type Completer interface {
	Complete(ctx context.Context, instruction string) (string, error)
}

// Service turns prompts into suggestion lists.
type Service struct {
	completer Completer
	log       *logrus.Logger
}

// NewService creates a Service. A nil completer makes every call fail as upstream unavailable.
func NewService(completer Completer, log *logrus.Logger) *Service {
	return &Service{completer: completer, log: log}
}

// Instruction builds the completion instruction for field.
func Instruction(prompt, field string) string {
	if field == FieldTitle {
		return fmt.Sprintf(titleTemplate, prompt)
	}
	return fmt.Sprintf(captionTemplate, prompt)
}

// Suggest makes exactly one upstream call and returns the cleaned candidates.
func (s *Service) Suggest(ctx context.Context, prompt, field string) ([]string, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, models.NewValidationError("Prompt missing")
	}
	if s.completer == nil {
		return nil, models.NewUpstreamError(fmt.Errorf("no completion service configured"))
	}

	text, err := s.completer.Complete(ctx, Instruction(prompt, field))
	if err != nil {
		s.log.WithError(err).WithField("field", field).Error("suggestion request failed")
		return nil, models.NewUpstreamError(err)
	}
	return ParseSuggestions(text), nil
}

// ParseSuggestions splits text on newlines and commas, trims each candidate,
// strips surrounding double quotes and drops empty candidates.
func ParseSuggestions(text string) []string {
	suggestions := []string{}
	for _, part := range splitPattern.Split(text, -1) {
		s := strings.Trim(strings.TrimSpace(part), `"`)
		if s != "" {
			suggestions = append(suggestions, s)
		}
	}
	return suggestions
}
