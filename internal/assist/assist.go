package assist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// ErrEmptyPrompt is returned when there is nothing to send.
var ErrEmptyPrompt = errors.New("prompt is empty")

const formatPrompt = `Format the following note into a well-structured document. Rules:
- Add appropriate headings (H2, H3) where it makes sense
- Convert lists of URLs into bullet lists with links
- Detect and wrap code snippets in fenced code blocks with the correct language
- Convert dash/star lists into proper bullet lists
- Keep the original content and meaning, do NOT add, remove, or rephrase anything
- Return clean Markdown only, no explanation, no wrapping code fences

Note content:
`

// Service is a thin passthrough to the model provider for the two
// editor helpers: drafting content from a prompt and reformatting an
// existing note.
type Service struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float64
	logger      *zap.Logger
}

func New(apiKey, model string, maxTokens int, temperature float64, logger *zap.Logger) *Service {
	return &Service{
		client:      openai.NewClient(apiKey),
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		logger:      logger,
	}
}

// Generate produces note content from a free-form prompt.
func (s *Service) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}
	return s.complete(ctx, prompt, s.temperature)
}

// Format restructures existing note content without changing its
// meaning. Runs near-deterministic so repeated formatting converges.
func (s *Service) Format(ctx context.Context, noteContent string) (string, error) {
	if strings.TrimSpace(noteContent) == "" {
		return "", ErrEmptyPrompt
	}
	return s.complete(ctx, formatPrompt+noteContent, 0.1)
}

func (s *Service) complete(ctx context.Context, prompt string, temperature float64) (string, error) {
	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			MaxTokens:   s.maxTokens,
			Temperature: float32(temperature),
		},
	)
	if err != nil {
		s.logger.Error("Assist request failed", zap.Error(err))
		return "", fmt.Errorf("assist request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("assist returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
