package openai

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/studyalong/recommender/internal/domain"
	"github.com/studyalong/recommender/internal/domain/catalog"
	"github.com/studyalong/recommender/internal/domain/document"
)

const systemPrompt = "You are a course advisor for an online learning platform. " +
	"Answer the learner's question using only the courses listed in the context. " +
	"Recommend the most suitable courses by title and say briefly why. " +
	"If none fit, say so."

// Synthesizer answers a course query from retrieved courses with a chat model.
type Synthesizer struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	logger      *zap.Logger
}

// SynthesizerConfig holds chat model settings on top of the connection Config.
type SynthesizerConfig struct {
	Config
	Temperature float32
	MaxTokens   int
}

// NewSynthesizer creates a chat-completion answer synthesizer.
func NewSynthesizer(cfg *SynthesizerConfig) *Synthesizer {
	return &Synthesizer{
		client:      newClient(&cfg.Config),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		logger:      cfg.Logger,
	}
}

// Answer generates a free-text answer to query grounded on courses.
// Errors wrap domain.ErrSynthesisFailed.
func (s *Synthesizer) Answer(ctx context.Context, query string, courses []catalog.Course) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model,
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt(query, courses)},
		},
	})
	if err != nil {
		return "", wrapAPIError("chat", err, domain.ErrSynthesisFailed)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty chat response: %w", domain.ErrSynthesisFailed)
	}

	answer := strings.TrimSpace(resp.Choices[0].Message.Content)
	s.logger.Debug("answer synthesized",
		zap.String("model", s.model),
		zap.Int("courses", len(courses)),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)
	return answer, nil
}

func userPrompt(query string, courses []catalog.Course) string {
	var b strings.Builder
	b.WriteString("Context:\n")
	for i, c := range courses {
		d := document.FromCourse(c, i)
		fmt.Fprintf(&b, "%d. %s\n", i+1, d.Text())
	}
	b.WriteString("\nQuestion: ")
	b.WriteString(query)
	return b.String()
}
