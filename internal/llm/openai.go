package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/xaenox/interview-bot/internal/models"
	"go.uber.org/zap"
)

type OpenAIClient struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float64
	timeout     time.Duration
	logger      *zap.Logger
}

func NewOpenAIClient(apiKey, baseURL, model string, maxTokens int, temperature float64, timeout time.Duration, logger *zap.Logger) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &OpenAIClient{
		client:      openai.NewClientWithConfig(cfg),
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		timeout:     timeout,
		logger:      logger,
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, history []models.Message, systemPrompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:       c.model,
			Messages:    toChatMessages(history, systemPrompt),
			MaxTokens:   c.maxTokens,
			Temperature: float32(c.temperature),
		},
	)
	if err != nil {
		kind := KindTransport
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			kind = KindTimeout
		}
		c.logger.Error("Failed to get completion",
			zap.Error(err),
			zap.String("kind", string(kind)),
			zap.Int("messages", len(history)))
		return "", &Error{Kind: kind, Err: err}
	}

	if len(resp.Choices) == 0 {
		c.logger.Error("Completion returned no choices", zap.String("model", c.model))
		return "", &Error{Kind: KindEmptyResponse}
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		c.logger.Error("Completion returned empty content", zap.String("model", c.model))
		return "", &Error{Kind: KindEmptyResponse}
	}

	return content, nil
}

func toChatMessages(history []models.Message, systemPrompt string) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	if systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		})
	}
	for _, m := range history {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}
	return messages
}
