package llm

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/getauthentic/backend/internal/application/service"
	"github.com/getauthentic/backend/internal/config"
	"github.com/getauthentic/backend/pkg/logger"
)

type openaiLLMAdapter struct {
	client    *openai.Client
	model     string
	maxTokens int
	log       logger.Logger
}

func NewOpenAILLMAdapter(cfg config.Config, log logger.Logger) (service.LLMService, error) {
	if cfg.OpenAI.APIKey == "" {
		return nil, fmt.Errorf("openai api key is not configured")
	}

	client := openai.NewClient(cfg.OpenAI.APIKey)

	log.Info("OpenAI Chat (LLM) Adapter initialized")
	return &openaiLLMAdapter{
		client:    client,
		model:     cfg.OpenAI.Model,
		maxTokens: cfg.OpenAI.MaxTokens,
		log:       log,
	}, nil
}

func (a *openaiLLMAdapter) GenerateAssistantReply(ctx context.Context, messages []service.ChatMessage) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:     a.model,
		MaxTokens: a.maxTokens,
		Messages:  toOpenAIMessages(messages),
		Stream:    false,
	}

	resp, err := a.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai chat completion request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no chat choices")
	}

	return resp.Choices[0].Message.Content, nil
}

func toOpenAIMessages(messages []service.ChatMessage) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		if len(m.Images) == 0 {
			out = append(out, openai.ChatCompletionMessage{
				Role:    m.Role,
				Content: m.Content,
			})
			continue
		}

		parts := []openai.ChatMessagePart{
			{
				Type: openai.ChatMessagePartTypeText,
				Text: m.Content,
			},
		}
		for _, img := range m.Images {
			dataURL := fmt.Sprintf("data:%s;base64,%s", img.MIME, base64.StdEncoding.EncodeToString(img.Data))
			parts = append(parts, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL: dataURL,
				},
			})
		}
		out = append(out, openai.ChatCompletionMessage{
			Role:         m.Role,
			MultiContent: parts,
		})
	}
	return out
}
