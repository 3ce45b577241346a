package service

import (
	"context"
)

// ChatImage is an image attached to a user turn, sent inline to the model.
type ChatImage struct {
	MIME string
	Data []byte
}

type ChatMessage struct {
	Role    string
	Content string
	Images  []ChatImage
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type LLMService interface {
	GenerateAssistantReply(ctx context.Context, messages []ChatMessage) (string, error)
}
