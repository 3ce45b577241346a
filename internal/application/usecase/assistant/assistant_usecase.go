package assistant

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/getauthentic/backend/internal/application/service"
	"github.com/getauthentic/backend/internal/domain/branding"
	"github.com/getauthentic/backend/internal/domain/user"
	"github.com/getauthentic/backend/pkg/apperror"
	"github.com/getauthentic/backend/pkg/logger"
)

const systemPrompt = "You are a branding consultant for Thai restaurants. " +
	"You help restaurant owners apply authenticity guidelines to their menus, " +
	"interiors, service and marketing. Answer concretely and keep suggestions " +
	"actionable for a small restaurant team."

const providerTimeout = 60 * time.Second

type AskUseCase struct {
	userRepo   user.Repository
	llm        service.LLMService
	historyCap int
	logger     logger.Logger
}

func NewAskUseCase(repo user.Repository, llm service.LLMService, historyCap int, log logger.Logger) *AskUseCase {
	return &AskUseCase{
		userRepo:   repo,
		llm:        llm,
		historyCap: historyCap,
		logger:     log,
	}
}

type AskInput struct {
	Email       string
	ProfileType string
	Question    string
	Images      []service.ChatImage
}

type AskOutput struct {
	Reply string
}

func (uc *AskUseCase) Execute(ctx context.Context, input AskInput) (*AskOutput, error) {
	persona, ok := branding.PersonaByName(input.ProfileType)
	if !ok {
		return nil, apperror.NewInvalidInput("unknown profile type: "+input.ProfileType, nil)
	}

	u, err := uc.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, apperror.NewNotFound("user", input.Email)
		}
		return nil, apperror.NewInternal("failed to look up user", err)
	}

	userTurn := buildUserTurn(persona, input.Question)

	messages := make([]service.ChatMessage, 0, len(u.ChatHistory)+2)
	messages = append(messages, service.ChatMessage{Role: service.RoleSystem, Content: systemPrompt})
	for _, turn := range u.ChatHistory {
		messages = append(messages, service.ChatMessage{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, service.ChatMessage{
		Role:    service.RoleUser,
		Content: userTurn,
		Images:  input.Images,
	})

	llmCtx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	reply, err := uc.llm.GenerateAssistantReply(llmCtx, messages)
	if err != nil {
		uc.logger.Error("AI suggestion failed", err, zap.String("email", u.Email))
		return nil, apperror.NewDependency("AI suggestion failed", err)
	}

	history := append(u.ChatHistory,
		user.ChatTurn{Role: service.RoleUser, Content: userTurn},
		user.ChatTurn{Role: service.RoleAssistant, Content: reply},
	)
	history = trimHistory(history, uc.historyCap)

	if err := uc.userRepo.SetChatHistory(ctx, u.Email, history); err != nil {
		// The reply was already produced; losing one history write is
		// preferable to failing the request.
		uc.logger.Error("failed to persist chat history", err, zap.String("email", u.Email))
	}

	return &AskOutput{Reply: reply}, nil
}

func buildUserTurn(persona branding.Persona, question string) string {
	var b strings.Builder
	b.WriteString("My target customers are of the type \"")
	b.WriteString(persona.Name)
	b.WriteString("\": ")
	b.WriteString(persona.Description)
	b.WriteString("\n\nBranding guidelines to follow.\nMust have:\n")
	for _, g := range persona.MustHave {
		b.WriteString("- ")
		b.WriteString(g)
		b.WriteString("\n")
	}
	b.WriteString("Nice to have:\n")
	for _, g := range persona.NiceToHave {
		b.WriteString("- ")
		b.WriteString(g)
		b.WriteString("\n")
	}
	b.WriteString("\nQuestion: ")
	b.WriteString(question)
	return b.String()
}

// trimHistory keeps the most recent turns within the configured cap. The
// original design grew without bound; the cap is the retention policy.
func trimHistory(history []user.ChatTurn, limit int) []user.ChatTurn {
	if limit <= 0 || len(history) <= limit {
		return history
	}
	return history[len(history)-limit:]
}
