package assistant

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getauthentic/backend/adapters/persistence"
	"github.com/getauthentic/backend/internal/application/service"
	"github.com/getauthentic/backend/internal/domain/branding"
	"github.com/getauthentic/backend/internal/domain/user"
	"github.com/getauthentic/backend/pkg/apperror"
	"github.com/getauthentic/backend/pkg/logger"
)

type fakeLLM struct {
	fail     bool
	reply    string
	lastSeen []service.ChatMessage
}

func (f *fakeLLM) GenerateAssistantReply(ctx context.Context, messages []service.ChatMessage) (string, error) {
	f.lastSeen = messages
	if f.fail {
		return "", errors.New("provider unavailable")
	}
	return f.reply, nil
}

func seedUser(t *testing.T, repo *persistence.MemoryUserRepo, history []user.ChatTurn) {
	t.Helper()
	err := repo.Create(context.Background(), &user.User{
		ID:          uuid.New(),
		Email:       "a@x.com",
		IsVerified:  true,
		ChatHistory: history,
		CreatedAt:   time.Now().UTC(),
	})
	require.NoError(t, err)
}

func TestAsk_UnknownPersonaRejected(t *testing.T) {
	repo := persistence.NewMemoryUserRepo()
	seedUser(t, repo, nil)
	uc := NewAskUseCase(repo, &fakeLLM{reply: "ok"}, 40, logger.NewNop())

	_, err := uc.Execute(context.Background(), AskInput{
		Email:       "a@x.com",
		ProfileType: "Business Traveler",
		Question:    "How should my menu look?",
	})
	assert.True(t, errors.Is(err, apperror.ErrInvalidInput))
}

func TestAsk_UnknownUserNotFound(t *testing.T) {
	repo := persistence.NewMemoryUserRepo()
	uc := NewAskUseCase(repo, &fakeLLM{reply: "ok"}, 40, logger.NewNop())

	_, err := uc.Execute(context.Background(), AskInput{
		Email:       "missing@x.com",
		ProfileType: branding.PersonaLeisureTraveler,
		Question:    "Hi",
	})
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestAsk_BuildsConversationAndPersistsHistory(t *testing.T) {
	repo := persistence.NewMemoryUserRepo()
	seedUser(t, repo, []user.ChatTurn{
		{Role: service.RoleUser, Content: "earlier question"},
		{Role: service.RoleAssistant, Content: "earlier answer"},
	})
	llm := &fakeLLM{reply: "Use banana leaves for plating."}
	uc := NewAskUseCase(repo, llm, 40, logger.NewNop())

	out, err := uc.Execute(context.Background(), AskInput{
		Email:       "a@x.com",
		ProfileType: branding.PersonaCulturalFoodTraveler,
		Question:    "How should I plate the khao soi?",
		Images:      []service.ChatImage{{MIME: "image/png", Data: []byte{1, 2, 3}}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Use banana leaves for plating.", out.Reply)

	// system + 2 history turns + new user turn
	require.Len(t, llm.lastSeen, 4)
	assert.Equal(t, service.RoleSystem, llm.lastSeen[0].Role)
	assert.Equal(t, "earlier question", llm.lastSeen[1].Content)

	last := llm.lastSeen[3]
	assert.Equal(t, service.RoleUser, last.Role)
	assert.Contains(t, last.Content, branding.PersonaCulturalFoodTraveler)
	assert.Contains(t, last.Content, "banana leaves", "persona must-have guidelines belong in the prompt")
	assert.Contains(t, last.Content, "How should I plate the khao soi?")
	require.Len(t, last.Images, 1)

	u, err := repo.FindByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	require.Len(t, u.ChatHistory, 4)
	assert.Equal(t, service.RoleAssistant, u.ChatHistory[3].Role)
	assert.Equal(t, "Use banana leaves for plating.", u.ChatHistory[3].Content)
}

func TestAsk_HistoryTrimmedToCap(t *testing.T) {
	history := make([]user.ChatTurn, 0, 10)
	for i := 0; i < 5; i++ {
		history = append(history,
			user.ChatTurn{Role: service.RoleUser, Content: fmt.Sprintf("q%d", i)},
			user.ChatTurn{Role: service.RoleAssistant, Content: fmt.Sprintf("a%d", i)},
		)
	}
	repo := persistence.NewMemoryUserRepo()
	seedUser(t, repo, history)
	uc := NewAskUseCase(repo, &fakeLLM{reply: "final"}, 6, logger.NewNop())

	_, err := uc.Execute(context.Background(), AskInput{
		Email:       "a@x.com",
		ProfileType: branding.PersonaFoodDrivenTraveler,
		Question:    "latest",
	})
	require.NoError(t, err)

	u, err := repo.FindByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	require.Len(t, u.ChatHistory, 6)
	assert.Equal(t, "final", u.ChatHistory[5].Content)
	assert.Equal(t, "a2", u.ChatHistory[0].Content, "oldest turns beyond the cap are dropped")
}

func TestAsk_ProviderFailureIsDependencyError(t *testing.T) {
	repo := persistence.NewMemoryUserRepo()
	seedUser(t, repo, nil)
	uc := NewAskUseCase(repo, &fakeLLM{fail: true}, 40, logger.NewNop())

	_, err := uc.Execute(context.Background(), AskInput{
		Email:       "a@x.com",
		ProfileType: branding.PersonaLeisureTraveler,
		Question:    "Hello",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrDependency))

	u, err := repo.FindByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Empty(t, u.ChatHistory, "failed calls must not pollute the history")
}
