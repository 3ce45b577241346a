package quiz

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/getauthentic/backend/adapters/event"
	"github.com/getauthentic/backend/internal/domain/branding"
	"github.com/getauthentic/backend/internal/domain/user"
	"github.com/getauthentic/backend/pkg/apperror"
	"github.com/getauthentic/backend/pkg/logger"
)

type QuizUseCase struct {
	userRepo    user.Repository
	kafkaClient *event.KafkaProducerClient
	logger      logger.Logger
}

func NewQuizUseCase(repo user.Repository, k *event.KafkaProducerClient, log logger.Logger) *QuizUseCase {
	return &QuizUseCase{userRepo: repo, kafkaClient: k, logger: log}
}

type SaveResultInput struct {
	Email       string
	Scores      []float64
	Categories  []string
	ProfileType string
	ImageURL    string
}

// ExecuteSave validates and stores an assessment result. Scores and
// categories arrive as JSON arrays and are decoded with strict parsing at the
// handler; here only structural checks remain.
func (uc *QuizUseCase) ExecuteSave(ctx context.Context, input SaveResultInput) error {
	if len(input.Scores) == 0 || len(input.Scores) != len(input.Categories) {
		return apperror.NewInvalidInput(
			fmt.Sprintf("scores and categories must be non-empty and the same length (got %d and %d)",
				len(input.Scores), len(input.Categories)), nil)
	}
	if _, ok := branding.PersonaByName(input.ProfileType); !ok {
		return apperror.NewInvalidInput("unknown profile type: "+input.ProfileType, nil)
	}

	result := &user.QuizResult{
		Scores:         input.Scores,
		Categories:     input.Categories,
		ProfileType:    input.ProfileType,
		ResultImageURL: input.ImageURL,
	}

	err := uc.userRepo.SetQuizResult(ctx, input.Email, result)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return apperror.NewNotFound("user", input.Email)
		}
		return apperror.NewInternal("failed to save quiz result", err)
	}

	if uc.kafkaClient != nil {
		go func() {
			payload := event.BrandingEventPayload{
				EventType: event.BrandingEventTypeQuizCompleted,
				Email:     input.Email,
				Detail:    input.ProfileType,
			}
			if err := uc.kafkaClient.PublishBrandingEvent(context.Background(), payload); err != nil {
				uc.logger.Error("Failed to publish 'quiz.completed' event", err, zap.String("email", input.Email))
			}
		}()
	}

	return nil
}

type GetResultOutput struct {
	Exists      bool
	Scores      []float64
	Categories  []string
	ProfileType string
}

// ExecuteGet returns exists=false both for unknown users and users without a
// stored result, mirroring what the result page expects.
func (uc *QuizUseCase) ExecuteGet(ctx context.Context, email string) (*GetResultOutput, error) {
	u, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return &GetResultOutput{Exists: false}, nil
		}
		return nil, apperror.NewInternal("failed to look up user", err)
	}

	if u.QuizResult == nil {
		return &GetResultOutput{Exists: false}, nil
	}

	return &GetResultOutput{
		Exists:      true,
		Scores:      u.QuizResult.Scores,
		Categories:  u.QuizResult.Categories,
		ProfileType: u.QuizResult.ProfileType,
	}, nil
}
