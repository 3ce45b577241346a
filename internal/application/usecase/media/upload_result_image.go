package media

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/getauthentic/backend/internal/application/service"
	"github.com/getauthentic/backend/internal/domain/user"
	"github.com/getauthentic/backend/pkg/apperror"
	"github.com/getauthentic/backend/pkg/logger"
)

type UploadResultImageUseCase struct {
	userRepo user.Repository
	uploader service.Uploader
	logger   logger.Logger
}

func NewUploadResultImageUseCase(repo user.Repository, u service.Uploader, log logger.Logger) *UploadResultImageUseCase {
	return &UploadResultImageUseCase{userRepo: repo, uploader: u, logger: log}
}

type UploadResultImageInput struct {
	Email string
	File  io.Reader
	Size  int64
}

type UploadResultImageOutput struct {
	URL string
}

const maxImageSize = 10 << 20 // 10 MiB

var allowedImageTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}

func (uc *UploadResultImageUseCase) Execute(ctx context.Context, input UploadResultImageInput) (*UploadResultImageOutput, error) {
	// The existence check runs before anything touches storage so that an
	// unknown email never leaves a file behind.
	u, err := uc.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, apperror.NewNotFound("user", input.Email)
		}
		return nil, apperror.NewInternal("failed to look up user", err)
	}

	if input.Size > maxImageSize {
		return nil, apperror.NewInvalidInput("image exceeds the 10 MiB limit", nil)
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(input.File, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, apperror.NewInternal("failed to read upload", err)
	}
	head = head[:n]

	ext, ok := allowedImageTypes[http.DetectContentType(head)]
	if !ok {
		return nil, apperror.NewInvalidInput("only png, jpeg and webp images are accepted", nil)
	}

	publicID := uuid.NewString() + ext
	body := io.MultiReader(bytes.NewReader(head), io.LimitReader(input.File, maxImageSize))

	url, err := uc.uploader.Upload(ctx, body, "results", publicID)
	if err != nil {
		return nil, apperror.NewInternal("failed to store result image", err)
	}

	if err := uc.userRepo.SetResultImageURL(ctx, u.Email, url); err != nil {
		go uc.uploader.Delete(context.Background(), publicID)
		return nil, apperror.NewInternal("failed to record result image url", err)
	}

	return &UploadResultImageOutput{URL: url}, nil
}
