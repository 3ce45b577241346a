package media

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getauthentic/backend/adapters/persistence"
	"github.com/getauthentic/backend/internal/domain/user"
	"github.com/getauthentic/backend/pkg/apperror"
	"github.com/getauthentic/backend/pkg/logger"
)

type fakeUploader struct {
	uploads int
	deletes int
	lastID  string
}

func (f *fakeUploader) Upload(ctx context.Context, file io.Reader, folder, publicID string) (string, error) {
	f.uploads++
	f.lastID = publicID
	if _, err := io.Copy(io.Discard, file); err != nil {
		return "", err
	}
	return "/uploads/" + folder + "/" + publicID, nil
}

func (f *fakeUploader) Delete(ctx context.Context, publicID string) error {
	f.deletes++
	return nil
}

// Minimal valid PNG header, enough for content sniffing.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 13, 'I', 'H', 'D', 'R'}

func seedUser(t *testing.T, repo *persistence.MemoryUserRepo, email string) {
	t.Helper()
	err := repo.Create(context.Background(), &user.User{
		ID:         uuid.New(),
		Email:      email,
		IsVerified: true,
		CreatedAt:  time.Now().UTC(),
	})
	require.NoError(t, err)
}

func TestUpload_UnknownEmailWritesNothing(t *testing.T) {
	repo := persistence.NewMemoryUserRepo()
	up := &fakeUploader{}
	uc := NewUploadResultImageUseCase(repo, up, logger.NewNop())

	_, err := uc.Execute(context.Background(), UploadResultImageInput{
		Email: "missing@x.com",
		File:  bytes.NewReader(pngHeader),
		Size:  int64(len(pngHeader)),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
	assert.Zero(t, up.uploads, "no file may be stored for an unknown email")
}

func TestUpload_RejectsOversizeAndNonImages(t *testing.T) {
	repo := persistence.NewMemoryUserRepo()
	seedUser(t, repo, "a@x.com")
	up := &fakeUploader{}
	uc := NewUploadResultImageUseCase(repo, up, logger.NewNop())

	_, err := uc.Execute(context.Background(), UploadResultImageInput{
		Email: "a@x.com",
		File:  bytes.NewReader(pngHeader),
		Size:  11 << 20,
	})
	assert.True(t, errors.Is(err, apperror.ErrInvalidInput))

	_, err = uc.Execute(context.Background(), UploadResultImageInput{
		Email: "a@x.com",
		File:  strings.NewReader("<script>alert(1)</script>"),
		Size:  25,
	})
	assert.True(t, errors.Is(err, apperror.ErrInvalidInput), "content type comes from the bytes, not the filename")
	assert.Zero(t, up.uploads)
}

func TestUpload_StoresImageAndRecordsURL(t *testing.T) {
	repo := persistence.NewMemoryUserRepo()
	seedUser(t, repo, "a@x.com")
	up := &fakeUploader{}
	uc := NewUploadResultImageUseCase(repo, up, logger.NewNop())

	out, err := uc.Execute(context.Background(), UploadResultImageInput{
		Email: "a@x.com",
		File:  bytes.NewReader(pngHeader),
		Size:  int64(len(pngHeader)),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, up.uploads)
	assert.True(t, strings.HasSuffix(up.lastID, ".png"), "extension follows the sniffed type")
	assert.Equal(t, "/uploads/results/"+up.lastID, out.URL)

	u, err := repo.FindByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, out.URL, u.ResultImageURL)
}
