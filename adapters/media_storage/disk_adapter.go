package media_storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/getauthentic/backend/internal/application/service"
	"github.com/getauthentic/backend/internal/config"
	"github.com/getauthentic/backend/pkg/logger"
)

// diskAdapter stores uploads on the local filesystem under cfg.Media.Dir,
// which the server exposes statically at cfg.Media.BaseURL.
type diskAdapter struct {
	dir     string
	baseURL string
	log     logger.Logger
}

func NewDiskAdapter(cfg config.Config, log logger.Logger) (service.Uploader, error) {
	if cfg.Media.Dir == "" {
		return nil, fmt.Errorf("media dir has not config")
	}
	if err := os.MkdirAll(cfg.Media.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create media dir: %w", err)
	}

	return &diskAdapter{
		dir:     cfg.Media.Dir,
		baseURL: cfg.Media.BaseURL,
		log:     log,
	}, nil
}

func (a *diskAdapter) Upload(ctx context.Context, file io.Reader, folder string, publicID string) (string, error) {
	targetDir := filepath.Join(a.dir, folder)
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return "", fmt.Errorf("cannot create upload folder: %w", err)
	}

	target := filepath.Join(targetDir, publicID)
	f, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("cannot create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, file); err != nil {
		os.Remove(target)
		return "", fmt.Errorf("cannot write upload file: %w", err)
	}

	url := a.baseURL + "/" + filepath.ToSlash(filepath.Join(folder, publicID))
	return url, nil
}

func (a *diskAdapter) Delete(ctx context.Context, publicID string) error {
	matches, err := filepath.Glob(filepath.Join(a.dir, "*", publicID))
	if err != nil {
		return fmt.Errorf("cannot glob upload file: %w", err)
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil {
			return fmt.Errorf("cannot remove upload file: %w", err)
		}
	}
	return nil
}
