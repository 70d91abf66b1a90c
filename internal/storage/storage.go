package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"jd-backend/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PublicPrefix is the URL path uploaded files are served under.
const PublicPrefix = "/uploads/"

var (
	ErrEmptyUpload      = errors.New("empty upload")
	ErrUnsupportedImage = errors.New("unsupported image type")
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Upload is a file received from a client.
type Upload struct {
	Filename string
	Body     io.Reader
}

type Store interface {
	// Save writes the upload and returns its public path.
	Save(ctx context.Context, up Upload) (string, error)
	Remove(ctx context.Context, publicPath string) error
}

type DiskStore struct {
	root string
}

func NewDiskStore(root string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &DiskStore{root: root}, nil
}

func (s *DiskStore) Root() string { return s.root }

func (s *DiskStore) Save(ctx context.Context, up Upload) (string, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "storage"),
		zap.String("method", "Save"),
	)

	if up.Body == nil {
		return "", ErrEmptyUpload
	}

	ext := strings.ToLower(filepath.Ext(up.Filename))
	if !imageExtensions[ext] {
		return "", ErrUnsupportedImage
	}

	name := uuid.NewString() + ext
	full := filepath.Join(s.root, name)

	f, err := os.OpenFile(full, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		log.Error("failed to create upload file", zap.Error(err))
		return "", fmt.Errorf("failed to create file: %w", err)
	}

	n, err := io.Copy(f, up.Body)
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && n == 0 {
		err = ErrEmptyUpload
	}
	if err != nil {
		_ = os.Remove(full)
		if !errors.Is(err, ErrEmptyUpload) {
			log.Error("failed to write upload", zap.Error(err))
		}
		return "", err
	}

	log.Info("upload stored", zap.String("file", name), zap.Int64("bytes", n))
	return PublicPrefix + name, nil
}

// Remove deletes a file previously returned by Save. Unknown paths are ignored.
func (s *DiskStore) Remove(ctx context.Context, publicPath string) error {
	if !strings.HasPrefix(publicPath, PublicPrefix) {
		return nil
	}
	name := path.Base(publicPath)
	if name == "." || name == "/" {
		return nil
	}

	err := os.Remove(filepath.Join(s.root, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.FromCtx(ctx).Warn("failed to remove upload",
			zap.String("layer", "storage"),
			zap.String("file", name),
			zap.Error(err),
		)
		return err
	}
	return nil
}
