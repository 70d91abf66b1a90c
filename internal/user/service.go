package user

import (
	"context"

	"jd-backend/internal/logger"
	"jd-backend/internal/storage"

	"go.uber.org/zap"
)

type Service interface {
	InitProfile(ctx context.Context) (int64, error)
	GetProfile(ctx context.Context, id int64) (*User, error)
	UpdateProfile(ctx context.Context, id int64, upd ProfileUpdate) error
	UpdateProfileImage(ctx context.Context, id int64, image *storage.Upload) (string, error)

	ListPublicUsers(ctx context.Context) ([]*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	DeleteUser(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*Stats, error)
}

type service struct {
	repo  Repository
	store storage.Store
}

func NewService(repo Repository, store storage.Store) Service {
	return &service{repo: repo, store: store}
}

func (s *service) InitProfile(ctx context.Context) (int64, error) {
	id, err := s.repo.Create(ctx)
	if err != nil {
		return 0, err
	}
	logger.FromCtx(ctx).Info("profile initialized",
		zap.String("layer", "service"),
		zap.Int64("user_id", id),
	)
	return id, nil
}

func (s *service) GetProfile(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) UpdateProfile(ctx context.Context, id int64, upd ProfileUpdate) error {
	if upd.Empty() {
		return ErrNothingToUpdate
	}
	return s.repo.UpdateProfile(ctx, id, upd)
}

func (s *service) UpdateProfileImage(ctx context.Context, id int64, image *storage.Upload) (string, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateProfileImage"),
		zap.Int64("user_id", id),
	)

	if image == nil {
		return "", ErrImageRequired
	}

	path, err := s.store.Save(ctx, *image)
	if err != nil {
		return "", err
	}

	previous, err := s.repo.ReplaceImage(ctx, id, path)
	if err != nil {
		_ = s.store.Remove(ctx, path)
		return "", err
	}

	if previous != "" && previous != path {
		if err := s.store.Remove(ctx, previous); err != nil {
			log.Warn("failed to remove previous image", zap.String("image", previous), zap.Error(err))
		}
	}

	return path, nil
}

func (s *service) ListPublicUsers(ctx context.Context) ([]*User, error) {
	return s.repo.ListPublic(ctx)
}

func (s *service) ListUsers(ctx context.Context) ([]*User, error) {
	return s.repo.ListAll(ctx)
}

func (s *service) DeleteUser(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	return s.repo.Stats(ctx)
}
