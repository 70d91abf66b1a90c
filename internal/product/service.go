package product

import (
	"context"
	"strings"

	"jd-backend/internal/logger"
	"jd-backend/internal/storage"
	"jd-backend/internal/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Service interface {
	ListProducts(ctx context.Context) ([]*Product, error)
	GetProduct(ctx context.Context, id int64) (*Product, error)
	CreateProduct(ctx context.Context, input NewProduct, image *storage.Upload) (*Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

type service struct {
	repo  Repository
	store storage.Store
}

func NewService(repo Repository, store storage.Store) Service {
	return &service{repo: repo, store: store}
}

func (s *service) ListProducts(ctx context.Context) ([]*Product, error) {
	return s.repo.List(ctx)
}

func (s *service) GetProduct(ctx context.Context, id int64) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) CreateProduct(ctx context.Context, input NewProduct, image *storage.Upload) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateProduct"),
	)

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	price, err := decimal.NewFromString(strings.TrimSpace(input.Price))
	if err != nil || !utils.FitsMoney(price) {
		return nil, ErrInvalidPrice
	}

	p := &Product{
		Name:        name,
		Price:       price,
		Description: strings.TrimSpace(input.Description),
	}

	if image != nil {
		p.Image, err = s.store.Save(ctx, *image)
		if err != nil {
			return nil, err
		}
	}

	if err := s.repo.Create(ctx, p); err != nil {
		if p.Image != "" {
			_ = s.store.Remove(ctx, p.Image)
		}
		return nil, err
	}

	log.Info("product created", zap.Int64("product_id", p.ID))
	return p, nil
}

func (s *service) DeleteProduct(ctx context.Context, id int64) error {
	p, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}

	if p.Image != "" {
		if err := s.store.Remove(ctx, p.Image); err != nil {
			logger.FromCtx(ctx).Warn("product deleted but image kept",
				zap.Int64("product_id", id),
				zap.Error(err),
			)
		}
	}
	return nil
}
