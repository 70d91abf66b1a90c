package product

import (
	"context"
	"database/sql"
	"errors"

	"jd-backend/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	List(ctx context.Context) ([]*Product, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
	Create(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id int64) (*Product, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const productColumns = `id, name, price, COALESCE(description, ''), COALESCE(image, ''), created_at`

func scanProduct(s interface{ Scan(...any) error }, p *Product) error {
	return s.Scan(&p.ID, &p.Name, &p.Price, &p.Description, &p.Image, &p.CreatedAt)
}

func (r *repository) List(ctx context.Context) ([]*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "List"),
	)

	rows, err := r.db.QueryContext(ctx, `SELECT `+productColumns+` FROM products ORDER BY id`)
	if err != nil {
		log.Error("failed to query products", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	products := []*Product{}
	for rows.Next() {
		var p Product
		if err := scanProduct(rows, &p); err != nil {
			log.Error("failed to scan product row", zap.Error(err))
			return nil, err
		}
		products = append(products, &p)
	}
	return products, rows.Err()
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Product, error) {
	var p Product
	row := r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	if err := scanProduct(row, &p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		logger.FromCtx(ctx).Error("failed to load product",
			zap.String("layer", "repository"),
			zap.Int64("product_id", id),
			zap.Error(err),
		)
		return nil, err
	}
	return &p, nil
}

func (r *repository) Create(ctx context.Context, p *Product) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO products (name, price, description, image)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, p.Name, p.Price, p.Description, p.Image).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to insert product",
			zap.String("layer", "repository"),
			zap.String("method", "Create"),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// Delete removes the product and returns the deleted row. Order items keep their snapshot.
func (r *repository) Delete(ctx context.Context, id int64) (*Product, error) {
	var p Product
	row := r.db.QueryRowContext(ctx, `DELETE FROM products WHERE id = $1 RETURNING `+productColumns, id)
	if err := scanProduct(row, &p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		logger.FromCtx(ctx).Error("failed to delete product",
			zap.String("layer", "repository"),
			zap.Int64("product_id", id),
			zap.Error(err),
		)
		return nil, err
	}
	return &p, nil
}
