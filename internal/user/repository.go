package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"jd-backend/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context) (int64, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	UpdateProfile(ctx context.Context, id int64, upd ProfileUpdate) error
	// ReplaceImage stores the new image path and returns the previous one.
	ReplaceImage(ctx context.Context, id int64, image string) (string, error)
	ListPublic(ctx context.Context) ([]*User, error)
	ListAll(ctx context.Context) ([]*User, error)
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*Stats, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const userColumns = `id, COALESCE(name, ''), COALESCE(phone, ''), COALESCE(alt_phone, ''),
	COALESCE(address, ''), COALESCE(image, ''), created_at`

func scanUser(s interface{ Scan(...any) error }, u *User) error {
	return s.Scan(&u.ID, &u.Name, &u.Phone, &u.AltPhone, &u.Address, &u.Image, &u.CreatedAt)
}

func (r *repository) ListPublic(ctx context.Context) ([]*User, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListPublic"),
	)

	rows, err := r.db.QueryContext(ctx, `
		SELECT COALESCE(name, ''), COALESCE(phone, ''), COALESCE(address, ''), COALESCE(image, '')
		FROM users
		ORDER BY created_at DESC
	`)
	if err != nil {
		log.Error("failed to query users", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	users := []*User{}
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.Name, &u.Phone, &u.Address, &u.Image); err != nil {
			log.Error("failed to scan user row", zap.Error(err))
			return nil, err
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}

func (r *repository) ListAll(ctx context.Context) ([]*User, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListAll"),
	)

	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		log.Error("failed to query users", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	users := []*User{}
	for rows.Next() {
		var u User
		if err := scanUser(rows, &u); err != nil {
			log.Error("failed to scan user row", zap.Error(err))
			return nil, err
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Delete"),
		zap.Int64("user_id", id),
	)

	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete user", zap.Error(err))
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		log.Error("failed to read affected rows", zap.Error(err))
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}

	log.Info("user deleted")
	return nil
}

func (r *repository) Stats(ctx context.Context) (*Stats, error) {
	var s Stats
	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM orders)
	`).Scan(&s.Users, &s.Orders)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to count stats",
			zap.String("layer", "repository"),
			zap.String("method", "Stats"),
			zap.Error(err),
		)
		return nil, err
	}
	return &s, nil
}

func notFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
