package user

import (
	"context"
	"fmt"

	"jd-backend/internal/logger"

	"go.uber.org/zap"
)

// Create inserts an empty profile and returns its id.
func (r *repository) Create(ctx context.Context) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `INSERT INTO users DEFAULT VALUES RETURNING id`).Scan(&id)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to create user",
			zap.String("layer", "repository"),
			zap.String("method", "Create"),
			zap.Error(err),
		)
		return 0, err
	}
	return id, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*User, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetByID"),
		zap.Int64("user_id", id),
	)

	var u User
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err := scanUser(row, &u); err != nil {
		if notFound(err) {
			log.Info("user not found")
			return nil, ErrUserNotFound
		}
		log.Error("failed to scan user", zap.Error(err))
		return nil, err
	}
	return &u, nil
}

func (r *repository) UpdateProfile(ctx context.Context, id int64, upd ProfileUpdate) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "UpdateProfile"),
		zap.Int64("user_id", id),
	)

	// COALESCE keeps existing values for fields left nil
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET
			name = COALESCE($1, name),
			phone = COALESCE($2, phone),
			alt_phone = COALESCE($3, alt_phone),
			address = COALESCE($4, address)
		WHERE id = $5
	`, upd.Name, upd.Phone, upd.AltPhone, upd.Address, id)
	if err != nil {
		log.Error("failed to update profile", zap.Error(err))
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		log.Error("failed to read affected rows", zap.Error(err))
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}

	log.Info("profile updated")
	return nil
}

func (r *repository) ReplaceImage(ctx context.Context, id int64, image string) (string, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ReplaceImage"),
		zap.Int64("user_id", id),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return "", fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	var previous string
	err = tx.QueryRowContext(ctx, `SELECT COALESCE(image, '') FROM users WHERE id = $1 FOR UPDATE`, id).Scan(&previous)
	if err != nil {
		if notFound(err) {
			return "", ErrUserNotFound
		}
		log.Error("failed to lock user", zap.Error(err))
		return "", err
	}

	if _, err := tx.ExecContext(ctx, `UPDATE users SET image = $1 WHERE id = $2`, image, id); err != nil {
		log.Error("failed to update image", zap.Error(err))
		return "", err
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit image update", zap.Error(err))
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Info("profile image replaced")
	return previous, nil
}
