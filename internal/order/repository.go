package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"jd-backend/internal/logger"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Repository interface {
	// PlaceOrder writes the order header and its items in one transaction.
	PlaceOrder(ctx context.Context, draft *Draft, idempotencyKey string) (*Placement, error)
	ListByUser(ctx context.Context, userID string) ([]*Order, error)
	ListAll(ctx context.Context) ([]*Order, error)
	GetForUser(ctx context.Context, orderID int64, userID string) (*Order, error)
	UpdateStatus(ctx context.Context, orderID int64, next Status) (*StatusChange, error)
	Delete(ctx context.Context, orderID int64) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func persistenceFailure(step string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrPersistenceFailure, step, err)
}

func (r *repository) PlaceOrder(
	ctx context.Context,
	draft *Draft,
	idempotencyKey string,
) (*Placement, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "PlaceOrder"),
		zap.Int("item_count", len(draft.Items)),
	)

	// One dedicated connection for the whole unit of work, released on every path.
	conn, err := r.db.Conn(ctx)
	if err != nil {
		log.Error("failed to acquire connection", zap.Error(err))
		return nil, persistenceFailure("acquire connection", err)
	}
	defer conn.Close()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return nil, persistenceFailure("begin", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Error("failed to rollback transaction", zap.Error(rbErr))
			return
		}
		log.Debug("transaction rolled back")
	}()

	if idempotencyKey != "" {
		existing, err := lookupIdempotency(ctx, tx, draft.UserID, idempotencyKey)
		if err != nil {
			log.Error("failed to check idempotency key", zap.Error(err))
			return nil, persistenceFailure("check idempotency key", err)
		}
		if existing != 0 {
			log.Info("idempotent replay", zap.Int64("order_id", existing))
			return &Placement{OrderID: existing, Replayed: true}, nil
		}
	}

	var orderID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (user_id, total_amount, status)
		VALUES ($1, $2, $3)
		RETURNING id
	`, draft.UserID, draft.Total, StatusPlaced).Scan(&orderID)
	if err != nil {
		log.Error("failed to insert order header", zap.Error(err))
		return nil, persistenceFailure("insert order", err)
	}

	log = log.With(zap.Int64("order_id", orderID))

	inserted := 0
	written := make([]DraftItem, 0, len(draft.Items))
	for i, item := range draft.Items {
		var productID sql.NullInt64

		if item.ProductID != 0 {
			name, price, found, err := lookupProduct(ctx, tx, item.ProductID)
			if err != nil {
				log.Error("failed to resolve product", zap.Int64("product_id", item.ProductID), zap.Error(err))
				return nil, persistenceFailure("resolve product", err)
			}
			if !found {
				log.Warn("dropping item with unknown product",
					zap.Int("item_index", i),
					zap.Int64("product_id", item.ProductID),
				)
				continue
			}
			item.Name, item.Price = name, price
			productID = sql.NullInt64{Int64: item.ProductID, Valid: true}
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, name, price, quantity)
			VALUES ($1, $2, $3, $4, $5)
		`, orderID, productID, item.Name, item.Price, item.Quantity)
		if err != nil {
			log.Error("failed to insert order item", zap.Int("item_index", i), zap.Error(err))
			return nil, persistenceFailure("insert order item", err)
		}

		inserted++
		written = append(written, item)
	}

	// An order header never survives without at least one item.
	if inserted == 0 {
		log.Warn("no items inserted, aborting order")
		return nil, ErrNoValidItems
	}

	if draft.VerifyTotal && !SumItems(written).Equal(draft.Total) {
		log.Warn("total does not match resolved items",
			zap.String("declared", draft.Total.String()),
			zap.String("computed", SumItems(written).String()),
		)
		return nil, ErrTotalMismatch
	}

	if idempotencyKey != "" {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_idempotency (idempotency_key, user_id, order_id)
			VALUES ($1, $2, $3)
		`, idempotencyKey, draft.UserID, orderID)
		if err != nil {
			if isUniqueViolation(err) {
				return replayAfterRace(ctx, conn, tx, draft.UserID, idempotencyKey, log)
			}
			log.Error("failed to record idempotency key", zap.Error(err))
			return nil, persistenceFailure("record idempotency key", err)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit order transaction", zap.Error(err))
		return nil, persistenceFailure("commit", err)
	}
	committed = true

	log.Info("order placed", zap.Int("inserted_items", inserted))
	return &Placement{OrderID: orderID, Items: inserted}, nil
}

// replayAfterRace handles a concurrent placement that claimed the same key first.
func replayAfterRace(
	ctx context.Context,
	conn *sql.Conn,
	tx *sql.Tx,
	userID, key string,
	log *zap.Logger,
) (*Placement, error) {

	if err := tx.Rollback(); err != nil {
		log.Error("failed to rollback after idempotency race", zap.Error(err))
	}

	var existing int64
	err := conn.QueryRowContext(ctx, `
		SELECT order_id FROM order_idempotency
		WHERE idempotency_key = $1 AND user_id = $2
	`, key, userID).Scan(&existing)
	if err != nil {
		log.Error("failed to load order after idempotency race", zap.Error(err))
		return nil, persistenceFailure("load idempotent order", err)
	}

	log.Info("idempotent replay after race", zap.Int64("existing_order_id", existing))
	return &Placement{OrderID: existing, Replayed: true}, nil
}

func lookupIdempotency(ctx context.Context, tx *sql.Tx, userID, key string) (int64, error) {
	var orderID int64
	err := tx.QueryRowContext(ctx, `
		SELECT order_id FROM order_idempotency
		WHERE idempotency_key = $1 AND user_id = $2
	`, key, userID).Scan(&orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return orderID, err
}

func lookupProduct(ctx context.Context, tx *sql.Tx, productID int64) (string, decimal.Decimal, bool, error) {
	var (
		name  string
		price decimal.Decimal
	)
	err := tx.QueryRowContext(ctx, `
		SELECT name, price FROM products WHERE id = $1
	`, productID).Scan(&name, &price)
	if errors.Is(err, sql.ErrNoRows) {
		return "", decimal.Zero, false, nil
	}
	if err != nil {
		return "", decimal.Zero, false, err
	}
	return name, price, true, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == PgUniqueViolation
}

func (r *repository) ListByUser(ctx context.Context, userID string) ([]*Order, error) {
	return r.listOrders(ctx, "ListByUser", `
		SELECT id, user_id, total_amount, status, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY id DESC
	`, userID)
}

func (r *repository) ListAll(ctx context.Context) ([]*Order, error) {
	return r.listOrders(ctx, "ListAll", `
		SELECT id, user_id, total_amount, status, created_at
		FROM orders
		ORDER BY id DESC
	`)
}

func (r *repository) listOrders(ctx context.Context, method, query string, args ...any) ([]*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", method),
	)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	orders := []*Order{}
	ids := []int64{}
	for rows.Next() {
		var o Order
		if err := scanOrder(rows, &o); err != nil {
			log.Error("failed to scan order row", zap.Error(err))
			return nil, err
		}
		orders = append(orders, &o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		log.Error("rows iteration error", zap.Error(err))
		return nil, err
	}

	if len(ids) == 0 {
		return orders, nil
	}

	items, err := r.fetchItems(ctx, ids)
	if err != nil {
		log.Error("failed to fetch order items", zap.Error(err))
		return nil, err
	}
	for _, o := range orders {
		o.Items = items[o.ID]
		if o.Items == nil {
			o.Items = []OrderItem{}
		}
	}

	log.Debug("orders loaded", zap.Int("count", len(orders)))
	return orders, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(s scanner, o *Order) error {
	var status string
	if err := s.Scan(&o.ID, &o.UserID, &o.Total, &status, &o.CreatedAt); err != nil {
		return err
	}
	if parsed, ok := ParseStatus(status); ok {
		o.Status = parsed
	} else {
		o.Status = Status(status)
	}
	return nil
}

func (r *repository) fetchItems(ctx context.Context, orderIDs []int64) (map[int64][]OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, name, price, quantity
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY order_id, id
	`, pq.Array(orderIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64][]OrderItem, len(orderIDs))
	for rows.Next() {
		var (
			item      OrderItem
			productID sql.NullInt64
		)
		if err := rows.Scan(&item.ID, &item.OrderID, &productID, &item.Name, &item.Price, &item.Quantity); err != nil {
			return nil, err
		}
		if productID.Valid {
			id := productID.Int64
			item.ProductID = &id
		}
		out[item.OrderID] = append(out[item.OrderID], item)
	}
	return out, rows.Err()
}

func (r *repository) GetForUser(ctx context.Context, orderID int64, userID string) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetForUser"),
		zap.Int64("order_id", orderID),
	)

	var o Order
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, total_amount, status, created_at
		FROM orders
		WHERE id = $1 AND user_id = $2
	`, orderID, userID)
	if err := scanOrder(row, &o); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Info("order not found")
			return nil, ErrOrderNotFound
		}
		log.Error("failed to load order", zap.Error(err))
		return nil, err
	}

	items, err := r.fetchItems(ctx, []int64{o.ID})
	if err != nil {
		log.Error("failed to fetch order items", zap.Error(err))
		return nil, err
	}
	o.Items = items[o.ID]
	if o.Items == nil {
		o.Items = []OrderItem{}
	}

	return &o, nil
}

func (r *repository) UpdateStatus(ctx context.Context, orderID int64, next Status) (*StatusChange, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "UpdateStatus"),
		zap.Int64("order_id", orderID),
		zap.String("next_status", string(next)),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	var raw string
	err = tx.QueryRowContext(ctx, `SELECT status FROM orders WHERE id = $1 FOR UPDATE`, orderID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		log.Error("failed to lock order", zap.Error(err))
		return nil, fmt.Errorf("failed to load order status: %w", err)
	}

	current, ok := ParseStatus(raw)
	if !ok || !current.CanTransitionTo(next) {
		log.Warn("rejected status transition",
			zap.String("current_status", raw),
			zap.Bool("terminal", ok && current.Terminal()),
		)
		return nil, ErrInvalidTransition
	}

	res, err := tx.ExecContext(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, next, orderID)
	if err != nil {
		log.Error("failed to update order status", zap.Error(err))
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		log.Error("failed to read affected rows", zap.Error(err))
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	if affected == 0 {
		return nil, ErrOrderNotFound
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit status update", zap.Error(err))
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Info("order status updated", zap.String("previous_status", string(current)))
	return &StatusChange{OrderID: orderID, From: current, To: next}, nil
}

func (r *repository) Delete(ctx context.Context, orderID int64) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Delete"),
		zap.Int64("order_id", orderID),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	// Items go first so an order row is never left without them mid-way.
	if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = $1`, orderID); err != nil {
		log.Error("failed to delete order items", zap.Error(err))
		return fmt.Errorf("failed to delete order items: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, orderID)
	if err != nil {
		log.Error("failed to delete order", zap.Error(err))
		return fmt.Errorf("failed to delete order: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		log.Error("failed to read affected rows", zap.Error(err))
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if affected == 0 {
		return ErrOrderNotFound
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit order deletion", zap.Error(err))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Info("order deleted")
	return nil
}
