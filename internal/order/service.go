package order

import (
	"context"
	"errors"

	"jd-backend/internal/logger"
	"jd-backend/internal/transport"

	"go.uber.org/zap"
)

// Placement outcomes reported to a Recorder.
const (
	ResultPlaced   = "placed"
	ResultReplayed = "replayed"
	ResultRejected = "rejected"
	ResultFailed   = "failed"
)

// Recorder receives order placement outcomes, typically for metrics.
type Recorder interface {
	ObservePlacement(result string)
}

type Service interface {
	PlaceOrder(ctx context.Context, caller transport.Identity, sub Submission, idempotencyKey string) (*Placement, error)
	ListMyOrders(ctx context.Context, caller transport.Identity) ([]*Order, error)
	GetMyOrder(ctx context.Context, caller transport.Identity, orderID int64) (*Order, error)
	ListAllOrders(ctx context.Context) ([]*Order, error)
	UpdateStatus(ctx context.Context, orderID int64, rawStatus string) (*StatusChange, error)
	DeleteOrder(ctx context.Context, orderID int64) error
}

type service struct {
	repo     Repository
	rules    Rules
	recorder Recorder
}

type noopRecorder struct{}

func (noopRecorder) ObservePlacement(string) {}

func NewService(repo Repository, rules Rules, recorder Recorder) Service {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	if rules.Catalog == "" {
		rules.Catalog = CatalogSnapshot
	}
	if rules.Total == "" {
		rules.Total = TotalTrust
	}
	return &service{repo: repo, rules: rules, recorder: recorder}
}

func (s *service) PlaceOrder(
	ctx context.Context,
	caller transport.Identity,
	sub Submission,
	idempotencyKey string,
) (*Placement, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "PlaceOrder"),
		zap.Int("submitted_items", len(sub.Items)),
		zap.String("catalog_mode", string(s.rules.Catalog)),
	)

	draft, err := Validate(sub, caller.String(), s.rules)
	if err != nil {
		log.Info("order submission rejected", zap.Error(err))
		s.recorder.ObservePlacement(ResultRejected)
		return nil, err
	}

	if dropped := len(sub.Items) - len(draft.Items); dropped > 0 {
		log.Info("dropped malformed items", zap.Int("dropped", dropped))
	}

	placement, err := s.repo.PlaceOrder(ctx, draft, idempotencyKey)
	if err != nil {
		var rej *Rejection
		if errors.As(err, &rej) {
			s.recorder.ObservePlacement(ResultRejected)
			return nil, err
		}
		log.Error("order placement failed", zap.Error(err))
		s.recorder.ObservePlacement(ResultFailed)
		return nil, ErrPersistenceFailure
	}

	if placement.Replayed {
		s.recorder.ObservePlacement(ResultReplayed)
	} else {
		s.recorder.ObservePlacement(ResultPlaced)
	}

	log.Info("order placement completed",
		zap.Int64("order_id", placement.OrderID),
		zap.Bool("replayed", placement.Replayed),
	)
	return placement, nil
}

func (s *service) ListMyOrders(ctx context.Context, caller transport.Identity) ([]*Order, error) {
	if caller.Empty() {
		return []*Order{}, nil
	}
	return s.repo.ListByUser(ctx, caller.String())
}

func (s *service) GetMyOrder(ctx context.Context, caller transport.Identity, orderID int64) (*Order, error) {
	if caller.Empty() {
		return nil, ErrMissingIdentity
	}
	return s.repo.GetForUser(ctx, orderID, caller.String())
}

func (s *service) ListAllOrders(ctx context.Context) ([]*Order, error) {
	return s.repo.ListAll(ctx)
}

func (s *service) UpdateStatus(ctx context.Context, orderID int64, rawStatus string) (*StatusChange, error) {
	next, ok := ParseStatus(rawStatus)
	if !ok {
		return nil, ErrInvalidStatus
	}
	return s.repo.UpdateStatus(ctx, orderID, next)
}

func (s *service) DeleteOrder(ctx context.Context, orderID int64) error {
	return s.repo.Delete(ctx, orderID)
}
