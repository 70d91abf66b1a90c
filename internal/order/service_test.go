package order

import (
	"context"
	"errors"
	"testing"

	"jd-backend/internal/transport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) PlaceOrder(ctx context.Context, draft *Draft, idempotencyKey string) (*Placement, error) {
	args := m.Called(ctx, draft, idempotencyKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Placement), args.Error(1)
}

func (m *MockRepository) ListByUser(ctx context.Context, userID string) ([]*Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Order), args.Error(1)
}

func (m *MockRepository) ListAll(ctx context.Context) ([]*Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Order), args.Error(1)
}

func (m *MockRepository) GetForUser(ctx context.Context, orderID int64, userID string) (*Order, error) {
	args := m.Called(ctx, orderID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockRepository) UpdateStatus(ctx context.Context, orderID int64, next Status) (*StatusChange, error) {
	args := m.Called(ctx, orderID, next)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*StatusChange), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, orderID int64) error {
	return m.Called(ctx, orderID).Error(0)
}

type recorderSpy struct {
	results []string
}

func (r *recorderSpy) ObservePlacement(result string) {
	r.results = append(r.results, result)
}

func validSubmission() Submission {
	return Submission{
		Total: "30",
		Items: []SubmittedItem{
			{Name: "A", Price: "10", Qty: "2"},
			{Name: "", Price: "10"},
			{Name: "B", Price: "10"},
		},
	}
}

func TestService_PlaceOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		spy := &recorderSpy{}
		svc := NewService(repo, Rules{}, spy)

		repo.On("PlaceOrder", ctx, mock.MatchedBy(func(d *Draft) bool {
			return d.UserID == "u1" && len(d.Items) == 2 && !d.VerifyTotal
		}), "").Return(&Placement{OrderID: 1, Items: 2}, nil)

		placement, err := svc.PlaceOrder(ctx, transport.Identity("u1"), validSubmission(), "")
		require.NoError(t, err)
		assert.Equal(t, int64(1), placement.OrderID)
		assert.Equal(t, []string{ResultPlaced}, spy.results)
		repo.AssertExpectations(t)
	})

	t.Run("RejectedBeforeStorage", func(t *testing.T) {
		repo := new(MockRepository)
		spy := &recorderSpy{}
		svc := NewService(repo, Rules{}, spy)

		_, err := svc.PlaceOrder(ctx, "", validSubmission(), "")
		assert.Equal(t, ErrMissingIdentity, err)
		assert.Equal(t, []string{ResultRejected}, spy.results)
		repo.AssertNotCalled(t, "PlaceOrder", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("RepositoryRejection", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, Rules{Catalog: CatalogReference}, nil)

		sub := Submission{Total: "10", Items: []SubmittedItem{{ProductID: "99", Price: "10"}}}
		repo.On("PlaceOrder", ctx, mock.Anything, "").Return(nil, ErrNoValidItems)

		_, err := svc.PlaceOrder(ctx, "u1", sub, "")
		assert.Equal(t, ErrNoValidItems, err)
	})

	t.Run("PersistenceFailureIsOpaque", func(t *testing.T) {
		repo := new(MockRepository)
		spy := &recorderSpy{}
		svc := NewService(repo, Rules{}, spy)

		repo.On("PlaceOrder", ctx, mock.Anything, "").
			Return(nil, errors.New("pq: relation \"orders\" does not exist"))

		_, err := svc.PlaceOrder(ctx, "u1", validSubmission(), "")
		assert.Equal(t, ErrPersistenceFailure, err)
		assert.NotContains(t, err.Error(), "relation")
		assert.Equal(t, []string{ResultFailed}, spy.results)
	})

	t.Run("Replay", func(t *testing.T) {
		repo := new(MockRepository)
		spy := &recorderSpy{}
		svc := NewService(repo, Rules{}, spy)

		repo.On("PlaceOrder", ctx, mock.Anything, "k1").Return(&Placement{OrderID: 5, Replayed: true}, nil)

		placement, err := svc.PlaceOrder(ctx, "u1", validSubmission(), "k1")
		require.NoError(t, err)
		assert.True(t, placement.Replayed)
		assert.Equal(t, []string{ResultReplayed}, spy.results)
	})

	t.Run("VerifyPolicyPropagates", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, Rules{Total: TotalVerify}, nil)

		sub := Submission{Total: "20", Items: []SubmittedItem{{Name: "A", Price: "10", Qty: "2"}}}
		repo.On("PlaceOrder", ctx, mock.MatchedBy(func(d *Draft) bool { return d.VerifyTotal }), "").
			Return(&Placement{OrderID: 2, Items: 1}, nil)

		_, err := svc.PlaceOrder(ctx, "u1", sub, "")
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})
}

func TestService_ListMyOrders(t *testing.T) {
	ctx := context.Background()

	t.Run("NoIdentity", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, Rules{}, nil)

		orders, err := svc.ListMyOrders(ctx, "")
		require.NoError(t, err)
		assert.NotNil(t, orders)
		assert.Empty(t, orders)
		repo.AssertNotCalled(t, "ListByUser", mock.Anything, mock.Anything)
	})

	t.Run("Scoped", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, Rules{}, nil)

		repo.On("ListByUser", ctx, "u1").Return([]*Order{{ID: 1, UserID: "u1"}}, nil)

		orders, err := svc.ListMyOrders(ctx, "u1")
		require.NoError(t, err)
		assert.Len(t, orders, 1)
	})
}

func TestService_GetMyOrder(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewService(repo, Rules{}, nil)

	_, err := svc.GetMyOrder(ctx, "", 1)
	assert.Equal(t, ErrMissingIdentity, err)

	repo.On("GetForUser", ctx, int64(1), "u1").Return(nil, ErrOrderNotFound)
	_, err = svc.GetMyOrder(ctx, "u1", 1)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestService_ListAllOrders(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, Rules{}, nil)

	repo.On("ListAll", mock.Anything).Return([]*Order{{ID: 1}, {ID: 2}}, nil)

	orders, err := svc.ListAllOrders(context.Background())
	require.NoError(t, err)
	assert.Len(t, orders, 2)
}

func TestService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("UnknownStatus", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, Rules{}, nil)

		_, err := svc.UpdateStatus(ctx, 1, "refunded")
		assert.Equal(t, ErrInvalidStatus, err)
		repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Normalized", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, Rules{}, nil)

		repo.On("UpdateStatus", ctx, int64(1), StatusShipped).
			Return(&StatusChange{OrderID: 1, From: StatusPlaced, To: StatusShipped}, nil)

		change, err := svc.UpdateStatus(ctx, 1, " SHIPPED ")
		require.NoError(t, err)
		assert.Equal(t, StatusShipped, change.To)
	})
}

func TestService_DeleteOrder(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, Rules{}, nil)

	repo.On("Delete", mock.Anything, int64(3)).Return(nil)
	assert.NoError(t, svc.DeleteOrder(context.Background(), 3))

	repo.On("Delete", mock.Anything, int64(4)).Return(ErrOrderNotFound)
	assert.ErrorIs(t, svc.DeleteOrder(context.Background(), 4), ErrOrderNotFound)
}
