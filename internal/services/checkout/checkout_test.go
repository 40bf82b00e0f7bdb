package checkout

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/laseropolis/marketplace-api/internal/models"
	"github.com/laseropolis/marketplace-api/internal/paymentprovider/paypal"
	"github.com/laseropolis/marketplace-api/internal/storage/repository"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockRepository) GetPlan(ctx context.Context, id int) (*models.MembershipPlan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MembershipPlan), args.Error(1)
}

func (m *MockRepository) GetActiveGrant(ctx context.Context, userUID string) (*models.MembershipGrant, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MembershipGrant), args.Error(1)
}

func (m *MockRepository) ListCartEntries(ctx context.Context, userUID string) ([]*models.CartEntry, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CartEntry), args.Error(1)
}

func (m *MockRepository) ReconcileMembershipPayment(ctx context.Context, rec repository.MembershipReconciliation) (int, error) {
	args := m.Called(ctx, rec)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) ReconcileCartPayment(ctx context.Context, rec repository.CartReconciliation) (int, error) {
	args := m.Called(ctx, rec)
	return args.Int(0), args.Error(1)
}

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) CreateOrder(ctx context.Context, amount int) (*paypal.OrderResponse, error) {
	args := m.Called(ctx, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paypal.OrderResponse), args.Error(1)
}

func (m *MockProvider) CaptureOrder(ctx context.Context, orderID string) (*paypal.OrderResponse, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paypal.OrderResponse), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func completedOrder(id string) *paypal.OrderResponse {
	return &paypal.OrderResponse{ID: id, Status: paypal.OrderStatusCompleted}
}

func TestNextExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		current      *models.MembershipGrant
		durationDays int
		expected     time.Time
	}{
		{
			name:         "sin membresía previa",
			current:      nil,
			durationDays: 30,
			expected:     now.AddDate(0, 0, 30),
		},
		{
			name: "membresía vigente apila sobre su vencimiento",
			current: &models.MembershipGrant{
				Active:    true,
				ExpiresAt: now.AddDate(0, 0, 10),
			},
			durationDays: 30,
			expected:     now.AddDate(0, 0, 40),
		},
		{
			name: "vencimiento exactamente igual a now apila",
			current: &models.MembershipGrant{
				Active:    true,
				ExpiresAt: now,
			},
			durationDays: 30,
			expected:     now.AddDate(0, 0, 30),
		},
		{
			name: "membresía vencida arranca desde now",
			current: &models.MembershipGrant{
				Active:    true,
				ExpiresAt: now.AddDate(0, 0, -5),
			},
			durationDays: 30,
			expected:     now.AddDate(0, 0, 30),
		},
		{
			name: "membresía desactivada arranca desde now",
			current: &models.MembershipGrant{
				Active:    false,
				ExpiresAt: now.AddDate(0, 0, 10),
			},
			durationDays: 30,
			expected:     now.AddDate(0, 0, 30),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextExpiry(now, tt.current, tt.durationDays)
			assert.True(t, tt.expected.Equal(got), "expected %s, got %s", tt.expected, got)
		})
	}
}

func TestService_CheckoutMembership(t *testing.T) {
	plan := &models.MembershipPlan{ID: 4, Name: "Premium", Price: 9900, DurationDays: 30}

	t.Run("captura aprobada reconcilia y devuelve el vencimiento", func(t *testing.T) {
		repo := new(MockRepository)
		provider := new(MockProvider)

		repo.On("GetPlan", mock.Anything, 4).Return(plan, nil).Once()
		provider.On("CaptureOrder", mock.Anything, "ORDER-1").
			Return(completedOrder("ORDER-1"), nil).Once()
		repo.On("GetActiveGrant", mock.Anything, "user-1").Return(nil, nil).Once()
		repo.On("ReconcileMembershipPayment", mock.Anything, mock.MatchedBy(func(rec repository.MembershipReconciliation) bool {
			return rec.UserUID == "user-1" && rec.PlanID == 4 && rec.Amount == 9900 &&
				rec.Method == models.PaymentMethodPayPal
		})).Return(77, nil).Once()

		svc := New(repo, provider, nil, newNoopLogger())
		result, err := svc.CheckoutMembership(context.Background(), "user-1", 4, "ORDER-1")

		require.NoError(t, err)
		assert.Equal(t, StateReconciled, result.State)
		assert.Equal(t, 77, result.PaymentID)
		assert.False(t, result.ExpiresAt.IsZero())
		repo.AssertExpectations(t)
		provider.AssertExpectations(t)
	})

	t.Run("captura no completada falla sin reconciliar", func(t *testing.T) {
		repo := new(MockRepository)
		provider := new(MockProvider)

		repo.On("GetPlan", mock.Anything, 4).Return(plan, nil).Once()
		provider.On("CaptureOrder", mock.Anything, "ORDER-2").
			Return(&paypal.OrderResponse{ID: "ORDER-2", Status: paypal.OrderStatusCreated}, nil).Once()

		svc := New(repo, provider, nil, newNoopLogger())
		result, err := svc.CheckoutMembership(context.Background(), "user-1", 4, "ORDER-2")

		assert.ErrorIs(t, err, ErrCaptureRejected)
		assert.Equal(t, StateFailed, result.State)
		repo.AssertNotCalled(t, "ReconcileMembershipPayment", mock.Anything, mock.Anything)
	})

	t.Run("fallo del almacenamiento tras la captura devuelve FAILED", func(t *testing.T) {
		repo := new(MockRepository)
		provider := new(MockProvider)

		repo.On("GetPlan", mock.Anything, 4).Return(plan, nil).Once()
		provider.On("CaptureOrder", mock.Anything, "ORDER-3").
			Return(completedOrder("ORDER-3"), nil).Once()
		repo.On("GetActiveGrant", mock.Anything, "user-1").Return(nil, nil).Once()
		repo.On("ReconcileMembershipPayment", mock.Anything, mock.Anything).
			Return(0, errors.New("db error")).Once()

		svc := New(repo, provider, nil, newNoopLogger())
		result, err := svc.CheckoutMembership(context.Background(), "user-1", 4, "ORDER-3")

		assert.Error(t, err)
		assert.Equal(t, StateFailed, result.State)
	})
}

func TestService_CheckoutCart(t *testing.T) {
	entries := []*models.CartEntry{
		{ID: 1, UserUID: "user-1", ItemID: 5, Price: 1000, Kind: models.ItemKindFile, Quantity: 1},
		{ID: 2, UserUID: "user-1", ItemID: 6, Price: 2500, Kind: models.ItemKindProduct, Quantity: 1},
	}

	t.Run("reconcilia el total del carrito", func(t *testing.T) {
		repo := new(MockRepository)
		provider := new(MockProvider)

		repo.On("ListCartEntries", mock.Anything, "user-1").Return(entries, nil).Once()
		provider.On("CaptureOrder", mock.Anything, "ORDER-4").
			Return(completedOrder("ORDER-4"), nil).Once()
		repo.On("ReconcileCartPayment", mock.Anything, mock.MatchedBy(func(rec repository.CartReconciliation) bool {
			return rec.UserUID == "user-1" && rec.Amount == 3500 && len(rec.Entries) == 2
		})).Return(88, nil).Once()

		svc := New(repo, provider, nil, newNoopLogger())
		result, err := svc.CheckoutCart(context.Background(), "user-1", "ORDER-4")

		require.NoError(t, err)
		assert.Equal(t, StateReconciled, result.State)
		assert.Equal(t, 88, result.PaymentID)
		repo.AssertExpectations(t)
	})

	t.Run("carrito vacío no llama al proveedor", func(t *testing.T) {
		repo := new(MockRepository)
		provider := new(MockProvider)

		repo.On("ListCartEntries", mock.Anything, "user-1").
			Return([]*models.CartEntry{}, nil).Once()

		svc := New(repo, provider, nil, newNoopLogger())
		result, err := svc.CheckoutCart(context.Background(), "user-1", "ORDER-5")

		assert.ErrorIs(t, err, ErrEmptyCart)
		assert.Equal(t, StateFailed, result.State)
		provider.AssertNotCalled(t, "CaptureOrder", mock.Anything, mock.Anything)
	})

	t.Run("captura rechazada deja el carrito intacto", func(t *testing.T) {
		repo := new(MockRepository)
		provider := new(MockProvider)

		repo.On("ListCartEntries", mock.Anything, "user-1").Return(entries, nil).Once()
		provider.On("CaptureOrder", mock.Anything, "ORDER-6").
			Return(nil, errors.New("provider unavailable")).Once()

		svc := New(repo, provider, nil, newNoopLogger())
		result, err := svc.CheckoutCart(context.Background(), "user-1", "ORDER-6")

		assert.Error(t, err)
		assert.Equal(t, StateFailed, result.State)
		repo.AssertNotCalled(t, "ReconcileCartPayment", mock.Anything, mock.Anything)
	})
}

func TestService_CreateOrder(t *testing.T) {
	t.Run("orden por el precio del plan", func(t *testing.T) {
		repo := new(MockRepository)
		provider := new(MockProvider)

		plan := &models.MembershipPlan{ID: 4, Price: 9900, DurationDays: 30}
		planID := 4
		repo.On("GetPlan", mock.Anything, 4).Return(plan, nil).Once()
		provider.On("CreateOrder", mock.Anything, 9900).
			Return(&paypal.OrderResponse{ID: "ORDER-7", Status: paypal.OrderStatusCreated}, nil).Once()

		svc := New(repo, provider, nil, newNoopLogger())
		order, err := svc.CreateOrder(context.Background(), "user-1", &planID)

		require.NoError(t, err)
		assert.Equal(t, "ORDER-7", order.ID)
	})

	t.Run("orden por el total del carrito", func(t *testing.T) {
		repo := new(MockRepository)
		provider := new(MockProvider)

		repo.On("ListCartEntries", mock.Anything, "user-1").Return([]*models.CartEntry{
			{ID: 1, Price: 1000, Quantity: 1},
		}, nil).Once()
		provider.On("CreateOrder", mock.Anything, 1000).
			Return(&paypal.OrderResponse{ID: "ORDER-8", Status: paypal.OrderStatusCreated}, nil).Once()

		svc := New(repo, provider, nil, newNoopLogger())
		order, err := svc.CreateOrder(context.Background(), "user-1", nil)

		require.NoError(t, err)
		assert.Equal(t, "ORDER-8", order.ID)
	})

	t.Run("carrito vacío no abre orden", func(t *testing.T) {
		repo := new(MockRepository)
		provider := new(MockProvider)

		repo.On("ListCartEntries", mock.Anything, "user-1").
			Return([]*models.CartEntry{}, nil).Once()

		svc := New(repo, provider, nil, newNoopLogger())
		order, err := svc.CreateOrder(context.Background(), "user-1", nil)

		assert.ErrorIs(t, err, ErrEmptyCart)
		assert.Nil(t, order)
		provider.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
	})
}
