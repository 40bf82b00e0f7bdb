// Package checkout implementa la reconciliación de pagos: tras la captura
// aprobada del proveedor, registra el pago, concede el derecho comprado
// (descarga o membresía con vencimiento recalculado) y limpia las líneas
// reconciliadas del carrito, todo dentro de una única transacción.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/laseropolis/marketplace-api/internal/lib/sl"
	"github.com/laseropolis/marketplace-api/internal/models"
	"github.com/laseropolis/marketplace-api/internal/paymentprovider/paypal"
	"github.com/laseropolis/marketplace-api/internal/rabbitmq"
	"github.com/laseropolis/marketplace-api/internal/storage/repository"
)

// Estados de un intento de checkout.
const (
	StateInitiated        = "INITIATED"
	StateAwaitingProvider = "AWAITING_PROVIDER"
	StateProviderApproved = "PROVIDER_APPROVED"
	StateReconciled       = "RECONCILED"
	StateFailed           = "FAILED"
)

// ErrEmptyCart indica que no hay líneas que reconciliar.
var ErrEmptyCart = errors.New("cart is empty")

// ErrCaptureRejected indica que el proveedor no completó la captura.
var ErrCaptureRejected = errors.New("provider did not complete the capture")

// Repository define el almacenamiento que necesita el reconciliador.
type Repository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	GetPlan(ctx context.Context, id int) (*models.MembershipPlan, error)
	GetActiveGrant(ctx context.Context, userUID string) (*models.MembershipGrant, error)
	ListCartEntries(ctx context.Context, userUID string) ([]*models.CartEntry, error)
	ReconcileMembershipPayment(ctx context.Context, rec repository.MembershipReconciliation) (int, error)
	ReconcileCartPayment(ctx context.Context, rec repository.CartReconciliation) (int, error)
}

// Provider crea órdenes de pago y captura las aprobadas por el comprador.
type Provider interface {
	CreateOrder(ctx context.Context, amount int) (*paypal.OrderResponse, error)
	CaptureOrder(ctx context.Context, orderID string) (*paypal.OrderResponse, error)
}

// EventPublisher publica eventos de pago reconciliado. Puede ser nil; la
// publicación es best-effort y nunca hace fallar un checkout ya confirmado.
type EventPublisher interface {
	Publish(routingKey string, message any) error
}

// Result describe el desenlace de un intento de checkout.
type Result struct {
	State     string
	PaymentID int
	ExpiresAt time.Time // Solo para compras de membresía
}

// Service implementa la máquina de estados del checkout.
type Service struct {
	repo   Repository
	paypal Provider
	events EventPublisher
	log    *slog.Logger
}

// New crea un nuevo Service.
func New(repo Repository, provider Provider, events EventPublisher, log *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		paypal: provider,
		events: events,
		log:    log,
	}
}

// NextExpiry calcula el vencimiento de una membresía comprada en now.
// Si el usuario tiene una membresía vigente, la duración nueva se apila
// sobre el vencimiento existente; un vencimiento exactamente igual a now
// cuenta como vigente y también apila. Sin membresía vigente, el
// vencimiento es now más la duración del plan.
func NextExpiry(now time.Time, current *models.MembershipGrant, durationDays int) time.Time {
	if current != nil && current.ActiveAt(now) {
		return current.ExpiresAt.AddDate(0, 0, durationDays)
	}
	return now.AddDate(0, 0, durationDays)
}

// CreateOrder abre una orden de pago en PayPal por el importe del plan
// indicado o, si planID es nil, por el total actual del carrito. La orden
// queda a la espera de la aprobación del comprador.
func (s *Service) CreateOrder(ctx context.Context, userUID string, planID *int) (*paypal.OrderResponse, error) {
	var amount int
	if planID != nil {
		plan, err := s.repo.GetPlan(ctx, *planID)
		if err != nil {
			return nil, err
		}
		amount = plan.Price
	} else {
		entries, err := s.repo.ListCartEntries(ctx, userUID)
		if err != nil {
			return nil, err
		}
		if len(entries) == 0 {
			return nil, ErrEmptyCart
		}
		amount = models.CartTotal(entries)
	}

	order, err := s.paypal.CreateOrder(ctx, amount)
	if err != nil {
		return nil, err
	}
	s.log.Info("provider order created", slog.String("state", StateAwaitingProvider),
		slog.String("user_uid", userUID), slog.String("order_id", order.ID))
	return order, nil
}

// CheckoutMembership reconcilia la compra de un plan de membresía tras la
// aprobación del comprador en PayPal. El carrito no se toca si algo falla:
// el usuario puede reintentar el checkout completo.
func (s *Service) CheckoutMembership(ctx context.Context, userUID string, planID int, orderID string) (*Result, error) {
	log := s.log.With(slog.String("state", StateInitiated),
		slog.String("user_uid", userUID), slog.Int("plan_id", planID))

	plan, err := s.repo.GetPlan(ctx, planID)
	if err != nil {
		return &Result{State: StateFailed}, err
	}

	capture, err := s.capture(ctx, orderID)
	if err != nil {
		return &Result{State: StateFailed}, err
	}
	log.Info("provider approved capture", slog.String("state", StateProviderApproved),
		slog.String("transaction_id", capture))

	now := time.Now().UTC()
	grant, err := s.repo.GetActiveGrant(ctx, userUID)
	if err != nil {
		return &Result{State: StateFailed}, err
	}
	expiresAt := NextExpiry(now, grant, plan.DurationDays)

	paymentID, err := s.repo.ReconcileMembershipPayment(ctx, repository.MembershipReconciliation{
		UserUID:       userUID,
		PlanID:        plan.ID,
		Amount:        plan.Price,
		Method:        models.PaymentMethodPayPal,
		TransactionID: &capture,
		StartDate:     now,
		ExpiresAt:     expiresAt,
	})
	if err != nil {
		return &Result{State: StateFailed}, err
	}
	log.Info("membership payment reconciled", slog.String("state", StateReconciled),
		slog.Int("payment_id", paymentID))

	s.publishCompleted(ctx, userUID, paymentID, plan.Price,
		fmt.Sprintf("Membresía %s", plan.Name))
	return &Result{State: StateReconciled, PaymentID: paymentID, ExpiresAt: expiresAt}, nil
}

// CheckoutCart reconcilia la compra de las líneas actuales del carrito.
func (s *Service) CheckoutCart(ctx context.Context, userUID string, orderID string) (*Result, error) {
	log := s.log.With(slog.String("state", StateInitiated), slog.String("user_uid", userUID))

	entries, err := s.repo.ListCartEntries(ctx, userUID)
	if err != nil {
		return &Result{State: StateFailed}, err
	}
	if len(entries) == 0 {
		return &Result{State: StateFailed}, ErrEmptyCart
	}
	total := models.CartTotal(entries)

	capture, err := s.capture(ctx, orderID)
	if err != nil {
		return &Result{State: StateFailed}, err
	}
	log.Info("provider approved capture", slog.String("state", StateProviderApproved),
		slog.String("transaction_id", capture))

	paymentID, err := s.repo.ReconcileCartPayment(ctx, repository.CartReconciliation{
		UserUID:       userUID,
		Amount:        total,
		Method:        models.PaymentMethodPayPal,
		TransactionID: &capture,
		Entries:       entries,
	})
	if err != nil {
		return &Result{State: StateFailed}, err
	}
	log.Info("cart payment reconciled", slog.String("state", StateReconciled),
		slog.Int("payment_id", paymentID))

	s.publishCompleted(ctx, userUID, paymentID, total, "Compra de artículos")
	return &Result{State: StateReconciled, PaymentID: paymentID}, nil
}

// capture confirma la captura con el proveedor y devuelve el identificador
// de la transacción.
func (s *Service) capture(ctx context.Context, orderID string) (string, error) {
	resp, err := s.paypal.CaptureOrder(ctx, orderID)
	if err != nil {
		return "", err
	}
	if resp.Status != paypal.OrderStatusCompleted {
		return "", fmt.Errorf("%w: status %s", ErrCaptureRejected, resp.Status)
	}
	if id := resp.CaptureID(); id != "" {
		return id, nil
	}
	return resp.ID, nil
}

func (s *Service) publishCompleted(ctx context.Context, userUID string, paymentID, amount int, description string) {
	if s.events == nil {
		return
	}
	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		s.log.Warn("failed to load user for receipt event", sl.Err(err))
		return
	}
	event := models.PaymentCompletedEvent{
		PaymentID:   paymentID,
		UserUID:     userUID,
		Username:    user.Username,
		Email:       user.Email,
		Amount:      amount,
		Method:      models.PaymentMethodPayPal,
		Description: description,
	}
	if err := s.events.Publish(rabbitmq.RoutingKeyPaymentCompleted, event); err != nil {
		s.log.Warn("failed to publish payment event", sl.Err(err))
	}
}
