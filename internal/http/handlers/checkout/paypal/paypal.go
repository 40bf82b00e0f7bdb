// Package paypal implementa el handler HTTP del checkout con PayPal.
//
// Sin order_id en el cuerpo, abre una orden en PayPal por el importe del
// plan o del carrito y devuelve su identificador para la aprobación del
// comprador. Con order_id, captura la orden aprobada y reconcilia el pago:
// registra el cobro, concede el derecho comprado y limpia el carrito en
// una sola transacción.
package paypal

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/laseropolis/marketplace-api/internal/http/middlewarectx"
	"github.com/laseropolis/marketplace-api/internal/http/response"
	"github.com/laseropolis/marketplace-api/internal/lib/sl"
	paypalapi "github.com/laseropolis/marketplace-api/internal/paymentprovider/paypal"
	"github.com/laseropolis/marketplace-api/internal/services/checkout"
	"github.com/laseropolis/marketplace-api/internal/storage/repository"
)

// Request son los datos del checkout. PlanID presente compra una membresía;
// ausente, el contenido actual del carrito. OrderID vacío abre la orden;
// presente, la captura y reconcilia.
type Request struct {
	OrderID string `json:"order_id,omitempty" validate:"omitempty"`
	PlanID  *int   `json:"plan_id,omitempty" validate:"omitempty,gt=0"`
}

// Handler gestiona las peticiones de checkout con PayPal.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service describe la máquina de estados del checkout.
type Service interface {
	CreateOrder(ctx context.Context, userUID string, planID *int) (*paypalapi.OrderResponse, error)
	CheckoutMembership(ctx context.Context, userUID string, planID int, orderID string) (*checkout.Result, error)
	CheckoutCart(ctx context.Context, userUID string, orderID string) (*checkout.Result, error)
}

// New crea un nuevo Handler con el logger y el servicio dados.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Checkout con PayPal
// @Description Abre una orden de pago o captura y reconcilia una orden aprobada.
// @Tags Checkout
// @Accept  json
// @Produce  json
// @Param request body Request true "Datos del checkout"
// @Success 200 {object} map[string]any "Orden abierta o pago reconciliado"
// @Failure 400 {object} response.ErrorResponse "JSON inválido o carrito vacío"
// @Failure 401 {object} response.ErrorResponse "Usuario no autorizado"
// @Failure 404 {object} response.ErrorResponse "Plan no encontrado"
// @Failure 422 {object} response.ErrorResponse "Error de validación"
// @Failure 500 {object} response.ErrorResponse "Fallo del proveedor o del almacenamiento"
// @Router /checkout/paypal [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.checkout.paypal"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.String("order_id", req.OrderID))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if req.OrderID == "" {
		h.createOrder(w, r, log, userUID, req.PlanID)
		return
	}
	h.reconcile(w, r, log, userUID, req)
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request, log *slog.Logger, userUID string, planID *int) {
	order, err := h.service.CreateOrder(r.Context(), userUID, planID)
	if err != nil {
		h.writeCheckoutError(w, r, log, err, "failed to create provider order")
		return
	}

	log.Info("provider order created", slog.String("order_id", order.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"order_id": order.ID,
		"status":   order.Status,
		"state":    checkout.StateAwaitingProvider,
	}))
}

func (h *Handler) reconcile(w http.ResponseWriter, r *http.Request, log *slog.Logger, userUID string, req Request) {
	var (
		result *checkout.Result
		err    error
	)
	if req.PlanID != nil {
		result, err = h.service.CheckoutMembership(r.Context(), userUID, *req.PlanID, req.OrderID)
	} else {
		result, err = h.service.CheckoutCart(r.Context(), userUID, req.OrderID)
	}
	if err != nil {
		h.writeCheckoutError(w, r, log, err, "failed to reconcile payment")
		return
	}

	log.Info("payment reconciled", slog.Int("payment_id", result.PaymentID))
	data := map[string]any{
		"state":      result.State,
		"payment_id": result.PaymentID,
	}
	if req.PlanID != nil {
		data["expires_at"] = result.ExpiresAt
	}
	render.JSON(w, r, response.OKWithData(data))
}

func (h *Handler) writeCheckoutError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error, msg string) {
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		log.Info("checkout with empty cart")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("cart is empty"))
	case errors.Is(err, repository.ErrNotFound):
		log.Info("membership plan not found")
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("plan not found"))
	default:
		log.Error(msg, sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not complete checkout"))
	}
}
