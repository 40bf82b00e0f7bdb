// Package preference implementa el handler HTTP del checkout con Mercado
// Pago. El contrato está definido pero el backend sigue pendiente: la ruta
// responde siempre 501 Not Implemented, sin simular ningún pago.
package preference

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/laseropolis/marketplace-api/internal/http/response"
	"github.com/laseropolis/marketplace-api/internal/lib/sl"
	"github.com/laseropolis/marketplace-api/internal/paymentprovider/mercadopago"
)

// Handler gestiona las peticiones de checkout con Mercado Pago.
type Handler struct {
	log    *slog.Logger
	client Client
}

// Client describe la creación de preferencias de pago.
type Client interface {
	CreatePreference(ctx context.Context, items []mercadopago.Item, backURLs mercadopago.BackURLs) (*mercadopago.Preference, error)
}

// New crea un nuevo Handler con el logger y el cliente dados.
func New(log *slog.Logger, client Client) *Handler {
	return &Handler{
		log:    log,
		client: client,
	}
}

// ServeHTTP godoc
// @Summary Checkout con Mercado Pago
// @Description Crearía una preferencia de pago. Integración pendiente: responde 501.
// @Tags Checkout
// @Produce  json
// @Failure 501 {object} response.ErrorResponse "Integración no implementada"
// @Router /checkout/preference [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.checkout.preference"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	_, err := h.client.CreatePreference(r.Context(), nil, mercadopago.BackURLs{})
	if errors.Is(err, mercadopago.ErrNotImplemented) {
		log.Info("mercado pago checkout requested, integration pending")
		w.WriteHeader(http.StatusNotImplemented)
		render.JSON(w, r, response.Error("mercado pago checkout is not implemented"))
		return
	}
	if err != nil {
		log.Error("failed to create payment preference", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create payment preference"))
		return
	}

	// Inalcanzable mientras el cliente siga sin backend.
	w.WriteHeader(http.StatusNotImplemented)
	render.JSON(w, r, response.Error("mercado pago checkout is not implemented"))
}
