// Package list implementa el handler HTTP para consultar los créditos del
// usuario: saldo actual, código de referido propio e historial de
// movimientos del más reciente al más antiguo.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/laseropolis/marketplace-api/internal/http/middlewarectx"
	"github.com/laseropolis/marketplace-api/internal/http/response"
	"github.com/laseropolis/marketplace-api/internal/lib/sl"
	"github.com/laseropolis/marketplace-api/internal/services/referral"
)

// Handler gestiona las peticiones de consulta de créditos.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service describe la consulta del libro mayor de créditos.
type Service interface {
	Credits(ctx context.Context, userUID string) (*referral.CreditsView, error)
}

// New crea un nuevo Handler con el logger y el servicio dados.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Consultar créditos
// @Description Devuelve el saldo de créditos, el código de referido y el historial de movimientos.
// @Tags Credits
// @Produce  json
// @Success 200 {object} map[string]any "Saldo y movimientos"
// @Failure 401 {object} response.ErrorResponse "Usuario no autorizado"
// @Failure 500 {object} response.ErrorResponse "Error interno del servidor"
// @Router /creditos [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.credits.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	view, err := h.service.Credits(r.Context(), userUID)
	if err != nil {
		log.Error("failed to load credits view", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not load credits"))
		return
	}

	log.Info("success to load credits view", slog.Int("balance", view.Balance))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"credits": view,
	}))
}
