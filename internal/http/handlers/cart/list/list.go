// Package list implementa el handler HTTP para listar el carrito del
// usuario autenticado junto con su total.
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
	"github.com/laseropolis/marketplace-api/internal/models"
)

// Handler gestiona las peticiones de listado del carrito.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service describe la lógica de negocio del carrito.
type Service interface {
	List(ctx context.Context, userUID string) ([]*models.CartEntry, error)
	Total(entries []*models.CartEntry) int
}

// New crea un nuevo Handler con el logger y el servicio dados.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Listar el carrito
// @Description Devuelve las líneas del carrito del usuario y su total.
// @Tags Cart
// @Produce  json
// @Success 200 {object} map[string]any "Líneas y total"
// @Failure 401 {object} response.ErrorResponse "Usuario no autorizado"
// @Failure 500 {object} response.ErrorResponse "Error interno del servidor"
// @Router /carrito [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.list"

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

	entries, err := h.service.List(r.Context(), userUID)
	if err != nil {
		log.Error("failed to list cart entries", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list cart"))
		return
	}

	log.Info("success to list cart entries", slog.Int("count", len(entries)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"entries": entries,
		"total":   h.service.Total(entries),
	}))
}
