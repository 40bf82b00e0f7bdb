// Package remove implementa el handler HTTP para quitar una línea del
// carrito del usuario autenticado. Solo el dueño de la línea puede
// eliminarla; una línea ajena responde 404.
package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/laseropolis/marketplace-api/internal/http/middlewarectx"
	"github.com/laseropolis/marketplace-api/internal/http/response"
	"github.com/laseropolis/marketplace-api/internal/lib/sl"
	"github.com/laseropolis/marketplace-api/internal/services/cart"
)

// Handler gestiona las peticiones de borrado de líneas del carrito.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service describe la lógica de negocio del carrito.
type Service interface {
	Remove(ctx context.Context, userUID string, entryID int) error
}

// New crea un nuevo Handler con el logger y el servicio dados.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Quitar una línea del carrito
// @Description Elimina la línea indicada si pertenece al usuario autenticado.
// @Tags Cart
// @Produce  json
// @Param id path int true "ID de la línea"
// @Success 200 {object} map[string]any "Línea eliminada"
// @Failure 400 {object} response.ErrorResponse "ID inválido"
// @Failure 401 {object} response.ErrorResponse "Usuario no autorizado"
// @Failure 404 {object} response.ErrorResponse "Línea no encontrada"
// @Failure 500 {object} response.ErrorResponse "Error interno del servidor"
// @Router /carrito/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.service.Remove(r.Context(), userUID, id); err != nil {
		if errors.Is(err, cart.ErrNotFound) {
			log.Info("cart entry not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("cart entry not found"))
			return
		}
		log.Error("failed to remove cart entry", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not remove cart entry"))
		return
	}

	log.Info("cart entry removed", slog.Int("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"removed_id": id,
	}))
}
