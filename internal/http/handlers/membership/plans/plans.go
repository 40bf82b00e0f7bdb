// Package plans implementa el handler HTTP para listar los planes de
// membresía disponibles con sus categorías cubiertas.
package plans

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/laseropolis/marketplace-api/internal/http/response"
	"github.com/laseropolis/marketplace-api/internal/lib/sl"
	"github.com/laseropolis/marketplace-api/internal/models"
)

// Handler gestiona las peticiones de listado de planes.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service describe la lógica de negocio del listado de planes.
type Service interface {
	ListPlans(ctx context.Context) ([]*models.MembershipPlan, error)
}

// New crea un nuevo Handler con el logger y el servicio dados.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Listar planes de membresía
// @Description Devuelve los planes disponibles con precio, duración y categorías cubiertas.
// @Tags Membership
// @Produce  json
// @Success 200 {object} map[string]any "Listado de planes"
// @Failure 500 {object} response.ErrorResponse "Error interno del servidor"
// @Router /membresias [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.membership.plans"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	plansList, err := h.service.ListPlans(r.Context())
	if err != nil {
		log.Error("failed to list membership plans", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list plans"))
		return
	}

	log.Info("success to list membership plans", slog.Int("count", len(plansList)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"plans": plansList,
	}))
}
