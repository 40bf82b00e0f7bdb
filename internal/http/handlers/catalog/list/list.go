// Package list implementa el handler HTTP para listar el catálogo de
// artículos, con filtro opcional por categoría y paginación.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/laseropolis/marketplace-api/internal/http/response"
	"github.com/laseropolis/marketplace-api/internal/lib/sl"
	"github.com/laseropolis/marketplace-api/internal/models"
)

// Handler gestiona las peticiones de listado del catálogo.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service describe la lógica de negocio del listado del catálogo.
type Service interface {
	List(ctx context.Context, categoryID *int, limit, offset int) ([]*models.CatalogItem, error)
}

// New crea un nuevo Handler con el logger y el servicio dados.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Listar artículos del catálogo
// @Description Devuelve los artículos, con filtro opcional por categoría y paginación.
// @Tags Catalog
// @Produce  json
// @Param categoria query int false "ID de la categoría"
// @Param limit query int false "Límite de resultados"
// @Param offset query int false "Desplazamiento"
// @Success 200 {object} map[string]any "Listado de artículos"
// @Failure 400 {object} response.ErrorResponse "Parámetros inválidos"
// @Failure 500 {object} response.ErrorResponse "Error interno del servidor"
// @Router /archivos [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var categoryID *int
	if raw := r.URL.Query().Get("categoria"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			log.Error("failed to decode category from query", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid category parameter"))
			return
		}
		categoryID = &id
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	offset := 0
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}

	items, err := h.service.List(r.Context(), categoryID, limit, offset)
	if err != nil {
		log.Error("failed to list catalog items", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list items"))
		return
	}

	log.Info("success to list catalog items", slog.Int("count", len(items)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"items": items,
	}))
}
