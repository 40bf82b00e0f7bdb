// Package read implementa el handler HTTP para obtener un artículo del
// catálogo por su ID.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/laseropolis/marketplace-api/internal/http/response"
	"github.com/laseropolis/marketplace-api/internal/lib/sl"
	"github.com/laseropolis/marketplace-api/internal/models"
	"github.com/laseropolis/marketplace-api/internal/storage/repository"
)

// Handler gestiona las peticiones de lectura de un artículo.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service describe la lógica de negocio de lectura del catálogo.
type Service interface {
	Read(ctx context.Context, id int) (*models.CatalogItem, error)
}

// New crea un nuevo Handler con el logger y el servicio dados.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Obtener un artículo
// @Description Devuelve un artículo del catálogo por su ID.
// @Tags Catalog
// @Produce  json
// @Param id path int true "ID del artículo"
// @Success 200 {object} map[string]any "Artículo encontrado"
// @Failure 400 {object} response.ErrorResponse "ID inválido"
// @Failure 404 {object} response.ErrorResponse "Artículo no encontrado"
// @Failure 500 {object} response.ErrorResponse "Error interno del servidor"
// @Router /archivos/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.read"

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

	item, err := h.service.Read(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Info("catalog item not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("item not found"))
			return
		}
		log.Error("failed to read catalog item", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read item"))
		return
	}

	log.Info("success to read catalog item", slog.Int("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"item": item,
	}))
}
