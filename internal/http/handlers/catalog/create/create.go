// Package create implementa el handler HTTP para publicar artículos nuevos
// en el catálogo. La ruta está reservada a administradores; el middleware
// de rol rechaza al resto con 403 antes de llegar aquí.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/laseropolis/marketplace-api/internal/http/middlewarectx"
	"github.com/laseropolis/marketplace-api/internal/http/response"
	"github.com/laseropolis/marketplace-api/internal/lib/sl"
	"github.com/laseropolis/marketplace-api/internal/models"
)

// Handler gestiona las peticiones de alta de artículos.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service describe la lógica de negocio de alta en el catálogo.
type Service interface {
	Create(ctx context.Context, creatorUID string, req models.DummyCatalogItem) (int, error)
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
// @Summary Publicar un artículo
// @Description Crea un artículo nuevo en el catálogo. Solo administradores.
// @Tags Catalog
// @Accept  json
// @Produce  json
// @Param request body models.DummyCatalogItem true "Datos del artículo"
// @Success 200 {object} map[string]any "Artículo creado"
// @Failure 400 {object} response.ErrorResponse "JSON inválido"
// @Failure 401 {object} response.ErrorResponse "Usuario no autorizado"
// @Failure 403 {object} response.ErrorResponse "Requiere rol de administrador"
// @Failure 422 {object} response.ErrorResponse "Error de validación"
// @Failure 500 {object} response.ErrorResponse "Error interno del servidor"
// @Router /archivos [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyCatalogItem
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.String("name", req.Name))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	creatorUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || creatorUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	id, err := h.service.Create(r.Context(), creatorUID, req)
	if err != nil {
		log.Error("failed to create catalog item", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create item"))
		return
	}

	log.Info("catalog item created", slog.Int("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id": id,
	}))
}
