// Package download implementa el handler HTTP de descarga de un archivo.
//
// Handler resuelve el derecho del usuario sobre el artículo (gratuito,
// comprado o cubierto por su membresía) y, si procede, registra la descarga
// y devuelve la URL pública del objeto.
package download

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
	"github.com/laseropolis/marketplace-api/internal/models"
	"github.com/laseropolis/marketplace-api/internal/services/catalog"
	"github.com/laseropolis/marketplace-api/internal/storage/repository"
)

// Handler gestiona las peticiones de descarga de archivos.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service describe la lógica de negocio de descarga.
type Service interface {
	Download(ctx context.Context, user *models.User, itemID int) (string, error)
}

// New crea un nuevo Handler con el logger y el servicio dados.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Descargar un archivo
// @Description Comprueba el derecho del usuario sobre el archivo y devuelve su URL de descarga.
// @Tags Catalog
// @Produce  json
// @Param id path int true "ID del archivo"
// @Success 200 {object} map[string]any "URL de descarga"
// @Failure 400 {object} response.ErrorResponse "ID inválido"
// @Failure 401 {object} response.ErrorResponse "Usuario no autorizado"
// @Failure 403 {object} response.ErrorResponse "Sin derecho de descarga"
// @Failure 404 {object} response.ErrorResponse "Archivo no encontrado"
// @Failure 500 {object} response.ErrorResponse "Error interno del servidor"
// @Router /archivos/{id}/descargar [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.download"

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
	username, _ := r.Context().Value(middlewarectx.User).(string)
	role, _ := r.Context().Value(middlewarectx.Role).(string)
	user := &models.User{UUID: userUID, Username: username, Role: role}

	url, err := h.service.Download(r.Context(), user, id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			log.Info("catalog item not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("item not found"))
		case errors.Is(err, catalog.ErrAccessDenied):
			log.Info("download access denied",
				slog.String("user_uid", userUID), slog.Int("id", id))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("access denied"))
		default:
			log.Error("failed to resolve download", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not resolve download"))
		}
		return
	}

	log.Info("download granted", slog.String("user_uid", userUID), slog.Int("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"url": url,
	}))
}
