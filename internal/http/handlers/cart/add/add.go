// Package add implementa el handler HTTP para añadir un artículo al
// carrito del usuario autenticado.
//
// El artículo se resuelve en el catálogo y se congela en la línea del
// carrito con su nombre y precio actuales. Añadir dos veces el mismo
// artículo devuelve la línea existente sin duplicarla.
package add

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
	"github.com/laseropolis/marketplace-api/internal/models"
	"github.com/laseropolis/marketplace-api/internal/storage/repository"
)

// Request son los datos para añadir un artículo al carrito.
type Request struct {
	ItemID int `json:"producto_id" validate:"required,gt=0"`
}

// Handler gestiona las peticiones de alta en el carrito.
type Handler struct {
	log      *slog.Logger
	catalog  CatalogService
	cart     CartService
	validate *validator.Validate
}

// CatalogService resuelve artículos del catálogo por ID.
type CatalogService interface {
	Read(ctx context.Context, id int) (*models.CatalogItem, error)
}

// CartService describe la lógica de negocio del carrito.
type CartService interface {
	Add(ctx context.Context, userUID string, item *models.CatalogItem) (*models.CartEntry, error)
}

// New crea un nuevo Handler con el logger y los servicios dados.
func New(log *slog.Logger, catalog CatalogService, cart CartService) *Handler {
	return &Handler{
		log:      log,
		catalog:  catalog,
		cart:     cart,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Añadir un artículo al carrito
// @Description Añade el artículo indicado al carrito del usuario. Idempotente por artículo.
// @Tags Cart
// @Accept  json
// @Produce  json
// @Param request body Request true "Artículo a añadir"
// @Success 200 {object} map[string]any "Línea del carrito"
// @Failure 400 {object} response.ErrorResponse "JSON inválido"
// @Failure 401 {object} response.ErrorResponse "Usuario no autorizado"
// @Failure 404 {object} response.ErrorResponse "Artículo no encontrado"
// @Failure 422 {object} response.ErrorResponse "Error de validación"
// @Failure 500 {object} response.ErrorResponse "Error interno del servidor"
// @Router /carrito [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.add"

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
	log.Info("request body decoded", slog.Int("item_id", req.ItemID))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	item, err := h.catalog.Read(r.Context(), req.ItemID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Info("catalog item not found", slog.Int("item_id", req.ItemID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("item not found"))
			return
		}
		log.Error("failed to read catalog item", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not add item to cart"))
		return
	}

	entry, err := h.cart.Add(r.Context(), userUID, item)
	if err != nil {
		log.Error("failed to add item to cart", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not add item to cart"))
		return
	}

	log.Info("item added to cart", slog.Int("entry_id", entry.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"entry": entry,
	}))
}
