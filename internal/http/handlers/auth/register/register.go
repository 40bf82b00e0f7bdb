// Package register implementa el handler HTTP para el registro de usuarios.
//
// Handler recibe un JSON con email, username y contraseña, valida los campos
// y delega la creación de la cuenta al servicio de autenticación. El perfil
// del marketplace se completa después, en el primer login.
package register

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/laseropolis/marketplace-api/internal/http/response"
	"github.com/laseropolis/marketplace-api/internal/lib/sl"
	"github.com/laseropolis/marketplace-api/internal/models"
)

// Handler gestiona las peticiones HTTP de registro.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service describe la lógica de negocio del registro.
type Service interface {
	Register(ctx context.Context, email, username, rawPassword string) (string, error)
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
// @Summary Registrar un usuario
// @Description Crea una cuenta nueva con email, username y contraseña.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body models.DummyRegister true "Datos del registro"
// @Success 200 {object} map[string]any "Registro exitoso"
// @Failure 400 {object} response.ErrorResponse "JSON inválido"
// @Failure 422 {object} response.ErrorResponse "Error de validación"
// @Failure 500 {object} response.ErrorResponse "Error interno del servidor"
// @Router /register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyRegister
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.String("username", req.Username))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	uid, err := h.service.Register(r.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		log.Error("failed to register user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not register user"))
		return
	}

	log.Info("user registered", slog.String("uid", uid))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"uid":      uid,
		"username": req.Username,
	}))
}
