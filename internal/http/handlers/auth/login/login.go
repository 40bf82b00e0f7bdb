// Package login implementa el handler HTTP de autenticación de usuarios.
//
// Handler decodifica las credenciales, las valida y delega el login al
// servicio de autenticación. El código de referido opcional que llegó del
// storefront viaja en el cuerpo y se aplica durante el aprovisionamiento
// perezoso del perfil en el primer login exitoso.
package login

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

// Handler gestiona las peticiones HTTP de login.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service describe la lógica de negocio de autenticación.
type Service interface {
	Login(ctx context.Context, username, rawPassword, referralCode string) (token, role string, err error)
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
// @Summary Autenticar un usuario
// @Description Verifica las credenciales y devuelve un JWT. Acepta un código de referido opcional capturado por el storefront.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body models.DummyLogin true "Credenciales del usuario"
// @Success 200 {object} map[string]any "Login exitoso"
// @Failure 400 {object} response.ErrorResponse "JSON inválido"
// @Failure 401 {object} response.ErrorResponse "Credenciales inválidas"
// @Failure 422 {object} response.ErrorResponse "Error de validación"
// @Router /login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyLogin
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

	token, role, err := h.service.Login(r.Context(), req.Username, req.Password, req.ReferralCode)
	if err != nil {
		log.Error("login failed", sl.Err(err))
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("invalid credentials"))
		return
	}

	log.Info("login success", slog.String("username", req.Username))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"token":    token,
		"role":     role,
		"username": req.Username,
	}))
}
