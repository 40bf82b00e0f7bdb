// Package middlewarectx contiene los middleware HTTP para autenticación,
// autorización y limitación de peticiones.
//
// JWTMiddleware comprueba la presencia y validez del token JWT en la
// cabecera Authorization y, si es válido, añade al contexto el nombre de
// usuario, el rol y el uid para los handlers posteriores.
//
// En caso de fallo en la comprobación devuelve HTTP 401 Unauthorized.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/laseropolis/marketplace-api/internal/http/response"
	"github.com/laseropolis/marketplace-api/internal/lib/sl"
	"github.com/laseropolis/marketplace-api/internal/models"
)

// Key tipo para las claves del contexto de la petición HTTP.
type Key string

const (
	// User clave del nombre de usuario en el contexto.
	User Key = "username"
	// Role clave del rol del usuario en el contexto.
	Role Key = "role"
	// UserUID clave del uid del usuario en el contexto.
	UserUID Key = "useruid"
)

// Service describe el servicio que valida el token JWT.
type Service interface {
	ValidateToken(ctx context.Context, token string) (*models.User, string, bool, error)
}

// JWTMiddleware devuelve un middleware HTTP que comprueba el JWT de la
// cabecera Authorization.
//
// Si el token es válido añade username, rol y uid al contexto de la
// petición; en caso contrario responde con HTTP 401 Unauthorized.
func JWTMiddleware(authService Service, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			const op = "middlewarectx.JWTMiddleware"

			log = log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			user, role, valid, err := authService.ValidateToken(r.Context(), tokenStr)
			if err != nil || !valid {
				log.Error("invalid or expired token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}
			ctx := context.WithValue(r.Context(), User, user.Username)
			ctx = context.WithValue(ctx, Role, role)
			ctx = context.WithValue(ctx, UserUID, user.UUID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
