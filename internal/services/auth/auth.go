// Package auth contiene la lógica de registro, login y validación de JWT.
package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/laseropolis/marketplace-api/internal/lib/jwt"
	"github.com/laseropolis/marketplace-api/internal/lib/password"
	"github.com/laseropolis/marketplace-api/internal/lib/sl"
	"github.com/laseropolis/marketplace-api/internal/models"
)

// UserRepository describe el contrato de usuarios en la base de datos.
type UserRepository interface {
	// RegisterUser guarda un usuario nuevo y devuelve su UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)

	// GetUserByUsername devuelve un usuario por nombre, o error si no existe.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Provisioner completa el perfil del marketplace en el primer login.
type Provisioner interface {
	Provision(ctx context.Context, userUID, referralCode string) error
}

// AuthService gestiona registro, autorización y validación de JWT.
type AuthService struct {
	users       UserRepository
	provisioner Provisioner
	jwtMaker    jwt.Maker
	log         *slog.Logger
}

// NewAuthService crea un nuevo AuthService.
func NewAuthService(users UserRepository, provisioner Provisioner, jwtMaker jwt.Maker, log *slog.Logger) *AuthService {
	return &AuthService{
		users:       users,
		provisioner: provisioner,
		jwtMaker:    jwtMaker,
		log:         log,
	}
}

// Register crea un usuario nuevo con la contraseña hasheada y rol "user".
// El perfil del marketplace (código de referido, atribución) se completa
// más tarde, en el primer login exitoso.
func (s *AuthService) Register(ctx context.Context, email, username, rawPassword string) (string, error) {
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", err
	}
	user := models.User{
		Email:        email,
		Username:     username,
		PasswordHash: hashed,
		Role:         "user",
	}
	return s.users.RegisterUser(ctx, user)
}

// Login verifica la contraseña, aprovisiona el perfil si es el primer
// login (aplicando el código de referido capturado, si llegó) y genera
// el JWT. Un fallo del aprovisionamiento no bloquea el acceso: se
// registra y el login continúa.
func (s *AuthService) Login(ctx context.Context, username, rawPassword, referralCode string) (token, role string, err error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return "", "", err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", "", errors.New("invalid credentials")
	}

	if err := s.provisioner.Provision(ctx, user.UUID, referralCode); err != nil {
		s.log.Error("profile provisioning failed", sl.Err(err))
	}

	token, err = s.jwtMaker.GenerateToken(user.Username, user.Role, user.UUID)
	if err != nil {
		return "", "", err
	}
	return token, user.Role, nil
}

// ValidateToken comprueba el JWT y devuelve los datos del usuario.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*models.User, string, bool, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, "", false, err
	}
	user := &models.User{
		Username: claims.Username,
		Role:     claims.Role,
		UUID:     claims.UserUID,
	}
	return user, claims.Role, true, nil
}
