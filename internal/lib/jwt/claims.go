package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CustomClaims describe los datos de usuario almacenados en el JWT.
type CustomClaims struct {
	Username             string `json:"username"` // Nombre de usuario
	Role                 string `json:"role"`     // Rol del usuario
	UserUID              string `json:"user_uid"` // UUID del usuario
	jwt.RegisteredClaims        // Claims estándar de JWT (ExpiresAt, IssuedAt, etc.)
}

// GenerateToken crea un token JWT con username, rol y uid, firmado con la
// clave secreta. El tiempo de vida lo determina tokenTTL.
func (j *MakerImpl) GenerateToken(username, role, userUID string) (string, error) {
	claims := CustomClaims{
		Username: username,
		Role:     role,
		UserUID:  userUID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(j.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

// ParseToken parsea el token JWT, verifica su firma y validez, y devuelve
// CustomClaims si el token es correcto.
func (j *MakerImpl) ParseToken(tokenStr string) (*CustomClaims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	return claims, nil
}
