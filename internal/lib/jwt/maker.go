// Package jwt implementa la generación y el parseo de tokens JWT con
// claims personalizados del marketplace.
//
// Maker define la interfaz para crear y verificar tokens con username,
// rol y uid; MakerImpl es la implementación concreta basada en una clave
// secreta y un tiempo de vida.
package jwt

import (
	"time"
)

// Maker describe la interfaz para generar y parsear tokens JWT.
type Maker interface {
	// GenerateToken crea un token con username, rol y uid del usuario.
	GenerateToken(username, role, userUID string) (string, error)
	// ParseToken devuelve *CustomClaims con los datos del token.
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl implementa Maker usando una clave secreta
// y un tiempo de vida del token (TTL).
type MakerImpl struct {
	secretKey string        // Clave secreta para firmar los tokens.
	tokenTTL  time.Duration // Tiempo de vida del token.
}

// NewJWTMaker crea un nuevo MakerImpl a partir de la clave secreta y el TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
