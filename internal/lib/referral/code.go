// Package referral genera los códigos de referido del marketplace.
//
// Un código son 6 caracteres del alfabeto A–Z0–9. El generador reintenta
// contra la tabla de usuarios hasta obtener un valor único: nunca acepta
// en silencio un código que ya exista.
package referral

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	alphabet   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength = 6
	// maxAttempts acota los reintentos por colisión; con 36^6 valores
	// posibles agotarlo indica un problema real en la tabla.
	maxAttempts = 20
)

// CodeChecker consulta si un código ya pertenece a algún usuario.
type CodeChecker interface {
	ReferralCodeExists(ctx context.Context, code string) (bool, error)
}

// GenerateUniqueCode produce un código de referido que no existe todavía
// en la tabla de usuarios. Devuelve error si la consulta de unicidad falla
// o si se agotan los intentos.
func GenerateUniqueCode(ctx context.Context, checker CodeChecker) (string, error) {
	const op = "referral.GenerateUniqueCode"
	for range maxAttempts {
		code, err := randomCode()
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		exists, err := checker.ReferralCodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("%s: exhausted attempts to find a unique code", op)
}

func randomCode() (string, error) {
	buf := make([]byte, codeLength)
	max := big.NewInt(int64(len(alphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = alphabet[n.Int64()]
	}
	return string(buf), nil
}
