// Package password implementa el hasheo y la verificación segura de contraseñas.
//
// GetHash crea un hash bcrypt de la contraseña para su almacenamiento.
// CompareHash compara un hash bcrypt con la contraseña introducida.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// GetHash recibe la contraseña del usuario y devuelve su hash bcrypt.
func GetHash(password string) (string, error) {
	const op = "auth.GetHash"
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashedPassword), nil
}

// CompareHash compara el hash bcrypt almacenado con la contraseña introducida.
//
// Devuelve nil si la contraseña corresponde al hash, en caso contrario un error.
func CompareHash(originalHash, externalPassword string) error {
	const op = "auth.CompareHash"
	if err := bcrypt.CompareHashAndPassword([]byte(originalHash), []byte(externalPassword)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
