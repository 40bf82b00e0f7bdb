// Package repository implementa el almacenamiento sobre PostgreSQL para el
// marketplace: usuarios, catálogo, membresías, carrito, pagos, descargas y
// el libro mayor de créditos. Ofrece métodos de creación, lectura,
// actualización y borrado, además de la reconciliación transaccional
// del checkout.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Registro del driver pgx para usarlo con database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// ErrNotFound se devuelve cuando la fila pedida no existe o no pertenece
// al usuario que la solicita.
var ErrNotFound = errors.New("not found")

// Storage encapsula la conexión a PostgreSQL e implementa los métodos
// de acceso a datos del marketplace.
type Storage struct {
	DB *sql.DB
}

// New crea la conexión a PostgreSQL y verifica que responde.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady comprueba que el esquema está migrado.
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'usuarios'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table usuarios missing or query error: %w", err)
	}
	return nil
}
