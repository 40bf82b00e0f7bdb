package repository

import (
	"context"
	"fmt"

	"github.com/laseropolis/marketplace-api/internal/models"
)

// CreateCreditMovement añade una entrada al libro mayor de créditos y
// devuelve su ID. El libro es append-only: las entradas nunca se
// actualizan ni se borran.
func (s *Storage) CreateCreditMovement(ctx context.Context, movement models.CreditMovement) (int, error) {
	const op = "storage.CreateCreditMovement"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO movimientos_credito (usuario_uid, tipo, cantidad, descripcion)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		movement.UserUID, movement.Type, movement.Amount, movement.Description).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListCreditMovements devuelve el historial de movimientos del usuario,
// más reciente primero.
func (s *Storage) ListCreditMovements(ctx context.Context, userUID string) ([]*models.CreditMovement, error) {
	const op = "storage.ListCreditMovements"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, usuario_uid, tipo, cantidad, descripcion, fecha
			  FROM movimientos_credito
			  WHERE usuario_uid = $1
			  ORDER BY fecha DESC`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.CreditMovement
	for rows.Next() {
		var m models.CreditMovement
		if err := rows.Scan(&m.ID, &m.UserUID, &m.Type, &m.Amount,
			&m.Description, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
