package repository

import (
	"context"
	"fmt"

	"github.com/laseropolis/marketplace-api/internal/models"
)

// UpsertCartEntry inserta una línea del carrito o, si la pareja
// (usuario, artículo) ya existe, devuelve la fila existente sin crear
// una segunda. La restricción UNIQUE del esquema respalda la idempotencia.
func (s *Storage) UpsertCartEntry(ctx context.Context, entry models.CartEntry) (*models.CartEntry, error) {
	const op = "storage.UpsertCartEntry"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	insert := `INSERT INTO carrito_compras (usuario_uid, producto_id, nombre, precio, tipo_producto, cantidad)
			   VALUES ($1, $2, $3, $4, $5, 1)
			   ON CONFLICT (usuario_uid, producto_id) DO NOTHING`
	if _, err := s.DB.ExecContext(ctx, insert,
		entry.UserUID, entry.ItemID, entry.Name, entry.Price, entry.Kind); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT id, usuario_uid, producto_id, nombre, precio, tipo_producto, cantidad, created_at
			  FROM carrito_compras
			  WHERE usuario_uid = $1 AND producto_id = $2`
	var result models.CartEntry
	if err := s.DB.QueryRowContext(ctx, query, entry.UserUID, entry.ItemID).Scan(
		&result.ID, &result.UserUID, &result.ItemID, &result.Name, &result.Price,
		&result.Kind, &result.Quantity, &result.AddedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// ListCartEntries devuelve las líneas del carrito de un usuario.
func (s *Storage) ListCartEntries(ctx context.Context, userUID string) ([]*models.CartEntry, error) {
	const op = "storage.ListCartEntries"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, usuario_uid, producto_id, nombre, precio, tipo_producto, cantidad, created_at
			  FROM carrito_compras
			  WHERE usuario_uid = $1
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.CartEntry
	for rows.Next() {
		var item models.CartEntry
		if err := rows.Scan(&item.ID, &item.UserUID, &item.ItemID, &item.Name,
			&item.Price, &item.Kind, &item.Quantity, &item.AddedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// RemoveCartEntry borra una línea del carrito solo si pertenece al usuario
// indicado; la propiedad se comprueba en la propia sentencia SQL. Devuelve
// el número de filas borradas (0 cuando la línea no existe o es ajena).
func (s *Storage) RemoveCartEntry(ctx context.Context, userUID string, entryID int) (int, error) {
	const op = "storage.RemoveCartEntry"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM carrito_compras WHERE id = $1 AND usuario_uid = $2`
	result, err := s.DB.ExecContext(ctx, query, entryID, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ClearCart borra todas las líneas del carrito de un usuario.
func (s *Storage) ClearCart(ctx context.Context, userUID string) (int, error) {
	const op = "storage.ClearCart"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM carrito_compras WHERE usuario_uid = $1`
	result, err := s.DB.ExecContext(ctx, query, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
