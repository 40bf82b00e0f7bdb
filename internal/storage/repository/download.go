package repository

import (
	"context"
	"fmt"
)

// HasDownloadGrant indica si existe el derecho permanente del usuario
// sobre el artículo.
func (s *Storage) HasDownloadGrant(ctx context.Context, userUID string, itemID int) (bool, error) {
	const op = "storage.HasDownloadGrant"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT EXISTS (
			      SELECT 1 FROM descargas_usuario
			      WHERE usuario_uid = $1 AND archivo_id = $2)`
	var exists bool
	if err := s.DB.QueryRowContext(ctx, query, userUID, itemID).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// CreateDownloadGrant registra el derecho (usuario, artículo). La pareja es
// única en el esquema, así que registrar una descarga repetida es un no-op.
func (s *Storage) CreateDownloadGrant(ctx context.Context, userUID string, itemID int) error {
	const op = "storage.CreateDownloadGrant"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO descargas_usuario (usuario_uid, archivo_id)
			  VALUES ($1, $2)
			  ON CONFLICT (usuario_uid, archivo_id) DO NOTHING`
	if _, err := s.DB.ExecContext(ctx, query, userUID, itemID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
