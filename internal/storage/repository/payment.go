package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/laseropolis/marketplace-api/internal/models"
)

// MembershipReconciliation agrupa las escrituras de la reconciliación de
// una compra de membresía. Las fechas ya llegan calculadas por la capa de
// servicios (incluido el apilamiento de renovaciones).
type MembershipReconciliation struct {
	UserUID       string
	PlanID        int
	Amount        int
	Method        string
	TransactionID *string
	StartDate     time.Time
	ExpiresAt     time.Time
}

// CartReconciliation agrupa las escrituras de la reconciliación de una
// compra de artículos del carrito.
type CartReconciliation struct {
	UserUID       string
	Amount        int
	Method        string
	TransactionID *string
	Entries       []*models.CartEntry
}

// ReconcileMembershipPayment ejecuta como una única transacción las tres
// escrituras del checkout de membresía: registrar el pago con estado
// completado, desactivar la membresía anterior e insertar la nueva con el
// vencimiento recalculado, y reflejar el plan activo en la fila del
// usuario. Un fallo en cualquier paso revierte todo.
func (s *Storage) ReconcileMembershipPayment(ctx context.Context, rec MembershipReconciliation) (int, error) {
	const op = "storage.ReconcileMembershipPayment"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var paymentID int
	insertPayment := `INSERT INTO pagos (usuario_uid, membresia_id, monto, metodo_pago, estado, transaccion_id)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`
	if err := tx.QueryRowContext(ctx, insertPayment,
		rec.UserUID, rec.PlanID, rec.Amount, rec.Method,
		models.PaymentStatusCompleted, rec.TransactionID).Scan(&paymentID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	deactivate := `UPDATE membresias_usuarios SET activa = FALSE
			  WHERE usuario_uid = $1 AND activa`
	if _, err := tx.ExecContext(ctx, deactivate, rec.UserUID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	insertGrant := `INSERT INTO membresias_usuarios (usuario_uid, membresia_id, fecha_inicio, fecha_vencimiento, activa)
			  VALUES ($1, $2, $3, $4, TRUE)`
	if _, err := tx.ExecContext(ctx, insertGrant,
		rec.UserUID, rec.PlanID, rec.StartDate, rec.ExpiresAt); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	updateUser := `UPDATE usuarios SET membresia_id = $1 WHERE uid = $2`
	if _, err := tx.ExecContext(ctx, updateUser, rec.PlanID, rec.UserUID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return paymentID, nil
}

// ReconcileCartPayment ejecuta como una única transacción la reconciliación
// de una compra del carrito: registra el pago, concede los derechos de
// descarga para los artículos digitales y borra las líneas reconciliadas
// del carrito. Un fallo en cualquier paso revierte todo.
func (s *Storage) ReconcileCartPayment(ctx context.Context, rec CartReconciliation) (int, error) {
	const op = "storage.ReconcileCartPayment"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var paymentID int
	insertPayment := `INSERT INTO pagos (usuario_uid, membresia_id, monto, metodo_pago, estado, transaccion_id)
			  VALUES ($1, NULL, $2, $3, $4, $5)
			  RETURNING id`
	if err := tx.QueryRowContext(ctx, insertPayment,
		rec.UserUID, rec.Amount, rec.Method,
		models.PaymentStatusCompleted, rec.TransactionID).Scan(&paymentID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	insertGrant := `INSERT INTO descargas_usuario (usuario_uid, archivo_id)
			  VALUES ($1, $2)
			  ON CONFLICT (usuario_uid, archivo_id) DO NOTHING`
	removeEntry := `DELETE FROM carrito_compras WHERE id = $1 AND usuario_uid = $2`
	for _, entry := range rec.Entries {
		if entry.Kind == models.ItemKindFile {
			if _, err := tx.ExecContext(ctx, insertGrant, rec.UserUID, entry.ItemID); err != nil {
				return 0, fmt.Errorf("%s: %w", op, err)
			}
		}
		if _, err := tx.ExecContext(ctx, removeEntry, entry.ID, rec.UserUID); err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return paymentID, nil
}

// ListPayments devuelve el historial de pagos del usuario, más reciente primero.
func (s *Storage) ListPayments(ctx context.Context, userUID string) ([]*models.Payment, error) {
	const op = "storage.ListPayments"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, usuario_uid, membresia_id, monto, metodo_pago, estado, transaccion_id, created_at
			  FROM pagos
			  WHERE usuario_uid = $1
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Payment
	for rows.Next() {
		var p models.Payment
		var planID sql.NullInt64
		var transactionID sql.NullString
		if err := rows.Scan(&p.ID, &p.UserUID, &planID, &p.Amount, &p.Method,
			&p.Status, &transactionID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if planID.Valid {
			id := int(planID.Int64)
			p.MembershipPlanID = &id
		}
		if transactionID.Valid {
			p.TransactionID = &transactionID.String
		}
		result = append(result, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
