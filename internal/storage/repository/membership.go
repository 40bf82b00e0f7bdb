package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/laseropolis/marketplace-api/internal/models"
)

// ListPlans devuelve los planes de membresía con sus conjuntos de
// categorías resueltos en una segunda consulta agrupada, en lugar de
// lecturas independientes por plan.
func (s *Storage) ListPlans(ctx context.Context) ([]*models.MembershipPlan, error) {
	const op = "storage.ListPlans"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, nombre, precio, duracion_dias, limite_descargas
			  FROM membresias
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.MembershipPlan
	byID := make(map[int]*models.MembershipPlan)
	for rows.Next() {
		var plan models.MembershipPlan
		var limit sql.NullInt64
		if err := rows.Scan(&plan.ID, &plan.Name, &plan.Price, &plan.DurationDays, &limit); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if limit.Valid {
			l := int(limit.Int64)
			plan.DownloadLimit = &l
		}
		result = append(result, &plan)
		byID[plan.ID] = &plan
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	catRows, err := s.DB.QueryContext(ctx, `SELECT membresia_id, categoria_id FROM membresia_categoria`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = catRows.Close()
	}()
	for catRows.Next() {
		var planID, categoryID int
		if err := catRows.Scan(&planID, &categoryID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if plan, ok := byID[planID]; ok {
			plan.CategoryIDs = append(plan.CategoryIDs, categoryID)
		}
	}
	if err = catRows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetPlan devuelve un plan por su ID, con sus categorías incluidas.
func (s *Storage) GetPlan(ctx context.Context, id int) (*models.MembershipPlan, error) {
	const op = "storage.GetPlan"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, nombre, precio, duracion_dias, limite_descargas
			  FROM membresias WHERE id = $1`
	var plan models.MembershipPlan
	var limit sql.NullInt64
	err := s.DB.QueryRowContext(ctx, query, id).Scan(
		&plan.ID, &plan.Name, &plan.Price, &plan.DurationDays, &limit)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if limit.Valid {
		l := int(limit.Int64)
		plan.DownloadLimit = &l
	}

	plan.CategoryIDs, err = s.PlanCategoryIDs(ctx, plan.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &plan, nil
}

// PlanCategoryIDs devuelve las categorías a las que da acceso un plan.
func (s *Storage) PlanCategoryIDs(ctx context.Context, planID int) ([]int, error) {
	const op = "storage.PlanCategoryIDs"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT categoria_id FROM membresia_categoria WHERE membresia_id = $1`
	rows, err := s.DB.QueryContext(ctx, query, planID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []int
	for rows.Next() {
		var categoryID int
		if err := rows.Scan(&categoryID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, categoryID)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetActiveGrant devuelve la membresía activa del usuario, o nil si no
// tiene ninguna. La unicidad de la fila activa la garantiza el índice
// parcial del esquema.
func (s *Storage) GetActiveGrant(ctx context.Context, userUID string) (*models.MembershipGrant, error) {
	const op = "storage.GetActiveGrant"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, usuario_uid, membresia_id, fecha_inicio, fecha_vencimiento, activa
			  FROM membresias_usuarios
			  WHERE usuario_uid = $1 AND activa`
	var grant models.MembershipGrant
	err := s.DB.QueryRowContext(ctx, query, userUID).Scan(
		&grant.ID, &grant.UserUID, &grant.PlanID, &grant.StartDate, &grant.ExpiresAt, &grant.Active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &grant, nil
}
