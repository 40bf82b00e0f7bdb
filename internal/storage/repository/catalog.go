package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/laseropolis/marketplace-api/internal/models"
)

// CreateItem inserta un artículo nuevo del catálogo y devuelve su ID.
func (s *Storage) CreateItem(ctx context.Context, item models.CatalogItem) (int, error) {
	const op = "storage.CreateItem"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	images, err := json.Marshal(item.Images)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO archivos (nombre, descripcion, precio, tipo, categoria_id,
			      subcategoria_id, creador_uid, archivo_url, imagenes)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING id`
	var newID int
	err = s.DB.QueryRowContext(ctx, query,
		item.Name, item.Description, item.Price, item.Kind, item.CategoryID,
		item.SubcategoryID, item.CreatorUID, item.ObjectKey, images).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadItem devuelve los datos de un artículo por su ID.
func (s *Storage) ReadItem(ctx context.Context, id int) (*models.CatalogItem, error) {
	const op = "storage.ReadItem"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, nombre, descripcion, precio, tipo, categoria_id,
			      subcategoria_id, creador_uid, archivo_url, imagenes, created_at
			  FROM archivos WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	item, err := scanItem(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return item, nil
}

// ListItems devuelve los artículos del catálogo con paginación, filtrando
// por categoría cuando categoryID no es nil.
func (s *Storage) ListItems(ctx context.Context, categoryID *int, limit, offset int) ([]*models.CatalogItem, error) {
	const op = "storage.ListItems"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, nombre, descripcion, precio, tipo, categoria_id,
			      subcategoria_id, creador_uid, archivo_url, imagenes, created_at
			  FROM archivos
			  WHERE ($1::int IS NULL OR categoria_id = $1)
			  ORDER BY id
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, categoryID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.CatalogItem
	for rows.Next() {
		item, err := scanItem(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

func scanItem(scan func(dest ...any) error) (*models.CatalogItem, error) {
	var item models.CatalogItem
	var subcategoryID sql.NullInt64
	var images []byte
	if err := scan(&item.ID, &item.Name, &item.Description, &item.Price, &item.Kind,
		&item.CategoryID, &subcategoryID, &item.CreatorUID, &item.ObjectKey,
		&images, &item.CreatedAt); err != nil {
		return nil, err
	}
	if subcategoryID.Valid {
		id := int(subcategoryID.Int64)
		item.SubcategoryID = &id
	}
	if err := json.Unmarshal(images, &item.Images); err != nil {
		return nil, err
	}
	return &item, nil
}
