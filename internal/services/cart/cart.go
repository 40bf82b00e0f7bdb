// Package cart implementa la lógica de negocio del carrito de compras
// persistido por usuario.
package cart

import (
	"context"
	"errors"
	"log/slog"

	"github.com/laseropolis/marketplace-api/internal/models"
)

// ErrNotFound indica que la línea no existe o no pertenece al usuario.
var ErrNotFound = errors.New("cart entry not found")

// Repository define los métodos de almacenamiento del carrito.
type Repository interface {
	// UpsertCartEntry inserta o devuelve la línea existente para (usuario, artículo).
	UpsertCartEntry(ctx context.Context, entry models.CartEntry) (*models.CartEntry, error)
	// ListCartEntries devuelve las líneas del usuario.
	ListCartEntries(ctx context.Context, userUID string) ([]*models.CartEntry, error)
	// RemoveCartEntry borra una línea del usuario y devuelve cuántas filas afectó.
	RemoveCartEntry(ctx context.Context, userUID string, entryID int) (int, error)
	// ClearCart borra todas las líneas del usuario.
	ClearCart(ctx context.Context, userUID string) (int, error)
}

// Service implementa las operaciones del carrito.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New crea un nuevo Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// Add añade un artículo al carrito guardando una instantánea de su nombre
// y precio. Añadir dos veces el mismo artículo es un no-op que devuelve
// la línea existente; jamás se crea una segunda fila.
func (s *Service) Add(ctx context.Context, userUID string, item *models.CatalogItem) (*models.CartEntry, error) {
	entry := models.CartEntry{
		UserUID:  userUID,
		ItemID:   item.ID,
		Name:     item.Name,
		Price:    item.Price,
		Kind:     item.Kind,
		Quantity: 1,
	}
	result, err := s.repo.UpsertCartEntry(ctx, entry)
	if err != nil {
		return nil, err
	}
	s.log.Info("cart entry upserted",
		slog.String("user_uid", userUID), slog.Int("item_id", item.ID))
	return result, nil
}

// List devuelve las líneas del carrito del usuario.
func (s *Service) List(ctx context.Context, userUID string) ([]*models.CartEntry, error) {
	return s.repo.ListCartEntries(ctx, userUID)
}

// Remove borra una línea del carrito del usuario. Devuelve ErrNotFound si
// la línea no existe o pertenece a otro usuario.
func (s *Service) Remove(ctx context.Context, userUID string, entryID int) error {
	count, err := s.repo.RemoveCartEntry(ctx, userUID, entryID)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

// Clear vacía el carrito del usuario.
func (s *Service) Clear(ctx context.Context, userUID string) error {
	_, err := s.repo.ClearCart(ctx, userUID)
	return err
}

// Total suma los precios de las líneas; la cantidad se trata siempre como 1.
func (s *Service) Total(entries []*models.CartEntry) int {
	return models.CartTotal(entries)
}
