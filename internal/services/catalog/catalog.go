// Package catalog implementa la lógica de negocio del catálogo: artículos,
// planes de membresía y descargas, con caché de lectura sobre Redis.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/laseropolis/marketplace-api/internal/models"
)

// ErrAccessDenied indica que el resolutor denegó el acceso al artículo.
var ErrAccessDenied = errors.New("access denied")

// Repository define el almacenamiento que necesita el catálogo.
type Repository interface {
	CreateItem(ctx context.Context, item models.CatalogItem) (int, error)
	ReadItem(ctx context.Context, id int) (*models.CatalogItem, error)
	ListItems(ctx context.Context, categoryID *int, limit, offset int) ([]*models.CatalogItem, error)
	ListPlans(ctx context.Context) ([]*models.MembershipPlan, error)
	CreateDownloadGrant(ctx context.Context, userUID string, itemID int) error
}

// Cache describe la caché de lectura.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Resolver decide el acceso de un usuario a un artículo.
type Resolver interface {
	HasAccess(ctx context.Context, user *models.User, item *models.CatalogItem) bool
}

// Service implementa las operaciones del catálogo.
type Service struct {
	repo       Repository
	cache      Cache
	resolver   Resolver
	publicBase string
	log        *slog.Logger
}

// New crea un nuevo Service. publicBase es la URL pública del
// almacenamiento de objetos externo, de la que se componen los enlaces
// de descarga.
func New(repo Repository, cache Cache, resolver Resolver, publicBase string, log *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		cache:      cache,
		resolver:   resolver,
		publicBase: strings.TrimSuffix(publicBase, "/"),
		log:        log,
	}
}

// Create registra un artículo nuevo del catálogo, lo cachea y devuelve su ID.
func (s *Service) Create(ctx context.Context, creatorUID string, req models.DummyCatalogItem) (int, error) {
	item := models.CatalogItem{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		Kind:          req.Kind,
		CategoryID:    req.CategoryID,
		SubcategoryID: req.SubcategoryID,
		CreatorUID:    creatorUID,
		ObjectKey:     req.ObjectKey,
		Images:        req.Images,
	}
	if item.Images == nil {
		item.Images = []string{}
	}

	id, err := s.repo.CreateItem(ctx, item)
	if err != nil {
		return 0, err
	}
	s.log.Info("created catalog item", slog.Int("id", id))

	cacheKey := fmt.Sprintf("item:%d", id)
	item.ID = id
	if err := s.cache.Set(cacheKey, item, time.Hour); err != nil {
		s.log.Warn("failed to cache item", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return id, nil
}

// Read devuelve un artículo por ID, usando la caché o el repositorio.
func (s *Service) Read(ctx context.Context, id int) (*models.CatalogItem, error) {
	var result *models.CatalogItem
	cacheKey := fmt.Sprintf("item:%d", id)
	found, err := s.cache.Get(cacheKey, &result)
	if err == nil && found {
		return result, nil
	}
	if err != nil {
		s.log.Warn("cache read failed", slog.String("key", cacheKey), slog.Any("err", err))
	}

	result, err = s.repo.ReadItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to cache item", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return result, nil
}

// List devuelve los artículos del catálogo, opcionalmente filtrados por categoría.
func (s *Service) List(ctx context.Context, categoryID *int, limit, offset int) ([]*models.CatalogItem, error) {
	return s.repo.ListItems(ctx, categoryID, limit, offset)
}

// ListPlans devuelve los planes de membresía con sus categorías, cacheados.
func (s *Service) ListPlans(ctx context.Context) ([]*models.MembershipPlan, error) {
	const cacheKey = "membership:plans"
	var result []*models.MembershipPlan
	found, err := s.cache.Get(cacheKey, &result)
	if err == nil && found {
		return result, nil
	}
	if err != nil {
		s.log.Warn("cache read failed", slog.String("key", cacheKey), slog.Any("err", err))
	}

	result, err = s.repo.ListPlans(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to cache plans", slog.Any("err", err))
	}
	return result, nil
}

// Download resuelve el acceso del usuario al artículo y, si procede,
// registra el derecho de descarga y devuelve la URL pública del objeto.
// El registro es idempotente: descargar dos veces no crea dos derechos.
func (s *Service) Download(ctx context.Context, user *models.User, itemID int) (string, error) {
	item, err := s.Read(ctx, itemID)
	if err != nil {
		return "", err
	}

	if !s.resolver.HasAccess(ctx, user, item) {
		return "", ErrAccessDenied
	}

	if user != nil {
		if err := s.repo.CreateDownloadGrant(ctx, user.UUID, item.ID); err != nil {
			return "", err
		}
	}
	return s.publicBase + "/" + item.ObjectKey, nil
}
