// Package entitlement decide si un usuario puede acceder a un artículo
// del catálogo: gratis, ya comprado, o cubierto por su membresía activa.
package entitlement

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/laseropolis/marketplace-api/internal/lib/sl"
	"github.com/laseropolis/marketplace-api/internal/models"
)

// Repository define las lecturas que necesita el resolutor.
type Repository interface {
	// HasDownloadGrant indica si existe el derecho (usuario, artículo).
	HasDownloadGrant(ctx context.Context, userUID string, itemID int) (bool, error)
	// GetActiveGrant devuelve la membresía activa del usuario o nil.
	GetActiveGrant(ctx context.Context, userUID string) (*models.MembershipGrant, error)
	// PlanCategoryIDs devuelve las categorías cubiertas por un plan.
	PlanCategoryIDs(ctx context.Context, planID int) ([]int, error)
}

// Resolver implementa la decisión de acceso. Es una función de decisión
// pura sobre el estado leído: no escribe nada.
type Resolver struct {
	repo Repository
	log  *slog.Logger
}

// New crea un nuevo Resolver.
func New(repo Repository, log *slog.Logger) *Resolver {
	return &Resolver{
		repo: repo,
		log:  log,
	}
}

// HasAccess evalúa las reglas de acceso en este orden de precedencia:
//
//  1. precio 0: acceso para cualquiera, incluso sin autenticar;
//  2. derecho de descarga existente para (usuario, artículo);
//  3. membresía activa cuyo plan cubre la categoría del artículo;
//  4. en cualquier otro caso, denegado.
//
// Toda falla de lectura cierra el acceso en lugar de propagarse: un error
// consultando la membresía o sus categorías jamás se convierte en una
// concesión involuntaria.
func (r *Resolver) HasAccess(ctx context.Context, user *models.User, item *models.CatalogItem) bool {
	if item.Price == 0 {
		return true
	}
	if user == nil {
		return false
	}

	granted, err := r.repo.HasDownloadGrant(ctx, user.UUID, item.ID)
	if err != nil {
		r.log.Warn("download grant lookup failed, denying", sl.Err(err))
	} else if granted {
		return true
	}

	return r.hasMembershipAccess(ctx, user.UUID, item.CategoryID)
}

func (r *Resolver) hasMembershipAccess(ctx context.Context, userUID string, categoryID int) bool {
	grant, err := r.repo.GetActiveGrant(ctx, userUID)
	if err != nil {
		r.log.Warn("membership lookup failed, denying", sl.Err(err))
		return false
	}
	if grant == nil || !grant.ActiveAt(time.Now()) {
		return false
	}

	categories, err := r.repo.PlanCategoryIDs(ctx, grant.PlanID)
	if err != nil {
		r.log.Warn("plan categories lookup failed, denying", sl.Err(err))
		return false
	}
	return slices.Contains(categories, categoryID)
}
