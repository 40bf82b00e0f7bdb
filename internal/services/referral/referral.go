// Package referral implementa el libro mayor de créditos por referidos:
// aprovisionamiento perezoso del perfil en el primer login, atribución de
// registros a su referidor y concesión del crédito de recompensa.
package referral

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	refcode "github.com/laseropolis/marketplace-api/internal/lib/referral"
	"github.com/laseropolis/marketplace-api/internal/lib/sl"
	"github.com/laseropolis/marketplace-api/internal/models"
	"github.com/laseropolis/marketplace-api/internal/storage/repository"
)

// Repository define el almacenamiento que necesita el programa de referidos.
type Repository interface {
	ReferralCodeExists(ctx context.Context, code string) (bool, error)
	GetUserByReferralCode(ctx context.Context, code string) (*models.User, error)
	// ProvisionUserProfile fija código y referidor una sola vez; devuelve
	// false si el perfil ya estaba aprovisionado.
	ProvisionUserProfile(ctx context.Context, userUID, code string, referredBy *string) (bool, error)
	CreateCreditMovement(ctx context.Context, movement models.CreditMovement) (int, error)
	// AddCredits aplica el delta con un incremento atómico en SQL.
	AddCredits(ctx context.Context, userUID string, amount int) error
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	ListCreditMovements(ctx context.Context, userUID string) ([]*models.CreditMovement, error)
}

// Service implementa el aprovisionamiento y la atribución de referidos.
type Service struct {
	repo   Repository
	log    *slog.Logger
	reward int
}

// New crea un nuevo Service con la recompensa configurada por referido.
func New(repo Repository, reward int, log *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		log:    log,
		reward: reward,
	}
}

// Provision completa el perfil de un usuario en su primer login exitoso:
// genera su código de referido único y, si llegó un código válido del
// storefront, atribuye el registro y concede la recompensa al referidor.
//
// Es idempotente: logins repetidos del mismo usuario no generan ni un
// segundo movimiento de crédito ni un segundo incremento del contador.
// Un código desconocido no impide el aprovisionamiento: se continúa sin
// atribución.
func (s *Service) Provision(ctx context.Context, userUID, referralCode string) error {
	const op = "referral.Provision"

	code, err := refcode.GenerateUniqueCode(ctx, s.repo)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	var referredBy *string
	if referralCode != "" {
		referrer, err := s.repo.GetUserByReferralCode(ctx, referralCode)
		switch {
		case err == nil:
			referredBy = &referrer.UUID
		case errors.Is(err, repository.ErrNotFound):
			s.log.Info("unknown referral code, proceeding without attribution",
				slog.String("code", referralCode))
		default:
			s.log.Warn("referral code lookup failed, proceeding without attribution", sl.Err(err))
		}
	}

	provisioned, err := s.repo.ProvisionUserProfile(ctx, userUID, code, referredBy)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !provisioned {
		// El perfil ya existía: login repetido, nada que acreditar.
		return nil
	}
	s.log.Info("user profile provisioned",
		slog.String("user_uid", userUID), slog.String("referral_code", code))

	if referredBy == nil {
		return nil
	}

	if _, err := s.repo.CreateCreditMovement(ctx, models.CreditMovement{
		UserUID:     *referredBy,
		Type:        models.MovementTypeReferralSignup,
		Amount:      s.reward,
		Description: "Crédito por referido registrado",
	}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.AddCredits(ctx, *referredBy, s.reward); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("referral reward granted",
		slog.String("referrer_uid", *referredBy), slog.Int("amount", s.reward))
	return nil
}

// CreditsView agrupa el saldo actual y el historial de movimientos del
// usuario, del más reciente al más antiguo.
type CreditsView struct {
	Balance      int                      `json:"balance"`
	ReferralCode string                   `json:"referral_code,omitempty"`
	Movements    []*models.CreditMovement `json:"movements"`
}

// Credits devuelve el saldo y el libro mayor de movimientos del usuario.
func (s *Service) Credits(ctx context.Context, userUID string) (*CreditsView, error) {
	const op = "referral.Credits"

	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	movements, err := s.repo.ListCreditMovements(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &CreditsView{
		Balance:      user.Credits,
		ReferralCode: user.ReferralCode,
		Movements:    movements,
	}, nil
}
