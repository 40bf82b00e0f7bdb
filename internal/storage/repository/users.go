package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/laseropolis/marketplace-api/internal/models"
)

// RegisterUser guarda un usuario nuevo y devuelve su UID. El perfil del
// marketplace (código de referido, atribución) se completa después, de
// forma perezosa, en el primer login exitoso.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	query := `INSERT INTO usuarios (email, username, password_hash, role)
			  VALUES ($1, $2, $3, $4)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Email, user.Username, user.PasswordHash, user.Role).Scan(&newID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetUserByUsername devuelve un usuario por su username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, username, password_hash, role, creditos,
			      codigo_referido, referido_por, membresia_id, created_at
			  FROM usuarios
			  WHERE username = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, username), op)
}

// GetUser devuelve un usuario por su UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, username, password_hash, role, creditos,
			      codigo_referido, referido_por, membresia_id, created_at
			  FROM usuarios
			  WHERE uid = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, userUID), op)
}

// GetUserByReferralCode resuelve un código de referido al usuario que lo
// posee. Devuelve ErrNotFound si el código no pertenece a nadie.
func (s *Storage) GetUserByReferralCode(ctx context.Context, code string) (*models.User, error) {
	const op = "storage.GetUserByReferralCode"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, username, password_hash, role, creditos,
			      codigo_referido, referido_por, membresia_id, created_at
			  FROM usuarios
			  WHERE codigo_referido = $1`
	u, err := s.scanUser(s.DB.QueryRowContext(ctx, query, code), op)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, err
	}
	return u, nil
}

// ReferralCodeExists indica si algún usuario ya posee el código dado.
func (s *Storage) ReferralCodeExists(ctx context.Context, code string) (bool, error) {
	const op = "storage.ReferralCodeExists"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT EXISTS (SELECT 1 FROM usuarios WHERE codigo_referido = $1)`
	var exists bool
	if err := s.DB.QueryRowContext(ctx, query, code).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// ProvisionUserProfile completa el perfil del marketplace de un usuario
// recién logueado: fija su código de referido y, si aplica, quién lo
// refirió. La condición codigo_referido IS NULL hace la operación
// idempotente: devuelve true solo la primera vez, logins repetidos del
// mismo usuario devuelven false sin modificar nada.
func (s *Storage) ProvisionUserProfile(ctx context.Context, userUID, code string, referredBy *string) (bool, error) {
	const op = "storage.ProvisionUserProfile"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE usuarios
			  SET codigo_referido = $1, referido_por = $2
			  WHERE uid = $3 AND codigo_referido IS NULL`
	res, err := s.DB.ExecContext(ctx, query, code, referredBy, userUID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected > 0, nil
}

// AddCredits aplica un delta al contador de créditos con un incremento
// atómico en SQL, nunca con leer-modificar-escribir desde el cliente.
func (s *Storage) AddCredits(ctx context.Context, userUID string, amount int) error {
	const op = "storage.AddCredits"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE usuarios
			  SET creditos = creditos + $1
			  WHERE uid = $2`
	_, err := s.DB.ExecContext(ctx, query, amount, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Storage) scanUser(row *sql.Row, op string) (*models.User, error) {
	u := &models.User{}
	var referralCode sql.NullString
	var referredBy sql.NullString
	var membershipID sql.NullInt64
	if err := row.Scan(&u.UUID, &u.Email, &u.Username, &u.PasswordHash,
		&u.Role, &u.Credits, &referralCode, &referredBy, &membershipID, &u.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if referralCode.Valid {
		u.ReferralCode = referralCode.String
	}
	if referredBy.Valid {
		u.ReferredBy = &referredBy.String
	}
	if membershipID.Valid {
		id := int(membershipID.Int64)
		u.MembershipID = &id
	}
	return u, nil
}
