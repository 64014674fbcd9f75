package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/aussiebroadwan/idtoolkit/internal/emulator/domain"
)

type accountsRepo struct {
	q dbtx
}

const accountColumns = `local_id, email, email_verified, display_name, photo_url,
	password_hash, disabled, valid_since, created_at, last_login_at`

func scanAccount(row interface{ Scan(...any) error }) (domain.Account, error) {
	var (
		a                                  domain.Account
		email                              sql.NullString
		validSince, createdAt, lastLoginAt int64
	)
	err := row.Scan(
		&a.LocalID, &email, &a.EmailVerified, &a.DisplayName, &a.PhotoURL,
		&a.PasswordHash, &a.Disabled, &validSince, &createdAt, &lastLoginAt,
	)
	if err != nil {
		return domain.Account{}, err
	}
	a.Email = mapNullString(email)
	a.ValidSince = fromMillis(validSince)
	a.CreatedAt = fromMillis(createdAt)
	a.LastLoginAt = fromMillis(lastLoginAt)
	return a, nil
}

func (r *accountsRepo) GetAccountByID(ctx context.Context, localID string) (domain.Account, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE local_id = ?`, localID)
	a, err := scanAccount(row)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return a, nil
}

func (r *accountsRepo) GetAccountByEmail(ctx context.Context, email string) (domain.Account, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE email = ?`, strings.TrimSpace(email))
	a, err := scanAccount(row)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return a, nil
}

func (r *accountsRepo) CreateAccount(ctx context.Context, a domain.Account) error {
	now := time.Now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.ValidSince.IsZero() {
		a.ValidSince = a.CreatedAt
	}
	if a.LastLoginAt.IsZero() {
		a.LastLoginAt = a.CreatedAt
	}

	_, err := r.q.ExecContext(ctx,
		`INSERT INTO accounts (`+accountColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.LocalID, mapStringNull(a.Email), a.EmailVerified, a.DisplayName, a.PhotoURL,
		a.PasswordHash, a.Disabled, toMillis(a.ValidSince), toMillis(a.CreatedAt), toMillis(a.LastLoginAt),
	)
	return mapConflict(err)
}

func (r *accountsRepo) UpdateAccount(ctx context.Context, a domain.Account) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE accounts
		SET email = ?, email_verified = ?, display_name = ?, photo_url = ?,
			password_hash = ?, disabled = ?, valid_since = ?
		WHERE local_id = ?`,
		mapStringNull(a.Email), a.EmailVerified, a.DisplayName, a.PhotoURL,
		a.PasswordHash, a.Disabled, toMillis(a.ValidSince),
		a.LocalID,
	)
	return requireAffected(res, mapConflict(err))
}

func (r *accountsRepo) TouchLastLogin(ctx context.Context, localID string) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE accounts SET last_login_at = ? WHERE local_id = ?`, nowMillis(), localID)
	return requireAffected(res, err)
}

func (r *accountsRepo) DeleteAccount(ctx context.Context, localID string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM accounts WHERE local_id = ?`, localID)
	return requireAffected(res, err)
}

func (r *accountsRepo) DeleteAllAccounts(ctx context.Context) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM accounts`)
	return err
}
