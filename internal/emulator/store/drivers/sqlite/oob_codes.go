package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/idtoolkit/internal/emulator/domain"
)

type oobCodesRepo struct {
	q dbtx
}

const oobCodeColumns = `code, email, local_id, request_type, locale, expires_at, created_at`

func scanOobCode(row interface{ Scan(...any) error }) (domain.OobCode, error) {
	var (
		c                    domain.OobCode
		requestType          string
		expiresAt, createdAt int64
	)
	if err := row.Scan(&c.Code, &c.Email, &c.LocalID, &requestType, &c.Locale, &expiresAt, &createdAt); err != nil {
		return domain.OobCode{}, err
	}
	c.RequestType = domain.OobRequestType(requestType)
	c.ExpiresAt = fromMillis(expiresAt)
	c.CreatedAt = fromMillis(createdAt)
	return c, nil
}

func (r *oobCodesRepo) CreateOobCode(ctx context.Context, c domain.OobCode) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO oob_codes (`+oobCodeColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.Code, c.Email, c.LocalID, string(c.RequestType), c.Locale, toMillis(c.ExpiresAt), toMillis(c.CreatedAt),
	)
	return mapConflict(err)
}

func (r *oobCodesRepo) GetOobCode(ctx context.Context, code string) (domain.OobCode, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+oobCodeColumns+` FROM oob_codes WHERE code = ? AND expires_at > ?`, code, nowMillis())
	c, err := scanOobCode(row)
	if err != nil {
		return domain.OobCode{}, mapNotFound(err)
	}
	return c, nil
}

func (r *oobCodesRepo) DeleteOobCode(ctx context.Context, code string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM oob_codes WHERE code = ?`, code)
	return requireAffected(res, err)
}

func (r *oobCodesRepo) ListOobCodes(ctx context.Context) ([]domain.OobCode, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+oobCodeColumns+` FROM oob_codes WHERE expires_at > ? ORDER BY created_at, rowid`, nowMillis())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.OobCode
	for rows.Next() {
		c, err := scanOobCode(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *oobCodesRepo) DeleteExpiredOobCodes(ctx context.Context) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM oob_codes WHERE expires_at <= ?`, nowMillis())
	return err
}
