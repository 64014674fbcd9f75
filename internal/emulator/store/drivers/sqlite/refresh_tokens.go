package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/idtoolkit/internal/emulator/domain"
)

type refreshTokensRepo struct {
	q dbtx
}

func (r *refreshTokensRepo) CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO refresh_tokens (id, local_id, token_hash, sign_in_provider, expires_at, revoked, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.LocalID, t.TokenHash, t.SignInProvider, toMillis(t.ExpiresAt), t.Revoked, toMillis(t.CreatedAt),
	)
	return mapConflict(err)
}

func (r *refreshTokensRepo) GetRefreshTokenByHash(ctx context.Context, hash string) (domain.RefreshToken, error) {
	var (
		t                    domain.RefreshToken
		expiresAt, createdAt int64
	)
	err := r.q.QueryRowContext(ctx, `
		SELECT id, local_id, token_hash, sign_in_provider, expires_at, revoked, created_at
		FROM refresh_tokens WHERE token_hash = ?`, hash,
	).Scan(&t.ID, &t.LocalID, &t.TokenHash, &t.SignInProvider, &expiresAt, &t.Revoked, &createdAt)
	if err != nil {
		return domain.RefreshToken{}, mapNotFound(err)
	}
	t.ExpiresAt = fromMillis(expiresAt)
	t.CreatedAt = fromMillis(createdAt)
	return t, nil
}

func (r *refreshTokensRepo) RevokeRefreshToken(ctx context.Context, hash string) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked = 1 WHERE token_hash = ?`, hash)
	return requireAffected(res, err)
}

func (r *refreshTokensRepo) RevokeAllAccountRefreshTokens(ctx context.Context, localID string) error {
	_, err := r.q.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked = 1 WHERE local_id = ?`, localID)
	return err
}

func (r *refreshTokensRepo) DeleteExpiredRefreshTokens(ctx context.Context) error {
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE expires_at <= ? OR revoked = 1`, nowMillis())
	return err
}
