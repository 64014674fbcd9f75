package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/idtoolkit/internal/emulator/domain"
)

type providersRepo struct {
	q dbtx
}

const providerLinkColumns = `local_id, provider_id, federated_id, email, display_name, photo_url, created_at`

func scanProviderLink(row interface{ Scan(...any) error }) (domain.ProviderLink, error) {
	var (
		l         domain.ProviderLink
		createdAt int64
	)
	if err := row.Scan(&l.LocalID, &l.ProviderID, &l.FederatedID, &l.Email, &l.DisplayName, &l.PhotoURL, &createdAt); err != nil {
		return domain.ProviderLink{}, err
	}
	l.CreatedAt = fromMillis(createdAt)
	return l, nil
}

func (r *providersRepo) ListProviderLinks(ctx context.Context, localID string) ([]domain.ProviderLink, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+providerLinkColumns+` FROM provider_links WHERE local_id = ? ORDER BY created_at, rowid`, localID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ProviderLink
	for rows.Next() {
		l, err := scanProviderLink(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *providersRepo) GetProviderLink(ctx context.Context, providerID, federatedID string) (domain.ProviderLink, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+providerLinkColumns+` FROM provider_links WHERE provider_id = ? AND federated_id = ?`,
		providerID, federatedID)
	l, err := scanProviderLink(row)
	if err != nil {
		return domain.ProviderLink{}, mapNotFound(err)
	}
	return l, nil
}

func (r *providersRepo) LinkProvider(ctx context.Context, l domain.ProviderLink) error {
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO provider_links (`+providerLinkColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		l.LocalID, l.ProviderID, l.FederatedID, l.Email, l.DisplayName, l.PhotoURL, toMillis(l.CreatedAt),
	)
	return mapConflict(err)
}

func (r *providersRepo) UnlinkProvider(ctx context.Context, localID, providerID string) error {
	res, err := r.q.ExecContext(ctx,
		`DELETE FROM provider_links WHERE local_id = ? AND provider_id = ?`, localID, providerID)
	return requireAffected(res, err)
}
