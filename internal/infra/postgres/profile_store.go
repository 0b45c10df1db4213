package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"nusantara-culture-service/internal/domain"
)

// ProfileStore reads display identities from the profiles table.
type ProfileStore struct {
	pool *pgxpool.Pool
}

func NewProfileStore(pool *pgxpool.Pool) *ProfileStore {
	return &ProfileStore{pool: pool}
}

func (s *ProfileStore) GetProfiles(ctx context.Context, userIDs []string) (map[string]domain.Profile, error) {
	out := make(map[string]domain.Profile, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	rows, err := s.pool.Query(ctx,
		`SELECT user_id, display_name, avatar_url FROM profiles WHERE user_id = ANY($1)`, userIDs)
	if err != nil {
		return nil, fmt.Errorf("get profiles: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p domain.Profile
		if err := rows.Scan(&p.UserID, &p.DisplayName, &p.AvatarURL); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		out[p.UserID] = p
	}
	return out, rows.Err()
}

// UpsertProfile mirrors an identity from the auth provider.
func (s *ProfileStore) UpsertProfile(ctx context.Context, profile domain.Profile) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO profiles (user_id, display_name, avatar_url) VALUES ($1, $2, $3)
		 ON CONFLICT (user_id) DO UPDATE SET display_name = EXCLUDED.display_name, avatar_url = EXCLUDED.avatar_url`,
		profile.UserID, profile.DisplayName, profile.AvatarURL)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}
