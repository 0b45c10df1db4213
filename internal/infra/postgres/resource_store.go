package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"nusantara-culture-service/internal/domain"
)

// ResourceStore persists provinces and resources. Asset references live in the resources.assets
// JSONB column keyed by slot, so a slot swap is a single-row update.
type ResourceStore struct {
	pool *pgxpool.Pool
}

func NewResourceStore(pool *pgxpool.Pool) *ResourceStore {
	return &ResourceStore{pool: pool}
}

func (s *ResourceStore) GetProvince(ctx context.Context, slug string) (domain.Province, error) {
	var p domain.Province
	err := s.pool.QueryRow(ctx, `SELECT slug, name FROM provinces WHERE slug=$1`, slug).Scan(&p.Slug, &p.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Province{}, domain.ErrProvinceNotFound
	}
	if err != nil {
		return domain.Province{}, fmt.Errorf("get province: %w", err)
	}
	return p, nil
}

func (s *ResourceStore) CreateResource(ctx context.Context, resource domain.Resource) error {
	fields, err := json.Marshal(nonNilFields(resource.Fields))
	if err != nil {
		return err
	}
	assets, err := json.Marshal(nonNilAssets(resource.Assets))
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO resources (id, province_slug, kind, name, fields, assets, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5::jsonb, $6::jsonb, $7, $8)`,
		resource.ID, resource.ProvinceSlug, string(resource.Kind), resource.Name,
		string(fields), string(assets), resource.CreatedAt, resource.UpdatedAt)
	if isPgCode(err, foreignKeyViolation) {
		return domain.ErrProvinceNotFound
	}
	if err != nil {
		return fmt.Errorf("create resource: %w", err)
	}
	return nil
}

func (s *ResourceStore) GetResource(ctx context.Context, id string) (domain.Resource, error) {
	var (
		r              domain.Resource
		kind           string
		fields, assets []byte
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, province_slug, kind, name, fields, assets, created_at, updated_at FROM resources WHERE id=$1`, id,
	).Scan(&r.ID, &r.ProvinceSlug, &kind, &r.Name, &fields, &assets, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Resource{}, domain.ErrResourceNotFound
	}
	if err != nil {
		return domain.Resource{}, fmt.Errorf("get resource: %w", err)
	}
	r.Kind = domain.ResourceKind(kind)
	if err := json.Unmarshal(fields, &r.Fields); err != nil {
		return domain.Resource{}, fmt.Errorf("unmarshal fields: %w", err)
	}
	r.Assets = map[domain.Slot]domain.AssetReference{}
	if err := json.Unmarshal(assets, &r.Assets); err != nil {
		return domain.Resource{}, fmt.Errorf("unmarshal assets: %w", err)
	}
	return r, nil
}

// SetAsset overwrites one slot key of the assets document; other slots are untouched.
func (s *ResourceStore) SetAsset(ctx context.Context, id string, slot domain.Slot, ref domain.AssetReference) error {
	raw, err := json.Marshal(ref)
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE resources
		    SET assets = assets || jsonb_build_object($2::text, $3::jsonb), updated_at = now()
		  WHERE id = $1`,
		id, string(slot), string(raw))
	if err != nil {
		return fmt.Errorf("set asset: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrResourceNotFound
	}
	return nil
}

func nonNilFields(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

func nonNilAssets(m map[domain.Slot]domain.AssetReference) map[domain.Slot]domain.AssetReference {
	if m == nil {
		return map[domain.Slot]domain.AssetReference{}
	}
	return m
}
