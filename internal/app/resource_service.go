package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"nusantara-culture-service/internal/domain"
	"nusantara-culture-service/internal/logger"
)

// UploadPolicy bounds what may be stored in an asset slot.
type UploadPolicy struct {
	MaxBytes     int64
	AllowedTypes []string
}

// inspect sniffs the blob and returns its canonical content type and file extension.
func (p UploadPolicy) inspect(blob domain.Blob) (string, string, error) {
	if len(blob.Data) == 0 {
		return "", "", domain.Invalid("file", "upload is empty")
	}
	if p.MaxBytes > 0 && int64(len(blob.Data)) > p.MaxBytes {
		return "", "", domain.Invalid("file", "upload exceeds %d bytes", p.MaxBytes)
	}
	detected := mimetype.Detect(blob.Data)
	for _, allowed := range p.AllowedTypes {
		if detected.Is(allowed) {
			return allowed, detected.Extension(), nil
		}
	}
	return "", "", domain.Invalid("file", "content type %s is not allowed", detected.String())
}

// CreateResourceInput carries the metadata of a new resource.
type CreateResourceInput struct {
	ProvinceSlug string
	Kind         domain.ResourceKind
	Name         string
	Fields       map[string]string
}

// ResourceService manages province resources and the lifecycle of their asset blobs.
type ResourceService struct {
	provinces      ProvinceRepository
	resources      ResourceRepository
	objects        ObjectStore
	policy         UploadPolicy
	cleanupTimeout time.Duration
	now            func() time.Time
	log            *logger.Logger
}

func NewResourceService(provinces ProvinceRepository, resources ResourceRepository, objects ObjectStore, policy UploadPolicy, cleanupTimeout time.Duration, log *logger.Logger) *ResourceService {
	if cleanupTimeout <= 0 {
		cleanupTimeout = 30 * time.Second
	}
	return &ResourceService{
		provinces:      provinces,
		resources:      resources,
		objects:        objects,
		policy:         policy,
		cleanupTimeout: cleanupTimeout,
		now:            time.Now,
		log:            log.With("service", "ResourceService"),
	}
}

// CreateResource stores a resource with no assets.
func (s *ResourceService) CreateResource(ctx context.Context, in CreateResourceInput) (domain.Resource, error) {
	if !in.Kind.Valid() {
		return domain.Resource{}, domain.Invalid("kind", "unknown resource kind %q", in.Kind)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Resource{}, domain.Invalid("name", "name is required")
	}
	if _, err := s.provinces.GetProvince(ctx, in.ProvinceSlug); err != nil {
		return domain.Resource{}, err
	}

	now := s.now().UTC()
	resource := domain.Resource{
		ID:           uuid.NewString(),
		ProvinceSlug: in.ProvinceSlug,
		Kind:         in.Kind,
		Name:         name,
		Fields:       in.Fields,
		Assets:       map[domain.Slot]domain.AssetReference{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.resources.CreateResource(ctx, resource); err != nil {
		return domain.Resource{}, err
	}
	return resource, nil
}

func (s *ResourceService) GetResource(ctx context.Context, id string) (domain.Resource, error) {
	return s.resources.GetResource(ctx, id)
}

// ReplaceAsset uploads blob into a fresh object, commits the new reference on the resource row,
// then removes the blob it superseded.
//
// The row update is the commit point. A failed commit deletes the fresh upload before returning,
// unless a re-read shows the update landed anyway, in which case the call succeeds;
// a failed cleanup of either blob is logged as an orphan and never surfaced. Concurrent replaces of
// the same slot are last-writer-wins.
func (s *ResourceService) ReplaceAsset(ctx context.Context, resourceID string, slot domain.Slot, blob domain.Blob) (domain.AssetReference, error) {
	resource, err := s.resources.GetResource(ctx, resourceID)
	if err != nil {
		return domain.AssetReference{}, err
	}
	if !resource.Kind.AllowsSlot(slot) {
		return domain.AssetReference{}, domain.Invalid("slot", "%q is not an asset slot of %s", slot, resource.Kind)
	}
	contentType, ext, err := s.policy.inspect(blob)
	if err != nil {
		return domain.AssetReference{}, err
	}
	previous, hadPrevious := resource.Asset(slot)

	now := s.now().UTC()
	path := objectPath(resource, slot, now, ext)
	url, err := s.objects.Put(ctx, path, blob.Data, contentType)
	if err != nil {
		return domain.AssetReference{}, fmt.Errorf("%w: %w", domain.ErrStorageWrite, err)
	}

	ref := domain.AssetReference{
		URL:         url,
		Path:        path,
		ContentType: contentType,
		Size:        int64(len(blob.Data)),
		UpdatedAt:   now,
	}
	if err := s.resources.SetAsset(ctx, resourceID, slot, ref); err != nil {
		// An update can apply and still report failure (e.g. cancelled mid-flight); only a
		// confirmed miss may delete the upload.
		applied, verifyErr := s.committed(ctx, resourceID, slot, path)
		switch {
		case verifyErr != nil:
			s.log.Error("orphaned blob", "path", path, "reason", "unverified", "error", verifyErr)
			return domain.AssetReference{}, fmt.Errorf("%w: %w", domain.ErrRecordCommit, err)
		case !applied:
			s.discard(ctx, path, "rollback")
			return domain.AssetReference{}, fmt.Errorf("%w: %w", domain.ErrRecordCommit, err)
		}
		s.log.Warn("asset update reported failure but was applied", "resource_id", resourceID, "slot", slot, "error", err)
	}

	if hadPrevious && previous.Path != "" && previous.Path != path {
		s.discard(ctx, previous.Path, "superseded")
	}
	s.log.Info("asset replaced", "resource_id", resourceID, "slot", slot, "path", path, "size", ref.Size)
	return ref, nil
}

// committed re-reads the resource, detached from request cancellation, to see whether slot holds path.
func (s *ResourceService) committed(ctx context.Context, resourceID string, slot domain.Slot, path string) (bool, error) {
	readCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cleanupTimeout)
	defer cancel()

	resource, err := s.resources.GetResource(readCtx, resourceID)
	if err != nil {
		return false, err
	}
	ref, ok := resource.Asset(slot)
	return ok && ref.Path == path, nil
}

// discard deletes a blob on a context detached from request cancellation.
func (s *ResourceService) discard(ctx context.Context, path, reason string) {
	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cleanupTimeout)
	defer cancel()

	err := s.objects.Delete(cleanupCtx, path)
	if err == nil || errors.Is(err, domain.ErrObjectNotFound) {
		return
	}
	s.log.Error("orphaned blob", "path", path, "reason", reason, "error", err)
}

// objectPath never repeats: nanosecond timestamp plus a random suffix under kind/id/slot.
func objectPath(resource domain.Resource, slot domain.Slot, now time.Time, ext string) string {
	return fmt.Sprintf("%s/%s/%s/%d-%s%s", resource.Kind, resource.ID, slot, now.UnixNano(), uuid.NewString(), ext)
}
