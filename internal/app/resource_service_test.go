package app_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"nusantara-culture-service/internal/app"
	"nusantara-culture-service/internal/domain"
	"nusantara-culture-service/internal/infra/memory"
	"nusantara-culture-service/internal/logger"
)

var (
	pngBlob = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), bytes.Repeat([]byte{1}, 32)...)
	pdfBlob = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\n")
)

type resourceFixture struct {
	service   *app.ResourceService
	resources *flakyResources
	blobs     *flakyBlobs
	logs      *observer.ObservedLogs
	resource  domain.Resource
}

func newResourceFixture(t *testing.T, kind domain.ResourceKind) *resourceFixture {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	log := &logger.Logger{SugaredLogger: zap.New(core).Sugar()}

	store := memory.NewResourceStore(domain.Province{Slug: "aceh", Name: "Aceh"})
	resources := &flakyResources{ResourceStore: store}
	blobs := &flakyBlobs{BlobStore: memory.NewBlobStore("")}
	policy := app.UploadPolicy{MaxBytes: 1024, AllowedTypes: []string{"image/png", "image/jpeg", "application/pdf"}}
	service := app.NewResourceService(store, resources, blobs, policy, time.Second, log)

	resource, err := service.CreateResource(context.Background(), app.CreateResourceInput{
		ProvinceSlug: "aceh",
		Kind:         kind,
		Name:         "Mie Aceh",
	})
	if err != nil {
		t.Fatalf("create resource: %v", err)
	}
	return &resourceFixture{service: service, resources: resources, blobs: blobs, logs: logs, resource: resource}
}

func TestReplaceAssetRoundTripAndCleanup(t *testing.T) {
	ctx := context.Background()
	f := newResourceFixture(t, domain.KindFood)

	first, err := f.service.ReplaceAsset(ctx, f.resource.ID, domain.SlotImage, domain.Blob{Data: pngBlob})
	if err != nil {
		t.Fatalf("first replace: %v", err)
	}
	data, contentType, err := f.blobs.Fetch(first.URL)
	if err != nil {
		t.Fatalf("fetch first: %v", err)
	}
	if !bytes.Equal(data, pngBlob) || contentType != "image/png" {
		t.Fatalf("stored blob mismatch: ct=%s", contentType)
	}

	second, err := f.service.ReplaceAsset(ctx, f.resource.ID, domain.SlotImage, domain.Blob{Data: pngBlob})
	if err != nil {
		t.Fatalf("second replace: %v", err)
	}
	if second.Path == first.Path {
		t.Fatalf("expected a fresh path per upload, got %s twice", second.Path)
	}

	stored, err := f.service.GetResource(ctx, f.resource.ID)
	if err != nil {
		t.Fatalf("get resource: %v", err)
	}
	if stored.Assets[domain.SlotImage].URL != second.URL {
		t.Fatalf("expected reference to second upload, got %+v", stored.Assets[domain.SlotImage])
	}
	if _, _, err := f.blobs.Fetch(first.URL); !errors.Is(err, domain.ErrObjectNotFound) {
		t.Fatalf("expected superseded blob deleted, got %v", err)
	}
	if f.blobs.Len() != 1 {
		t.Fatalf("expected exactly one live blob, got %d", f.blobs.Len())
	}
}

func TestReplaceAssetCommitFailureDeletesUpload(t *testing.T) {
	ctx := context.Background()
	f := newResourceFixture(t, domain.KindFood)
	original, err := f.service.ReplaceAsset(ctx, f.resource.ID, domain.SlotImage, domain.Blob{Data: pngBlob})
	if err != nil {
		t.Fatalf("seed replace: %v", err)
	}

	f.resources.failSetAsset = errors.New("connection reset")
	_, err = f.service.ReplaceAsset(ctx, f.resource.ID, domain.SlotImage, domain.Blob{Data: pngBlob})
	if !errors.Is(err, domain.ErrRecordCommit) {
		t.Fatalf("expected record commit failure, got %v", err)
	}

	stored, _ := f.service.GetResource(ctx, f.resource.ID)
	if stored.Assets[domain.SlotImage] != original {
		t.Fatalf("reference changed despite failed commit: %+v", stored.Assets[domain.SlotImage])
	}
	if f.blobs.Len() != 1 {
		t.Fatalf("expected the failed upload to be deleted, %d blobs live", f.blobs.Len())
	}
	if _, _, err := f.blobs.Fetch(original.URL); err != nil {
		t.Fatalf("original blob must survive: %v", err)
	}
}

func TestReplaceAssetCommitFailureLogsOrphanWhenRollbackFails(t *testing.T) {
	f := newResourceFixture(t, domain.KindFood)
	f.resources.failSetAsset = errors.New("connection reset")
	f.blobs.failDelete = errors.New("bucket unreachable")

	_, err := f.service.ReplaceAsset(context.Background(), f.resource.ID, domain.SlotImage, domain.Blob{Data: pngBlob})
	if !errors.Is(err, domain.ErrRecordCommit) {
		t.Fatalf("expected record commit failure, got %v", err)
	}
	stored, _ := f.service.GetResource(context.Background(), f.resource.ID)
	if _, ok := stored.Asset(domain.SlotImage); ok {
		t.Fatalf("reference must not change on failed commit")
	}
	orphans := f.logs.FilterMessage("orphaned blob").All()
	if len(orphans) != 1 {
		t.Fatalf("expected one orphan log, got %d", len(orphans))
	}
	if orphans[0].ContextMap()["reason"] != "rollback" {
		t.Fatalf("expected rollback orphan, got %v", orphans[0].ContextMap())
	}
}

func TestReplaceAssetAppliedUpdateReportedAsFailureKeepsBlob(t *testing.T) {
	ctx := context.Background()
	f := newResourceFixture(t, domain.KindFood)
	original, err := f.service.ReplaceAsset(ctx, f.resource.ID, domain.SlotImage, domain.Blob{Data: pngBlob})
	if err != nil {
		t.Fatalf("seed replace: %v", err)
	}

	f.resources.applyThenFail = true
	f.resources.failSetAsset = context.Canceled
	ref, err := f.service.ReplaceAsset(ctx, f.resource.ID, domain.SlotImage, domain.Blob{Data: pngBlob})
	if err != nil {
		t.Fatalf("applied update must succeed, got %v", err)
	}

	stored, _ := f.service.GetResource(ctx, f.resource.ID)
	current := stored.Assets[domain.SlotImage]
	if current.Path != ref.Path {
		t.Fatalf("expected stored reference %s, got %s", ref.Path, current.Path)
	}
	data, _, err := f.blobs.Fetch(current.URL)
	if err != nil || !bytes.Equal(data, pngBlob) {
		t.Fatalf("stored reference must resolve to the upload: %v", err)
	}
	if _, _, err := f.blobs.Fetch(original.URL); !errors.Is(err, domain.ErrObjectNotFound) {
		t.Fatalf("expected superseded blob deleted, got %v", err)
	}
}

func TestReplaceAssetUnverifiableCommitKeepsUpload(t *testing.T) {
	ctx := context.Background()
	f := newResourceFixture(t, domain.KindFood)
	f.resources.applyThenFail = true
	f.resources.failSetAsset = context.Canceled
	f.resources.failGetAfterSet = errors.New("connection reset")

	_, err := f.service.ReplaceAsset(ctx, f.resource.ID, domain.SlotImage, domain.Blob{Data: pngBlob})
	if !errors.Is(err, domain.ErrRecordCommit) {
		t.Fatalf("expected record commit failure, got %v", err)
	}
	if f.blobs.Len() != 1 {
		t.Fatalf("upload must not be deleted when the commit is unknown, %d blobs live", f.blobs.Len())
	}
	orphans := f.logs.FilterMessage("orphaned blob").All()
	if len(orphans) != 1 || orphans[0].ContextMap()["reason"] != "unverified" {
		t.Fatalf("expected one unverified orphan log, got %v", orphans)
	}
}

func TestReplaceAssetUploadFailureLeavesRecordUntouched(t *testing.T) {
	f := newResourceFixture(t, domain.KindFood)
	f.blobs.failPut = errors.New("503 from storage")

	_, err := f.service.ReplaceAsset(context.Background(), f.resource.ID, domain.SlotImage, domain.Blob{Data: pngBlob})
	if !errors.Is(err, domain.ErrStorageWrite) {
		t.Fatalf("expected storage write failure, got %v", err)
	}
	if f.resources.setAssetCalls != 0 {
		t.Fatalf("record store must not be touched, got %d updates", f.resources.setAssetCalls)
	}
}

func TestReplaceAssetSupersededDeleteFailureIsNotSurfaced(t *testing.T) {
	ctx := context.Background()
	f := newResourceFixture(t, domain.KindLanguage)
	if _, err := f.service.ReplaceAsset(ctx, f.resource.ID, domain.SlotDocument, domain.Blob{Data: pdfBlob}); err != nil {
		t.Fatalf("seed replace: %v", err)
	}

	f.blobs.failDelete = errors.New("bucket unreachable")
	ref, err := f.service.ReplaceAsset(ctx, f.resource.ID, domain.SlotDocument, domain.Blob{Data: pdfBlob})
	if err != nil {
		t.Fatalf("replace should succeed after commit, got %v", err)
	}
	if ref.ContentType != "application/pdf" {
		t.Fatalf("expected pdf content type, got %s", ref.ContentType)
	}
	if n := f.logs.FilterMessage("orphaned blob").Len(); n != 1 {
		t.Fatalf("expected superseded orphan to be logged once, got %d", n)
	}
}

func TestReplaceAssetValidation(t *testing.T) {
	ctx := context.Background()
	f := newResourceFixture(t, domain.KindFood)

	cases := []struct {
		name       string
		resourceID string
		slot       domain.Slot
		data       []byte
		want       domain.ErrorKind
	}{
		{"unknown resource", "missing", domain.SlotImage, pngBlob, domain.KindNotFound},
		{"slot not on kind", f.resource.ID, domain.SlotDocument, pdfBlob, domain.KindValidation},
		{"empty blob", f.resource.ID, domain.SlotImage, nil, domain.KindValidation},
		{"too large", f.resource.ID, domain.SlotImage, append(append([]byte(nil), pngBlob...), make([]byte, 2048)...), domain.KindValidation},
		{"disallowed type", f.resource.ID, domain.SlotImage, []byte("just some text"), domain.KindValidation},
	}
	for _, tc := range cases {
		_, err := f.service.ReplaceAsset(ctx, tc.resourceID, tc.slot, domain.Blob{Data: tc.data})
		if got := domain.Kind(err); got != tc.want {
			t.Fatalf("%s: expected %s, got %s (%v)", tc.name, tc.want, got, err)
		}
	}
	if f.blobs.Len() != 0 || f.resources.setAssetCalls != 0 {
		t.Fatalf("rejected input must not write, blobs=%d updates=%d", f.blobs.Len(), f.resources.setAssetCalls)
	}
}

func TestCreateResourceValidation(t *testing.T) {
	f := newResourceFixture(t, domain.KindFood)
	ctx := context.Background()

	if _, err := f.service.CreateResource(ctx, app.CreateResourceInput{ProvinceSlug: "aceh", Kind: "temple", Name: "x"}); domain.Kind(err) != domain.KindValidation {
		t.Fatalf("expected validation error for kind, got %v", err)
	}
	if _, err := f.service.CreateResource(ctx, app.CreateResourceInput{ProvinceSlug: "aceh", Kind: domain.KindFood, Name: "  "}); domain.Kind(err) != domain.KindValidation {
		t.Fatalf("expected validation error for name, got %v", err)
	}
	if _, err := f.service.CreateResource(ctx, app.CreateResourceInput{ProvinceSlug: "bali", Kind: domain.KindFood, Name: "Babi guling"}); !errors.Is(err, domain.ErrProvinceNotFound) {
		t.Fatalf("expected province not found, got %v", err)
	}
}

type flakyResources struct {
	*memory.ResourceStore
	failSetAsset  error
	setAssetCalls int
	// applyThenFail stores the update and still reports failSetAsset.
	applyThenFail bool
	// failGetAfterSet breaks reads once an update was attempted.
	failGetAfterSet error
}

func (r *flakyResources) SetAsset(ctx context.Context, id string, slot domain.Slot, ref domain.AssetReference) error {
	r.setAssetCalls++
	if r.applyThenFail {
		if err := r.ResourceStore.SetAsset(ctx, id, slot, ref); err != nil {
			return err
		}
	}
	if r.failSetAsset != nil {
		return r.failSetAsset
	}
	return r.ResourceStore.SetAsset(ctx, id, slot, ref)
}

func (r *flakyResources) GetResource(ctx context.Context, id string) (domain.Resource, error) {
	if r.failGetAfterSet != nil && r.setAssetCalls > 0 {
		return domain.Resource{}, r.failGetAfterSet
	}
	return r.ResourceStore.GetResource(ctx, id)
}

type flakyBlobs struct {
	*memory.BlobStore
	failPut    error
	failDelete error
}

func (b *flakyBlobs) Put(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	if b.failPut != nil {
		return "", b.failPut
	}
	return b.BlobStore.Put(ctx, path, data, contentType)
}

func (b *flakyBlobs) Delete(ctx context.Context, path string) error {
	if b.failDelete != nil {
		return b.failDelete
	}
	return b.BlobStore.Delete(ctx, path)
}
