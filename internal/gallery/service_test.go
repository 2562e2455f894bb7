package gallery

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/go-kit/log"
	"github.com/minio/minio-go/v7"

	"github.com/karagol/memorywall/internal/config"
	"github.com/karagol/memorywall/internal/fault"
)

func validCreds() config.StorageConfig {
	return config.StorageConfig{
		Endpoint:        "storage.test",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		Bucket:          "memories",
		URLTTL:          time.Hour,
	}
}

type fakePager struct {
	pages     [][]minio.ObjectInfo
	failAt    int // 1-based page index that fails; 0 = never
	pageCalls int
}

func (f *fakePager) ListPage(ctx context.Context, token string) ([]minio.ObjectInfo, string, error) {
	f.pageCalls++
	if f.failAt != 0 && f.pageCalls == f.failAt {
		return nil, "", errors.New("connection reset")
	}

	index := 0
	if token != "" {
		for i := range f.pages {
			if token == tokenFor(i) {
				index = i
				break
			}
		}
	}

	next := ""
	if index+1 < len(f.pages) {
		next = tokenFor(index + 1)
	}
	return f.pages[index], next, nil
}

func tokenFor(page int) string {
	return string(rune('a' + page))
}

type fakeGetSigner struct {
	failKey string
}

func (f *fakeGetSigner) PresignedGet(ctx context.Context, key string) (string, error) {
	if f.failKey != "" && key == f.failKey {
		return "", errors.New("signing refused")
	}
	return "https://signed.test/" + key, nil
}

func info(key string, modified time.Time) minio.ObjectInfo {
	return minio.ObjectInfo{Key: key, Size: int64(len(key)), LastModified: modified}
}

func newTestGallery(p pager, signer presigner, policy OrderPolicy, limit int) *Service {
	service := NewService(p, signer, validCreds(), policy, limit, log.NewNopLogger())
	service.newRand = func() *rand.Rand { return rand.New(rand.NewSource(11)) }
	return service
}

func TestListUnionsAllPages(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	pager := &fakePager{pages: [][]minio.ObjectInfo{
		{info("Memorial_Guest_UPLOADS/a.jpg", base.Add(time.Hour))},
		{info("Memorial_Guest_UPLOADS/b.jpg", base)},
	}}

	service := newTestGallery(pager, &fakeGetSigner{}, OrderNewestFirst, 50)

	items, err := service.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("expected the union of both pages, got %d items", len(items))
	}
	if pager.pageCalls != 2 {
		t.Fatalf("expected 2 page fetches, got %d", pager.pageCalls)
	}
}

func TestListPageFailureIsAllOrNothing(t *testing.T) {
	base := time.Now()
	pager := &fakePager{
		pages: [][]minio.ObjectInfo{
			{info("Memorial_Guest_UPLOADS/a.jpg", base)},
			{info("Memorial_Guest_UPLOADS/b.jpg", base)},
		},
		failAt: 2,
	}

	service := newTestGallery(pager, &fakeGetSigner{}, OrderNewestFirst, 50)

	items, err := service.List(context.Background())
	if !errors.Is(err, fault.ErrStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if items != nil {
		t.Fatalf("partial accumulation must be discarded, got %d items", len(items))
	}
}

func TestListSignFailureFailsWholeGallery(t *testing.T) {
	base := time.Now()
	pager := &fakePager{pages: [][]minio.ObjectInfo{{
		info("Memorial_Guest_UPLOADS/a.jpg", base),
		info("Memorial_Guest_UPLOADS/b.jpg", base),
		info("Memorial_Guest_UPLOADS/c.jpg", base),
	}}}

	service := newTestGallery(pager, &fakeGetSigner{failKey: "Memorial_Guest_UPLOADS/b.jpg"}, OrderNewestFirst, 50)

	items, err := service.List(context.Background())
	if !errors.Is(err, fault.ErrStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if items != nil {
		t.Fatalf("no partial gallery may be returned, got %d items", len(items))
	}
}

func TestListPreservesSampleOrderAcrossFanOut(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	var page []minio.ObjectInfo
	for i := 0; i < 30; i++ {
		page = append(page, info(key(i), base.Add(time.Duration(i)*time.Minute)))
	}
	pager := &fakePager{pages: [][]minio.ObjectInfo{page}}

	service := newTestGallery(pager, &fakeGetSigner{}, OrderShuffle, 30)

	items, err := service.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}

	expected := Sample(Filter(toObjects(page)), OrderShuffle, 30, rand.New(rand.NewSource(11)))
	if len(items) != len(expected) {
		t.Fatalf("expected %d items, got %d", len(expected), len(items))
	}
	for i := range expected {
		if items[i].Key != expected[i].Key {
			t.Fatalf("item %d out of order: got %q want %q", i, items[i].Key, expected[i].Key)
		}
		if items[i].ReadURL != "https://signed.test/"+expected[i].Key {
			t.Fatalf("item %d carries wrong read url %q", i, items[i].ReadURL)
		}
	}
}

func key(i int) string {
	return "Memorial_Guest_UPLOADS/photo-" + string(rune('a'+i/10)) + string(rune('a'+i%10)) + ".jpg"
}

func toObjects(page []minio.ObjectInfo) []Object {
	objects := make([]Object, 0, len(page))
	for _, obj := range page {
		objects = append(objects, Object{Key: obj.Key, Size: obj.Size, LastModified: obj.LastModified})
	}
	return objects
}

func TestListMissingConfiguration(t *testing.T) {
	service := NewService(&fakePager{pages: [][]minio.ObjectInfo{{}}}, &fakeGetSigner{}, config.StorageConfig{}, OrderShuffle, 50, log.NewNopLogger())

	_, err := service.List(context.Background())
	if !errors.Is(err, fault.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestProjection(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	pager := &fakePager{pages: [][]minio.ObjectInfo{{
		info("Memorial_Guest_UPLOADS/abc123_a.png", base),
		info("Aunt_Carol_UPLOADS/2025-06-01T09-30-15_clip.MOV", base),
		info("Memorial_Guest_UPLOADS/2025-06-01T09-30-15_live.heic", base),
	}}}

	service := newTestGallery(pager, &fakeGetSigner{}, OrderNewestFirst, 50)

	items, err := service.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}

	byKey := map[string]Item{}
	for _, item := range items {
		byKey[item.Key] = item
	}

	photo := byKey["Memorial_Guest_UPLOADS/abc123_a.png"]
	if photo.Contributor != "Memorial Guest" {
		t.Fatalf("unexpected contributor %q", photo.Contributor)
	}
	if photo.Filename != "abc123_a.png" {
		t.Fatalf("unexpected filename %q", photo.Filename)
	}
	if photo.IsVideo || photo.IsHeic {
		t.Fatalf("png misclassified: %+v", photo)
	}
	if !strings.HasPrefix(photo.ReadURL, "https://signed.test/") {
		t.Fatalf("missing read url: %+v", photo)
	}

	clip := byKey["Aunt_Carol_UPLOADS/2025-06-01T09-30-15_clip.MOV"]
	if clip.Contributor != "Aunt Carol" {
		t.Fatalf("unexpected contributor %q", clip.Contributor)
	}
	if !clip.IsVideo || clip.IsHeic {
		t.Fatalf("mov misclassified: %+v", clip)
	}

	live := byKey["Memorial_Guest_UPLOADS/2025-06-01T09-30-15_live.heic"]
	if !live.IsHeic || live.IsVideo {
		t.Fatalf("heic misclassified: %+v", live)
	}
}
