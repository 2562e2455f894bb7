package gallery

import (
	"context"
	"math/rand"
	"path"
	"strings"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/minio/minio-go/v7"
	"golang.org/x/sync/errgroup"

	"github.com/karagol/memorywall/internal/config"
	"github.com/karagol/memorywall/internal/fault"
)

const namespaceSuffix = "_UPLOADS"

type pager interface {
	ListPage(ctx context.Context, token string) ([]minio.ObjectInfo, string, error)
}

type presigner interface {
	PresignedGet(ctx context.Context, key string) (string, error)
}

// Service materializes the gallery: full-bucket enumeration, filtering,
// bounded sampling, and per-item read-credential issuance.
type Service struct {
	pager  pager
	signer presigner
	creds  config.StorageConfig
	policy OrderPolicy
	limit  int
	logger log.Logger

	// newRand is swapped in tests for a seeded source.
	newRand func() *rand.Rand
}

// NewService constructs a gallery service.
func NewService(p pager, signer presigner, creds config.StorageConfig, policy OrderPolicy, limit int, logger log.Logger) *Service {
	return &Service{
		pager:  p,
		signer: signer,
		creds:  creds,
		policy: policy,
		limit:  limit,
		logger: logger,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
}

// List produces the gallery items for one request. All-or-nothing: a failed
// listing page or a failed credential issuance fails the whole request.
func (s *Service) List(ctx context.Context) ([]Item, error) {
	if err := s.creds.Validate(); err != nil {
		return nil, err
	}

	objects, err := s.enumerate(ctx)
	if err != nil {
		return nil, err
	}

	sampled := Sample(Filter(objects), s.policy, s.limit, s.newRand())

	// issuance is independent per item; output slots are index addressed so
	// concurrency cannot reorder the sample
	items := make([]Item, len(sampled))
	group, ctx := errgroup.WithContext(ctx)
	for i, obj := range sampled {
		i, obj := i, obj
		group.Go(func() error {
			readURL, err := s.signer.PresignedGet(ctx, obj.Key)
			if err != nil {
				return fault.Storage("sign read url for "+obj.Key, err)
			}
			items[i] = project(obj, readURL)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	level.Debug(s.logger).Log("msg", "gallery composed", "listed", len(objects), "served", len(items))
	return items, nil
}

// enumerate pages through the bucket's complete key listing. Partial
// accumulation is discarded on any page failure.
func (s *Service) enumerate(ctx context.Context) ([]Object, error) {
	var all []Object
	token := ""
	for {
		contents, next, err := s.pager.ListPage(ctx, token)
		if err != nil {
			return nil, fault.Storage("list bucket page", err)
		}
		for _, info := range contents {
			all = append(all, Object{
				Key:          info.Key,
				Size:         info.Size,
				LastModified: info.LastModified,
			})
		}
		if next == "" {
			return all, nil
		}
		token = next
	}
}

// project derives the display fields from an object's key. The namespace
// before the first path separator carries the contributor; the final segment
// is the stored filename.
func project(obj Object, readURL string) Item {
	namespace := ""
	filename := obj.Key
	if i := strings.Index(obj.Key, "/"); i >= 0 {
		namespace = obj.Key[:i]
		filename = obj.Key[i+1:]
	}
	if i := strings.LastIndex(filename, "/"); i >= 0 {
		filename = filename[i+1:]
	}

	contributor := strings.TrimSuffix(namespace, namespaceSuffix)
	contributor = strings.ReplaceAll(contributor, "_", " ")

	ext := path.Ext(strings.ToLower(obj.Key))

	return Item{
		Key:          obj.Key,
		ReadURL:      readURL,
		Filename:     filename,
		Contributor:  contributor,
		SizeBytes:    obj.Size,
		LastModified: obj.LastModified,
		IsVideo:      videoExtensions[ext],
		IsHeic:       heicExtensions[ext],
	}
}
