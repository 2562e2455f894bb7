package upload

import (
	"context"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/minio/minio-go/v7"

	"github.com/karagol/memorywall/internal/config"
	"github.com/karagol/memorywall/internal/fault"
	"github.com/karagol/memorywall/internal/ingest"
)

const defaultContentType = "application/octet-stream"

// Request describes one incoming file for which upload coordination is
// requested. Transient; only the derived key outlives the call.
type Request struct {
	Filename    string
	ContentType string
	Size        int64
	FileHash    string
}

// Ticket is the outcome of upload coordination: either a write credential for
// a fresh key, or a skip notice when hash addressing found the content
// already stored.
type Ticket struct {
	ObjectKey string
	UploadURL string
	ExpiresIn int
	Skipped   bool
}

// StoredFile records one object written during push ingestion.
type StoredFile struct {
	Filename  string `json:"filename"`
	ObjectKey string `json:"objectKey"`
	Size      int64  `json:"size"`
}

type objectStore interface {
	Stat(ctx context.Context, key string) (minio.ObjectInfo, error)
	Put(ctx context.Context, key string, body []byte, contentType string) (int64, error)
}

type presigner interface {
	PresignedPut(ctx context.Context, key, contentType string) (string, error)
	TTL() time.Duration
}

// Service coordinates uploads against the object store.
type Service struct {
	store       objectStore
	signer      presigner
	creds       config.StorageConfig
	contributor string
	logger      log.Logger
	now         func() time.Time
}

// NewService constructs an upload service. The default contributor names the
// namespace used when a caller supplies none.
func NewService(store objectStore, signer presigner, creds config.StorageConfig, defaultContributor string, logger log.Logger) *Service {
	return &Service{
		store:       store,
		signer:      signer,
		creds:       creds,
		contributor: defaultContributor,
		logger:      logger,
		now:         time.Now,
	}
}

// PrepareUpload resolves the storage key for the request and issues a
// time-bounded write credential. In hash-addressed mode an existing object
// short-circuits to a skip ticket and no credential is issued.
func (s *Service) PrepareUpload(ctx context.Context, req Request) (Ticket, error) {
	if err := s.creds.Validate(); err != nil {
		return Ticket{}, err
	}

	addr := ByTimestamp()
	if req.FileHash != "" {
		addr = ByHash(req.FileHash)
	}

	key, err := ResolveKey(req.Filename, s.contributor, addr, s.now())
	if err != nil {
		return Ticket{}, err
	}

	if addr.Deduplicating() {
		_, err := s.store.Stat(ctx, key)
		switch {
		case err == nil:
			level.Info(s.logger).Log("msg", "duplicate upload skipped", "key", key)
			return Ticket{ObjectKey: key, Skipped: true}, nil
		case !isNotFound(err):
			// a false "not found" here would hand out a credential that
			// overwrites existing content
			return Ticket{}, fault.Storage("check existing object", err)
		}
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}

	uploadURL, err := s.signer.PresignedPut(ctx, key, contentType)
	if err != nil {
		return Ticket{}, fault.Storage("sign upload url", err)
	}

	return Ticket{
		ObjectKey: key,
		UploadURL: uploadURL,
		ExpiresIn: int(s.signer.TTL().Seconds()),
	}, nil
}

// IngestPush decodes a raw multipart body and writes each file part straight
// to storage. Files are written in part order; the first write failure aborts
// the call without rolling back objects already written.
func (s *Service) IngestPush(ctx context.Context, body []byte, contentType string) ([]StoredFile, error) {
	if err := s.creds.Validate(); err != nil {
		return nil, err
	}

	boundary, err := ingest.Boundary(contentType)
	if err != nil {
		return nil, err
	}

	payload := ingest.Parse(body, boundary)
	if len(payload.Files) == 0 {
		return nil, fault.Validationf("No files uploaded")
	}

	contributor := payload.Contributor
	if contributor == "" {
		contributor = s.contributor
	}

	stored := make([]StoredFile, 0, len(payload.Files))
	for _, part := range payload.Files {
		key, err := ResolveKey(part.Filename, contributor, ByTimestamp(), s.now())
		if err != nil {
			// a part with an empty filename attribute; drop it like the
			// parser drops unnamed parts
			level.Warn(s.logger).Log("msg", "file part without filename dropped", "field", part.FieldName)
			continue
		}

		size, err := s.store.Put(ctx, key, part.Data, part.ContentType)
		if err != nil {
			return stored, fault.Storage("store "+part.Filename, err)
		}

		level.Info(s.logger).Log("msg", "stored upload", "key", key, "size", humanize.Bytes(uint64(size)))
		stored = append(stored, StoredFile{
			Filename:  part.Filename,
			ObjectKey: key,
			Size:      size,
		})
	}

	if len(stored) == 0 {
		return nil, fault.Validationf("No files uploaded")
	}

	return stored, nil
}

// isNotFound reports whether the storage service confirmed the key is
// unpopulated. Anything else, transient faults included, is not a NotFound.
func isNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound
}
