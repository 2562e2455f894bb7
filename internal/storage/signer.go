package storage

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
)

// Signer issues time-bounded presigned URLs against one bucket. Signing is a
// local cryptographic operation; no round trip to the storage service.
type Signer struct {
	client *minio.Client
	bucket string
	ttl    time.Duration
}

// NewSigner constructs a signer with a fixed validity window.
func NewSigner(client *minio.Client, bucket string, ttl time.Duration) *Signer {
	return &Signer{
		client: client,
		bucket: bucket,
		ttl:    ttl,
	}
}

// PresignedPut returns a URL authorizing one PUT of the given key. The
// content type is folded into the signature, so the eventual upload must
// declare the same type.
func (s *Signer) PresignedPut(ctx context.Context, key, contentType string) (string, error) {
	headers := http.Header{}
	headers.Set("Content-Type", contentType)

	u, err := s.client.PresignHeader(ctx, http.MethodPut, s.bucket, key, s.ttl, url.Values{}, headers)
	if err != nil {
		return "", err
	}

	return u.String(), nil
}

// PresignedGet returns a URL authorizing reads of the given key.
func (s *Signer) PresignedGet(ctx context.Context, key string) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, s.ttl, url.Values{})
	if err != nil {
		return "", err
	}

	return u.String(), nil
}

// TTL reports the validity window applied to issued URLs.
func (s *Signer) TTL() time.Duration {
	return s.ttl
}
