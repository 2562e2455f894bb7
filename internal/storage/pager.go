package storage

import (
	"context"

	"github.com/minio/minio-go/v7"
)

const defaultPageSize = 1000

// Pager exposes the storage service's paginated listing API one page at a
// time, surfacing the continuation token so callers control the loop.
type Pager struct {
	core     *minio.Core
	bucket   string
	pageSize int
}

// NewPager wraps a client for page-wise listing of one bucket.
func NewPager(client *minio.Client, bucket string) *Pager {
	return &Pager{
		core:     &minio.Core{Client: client},
		bucket:   bucket,
		pageSize: defaultPageSize,
	}
}

// ListPage fetches one listing page. An empty token requests the first page;
// the returned token is empty once the listing is exhausted.
func (p *Pager) ListPage(ctx context.Context, token string) ([]minio.ObjectInfo, string, error) {
	result, err := p.core.ListObjectsV2(p.bucket, "", "", token, "", p.pageSize)
	if err != nil {
		return nil, "", err
	}

	next := ""
	if result.IsTruncated {
		next = result.NextContinuationToken
	}

	return result.Contents, next, nil
}
