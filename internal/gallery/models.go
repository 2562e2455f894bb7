package gallery

import "time"

// Object is the listing record the sampler works on, trimmed to what the
// gallery needs from the storage service's object metadata.
type Object struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// Item is the read-only projection of one sampled object, recomputed on
// every gallery request and never cached.
type Item struct {
	Key          string    `json:"key"`
	ReadURL      string    `json:"readUrl"`
	Filename     string    `json:"filename"`
	Contributor  string    `json:"contributor"`
	SizeBytes    int64     `json:"sizeBytes"`
	LastModified time.Time `json:"lastModified"`
	IsVideo      bool      `json:"isVideo"`
	IsHeic       bool      `json:"isHeic"`
}
