package gallery

import (
	"math/rand"
	"path"
	"sort"
	"strings"

	"github.com/karagol/memorywall/internal/fault"
)

// OrderPolicy selects which of the two mutually exclusive display orders the
// sampler applies before truncating.
type OrderPolicy int

const (
	// OrderShuffle is the current behavior: an unbiased random subset.
	OrderShuffle OrderPolicy = iota
	// OrderNewestFirst is the superseded policy: most recently modified
	// objects first.
	OrderNewestFirst
)

// ParseOrderPolicy maps a configuration string to a policy.
func ParseOrderPolicy(s string) (OrderPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "shuffle", "shuffled", "random":
		return OrderShuffle, nil
	case "newest", "newest-first":
		return OrderNewestFirst, nil
	}
	return OrderShuffle, fault.Configurationf("unknown gallery order %q", s)
}

var mediaExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".heic": true,
	".heif": true,
	".mp4":  true,
	".mov":  true,
	".webm": true,
}

var videoExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".webm": true,
}

var heicExtensions = map[string]bool{
	".heic": true,
	".heif": true,
}

// isMediaKey reports whether a key names a displayable media object. Keys
// starting with "_" or mentioning "manifest" are reserved for bookkeeping
// objects and never shown.
func isMediaKey(key string) bool {
	lower := strings.ToLower(key)
	if strings.HasPrefix(lower, "_") || strings.Contains(lower, "manifest") {
		return false
	}
	return mediaExtensions[path.Ext(lower)]
}

// Filter keeps only displayable media objects, preserving listing order.
func Filter(objects []Object) []Object {
	kept := make([]Object, 0, len(objects))
	for _, obj := range objects {
		if isMediaKey(obj.Key) {
			kept = append(kept, obj)
		}
	}
	return kept
}

// Sample orders the filtered set per policy and truncates it to at most
// limit items. The rng drives the Fisher-Yates shuffle and is injectable so
// tests can pin the output order; it is ignored under OrderNewestFirst.
// The input slice is not modified.
func Sample(objects []Object, policy OrderPolicy, limit int, rng *rand.Rand) []Object {
	out := make([]Object, len(objects))
	copy(out, objects)

	switch policy {
	case OrderNewestFirst:
		sort.Slice(out, func(i, j int) bool {
			return out[i].LastModified.After(out[j].LastModified)
		})
	default:
		for i := len(out) - 1; i > 0; i-- {
			j := rng.Intn(i + 1)
			out[i], out[j] = out[j], out[i]
		}
	}

	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
