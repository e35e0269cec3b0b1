// Package ingest holds document-intake helpers: duplicate detection
// ahead of the authoritative content_hash uniqueness check in store.
package ingest

import (
	"context"

	"github.com/engramd/engram/internal/domain"
	"github.com/engramd/engram/internal/infra/dsa"
)

// DedupIndex answers "has this content hash probably been ingested
// already?" in O(1) without a round trip to the store, backed by a
// Bloom filter seeded from every known document hash. A negative
// answer is certain; a positive one still needs the store's UNIQUE
// index to confirm, since the filter can false-positive.
type DedupIndex struct {
	filter *dsa.BloomFilter
}

// NewDedupIndex loads every document's content hash from store and
// seeds a filter sized for twice the current count, leaving headroom
// for ingestion growth before the false-positive rate climbs.
func NewDedupIndex(ctx context.Context, store domain.Store) (*DedupIndex, error) {
	docs, err := store.ListDocuments(ctx)
	if err != nil {
		return nil, domain.Persistencef(err, "loading documents for dedup index")
	}

	expected := len(docs)*2 + 64
	filter := dsa.NewBloomFilter(dsa.BloomConfig{ExpectedItems: expected, FPRate: 0.001})
	idx := &DedupIndex{filter: filter}
	for _, doc := range docs {
		if doc.ContentHash != nil {
			idx.filter.Add(*doc.ContentHash)
		}
	}
	return idx, nil
}

// MightExist reports whether hash was possibly already ingested. False
// means it definitely was not; true means the caller must still check
// the store before skipping ingestion.
func (idx *DedupIndex) MightExist(hash string) bool {
	if hash == "" {
		return false
	}
	return idx.filter.Contains(hash)
}

// Observe records a newly ingested hash so later MightExist calls
// within the same process see it without a store round trip.
func (idx *DedupIndex) Observe(hash string) {
	if hash != "" {
		idx.filter.Add(hash)
	}
}
