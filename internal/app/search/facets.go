package search

import (
	"context"
	"sort"

	"github.com/opencurio/resourcehub/internal/app/store/docstore"
	"github.com/opencurio/resourcehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
)

const maxFacetBuckets = 100

// Facets are the navigable dimensions of the approved catalog.
type Facets struct {
	Categories    []docstore.Bucket `json:"categories"`
	ResourceTypes []docstore.Bucket `json:"resource_types"`
	Tags          []docstore.Bucket `json:"tags"`
}

// Facets aggregates bucket counts over the approved catalog. The category
// and resource-type facets are unioned with the canonical vocabularies so
// empty values stay visible to clients building filter UIs. Results are
// served from cache when one is configured.
func (s *Service) Facets(ctx context.Context) (Facets, error) {
	if cached, ok := s.cache.get(ctx); ok {
		return cached, nil
	}

	approved := bson.M{"status": models.StatusApproved}

	categories, err := s.docs.TermCounts(ctx, collection, "category", approved, maxFacetBuckets, false)
	if err != nil {
		return Facets{}, err
	}
	types, err := s.docs.TermCounts(ctx, collection, "resource_type", approved, maxFacetBuckets, false)
	if err != nil {
		return Facets{}, err
	}
	tags, err := s.docs.TermCounts(ctx, collection, "tags", approved, maxFacetBuckets, true)
	if err != nil {
		return Facets{}, err
	}

	f := Facets{
		Categories:    unionVocabulary(categories, models.Categories),
		ResourceTypes: unionVocabulary(types, models.ResourceTypes),
		Tags:          tags,
	}
	s.cache.put(ctx, f)
	return f, nil
}

// Invalidate drops the cached facets. Called after moderation decisions so
// approved-catalog facets never serve stale for longer than one request.
func (s *Service) Invalidate(ctx context.Context) {
	s.cache.invalidate(ctx)
}

// unionVocabulary adds zero-count buckets for vocabulary values absent from
// the aggregation, then re-sorts by count descending, value ascending.
func unionVocabulary(buckets []docstore.Bucket, vocab []string) []docstore.Bucket {
	seen := make(map[string]bool, len(buckets))
	for _, b := range buckets {
		seen[b.Value] = true
	}
	out := append([]docstore.Bucket(nil), buckets...)
	for _, v := range vocab {
		if !seen[v] {
			out = append(out, docstore.Bucket{Value: v, Count: 0})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out
}
