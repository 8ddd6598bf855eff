// Package search implements catalog queries: relevance-ranked full-text
// search with typo tolerance, field filters, facet aggregation, trending,
// and catalog statistics.
//
// Ranking runs inside the database as an aggregation pipeline. Filters are
// hard constraints applied in $match; the text query only orders results
// and never excludes a document that passed the filters, so a filtered
// search with a poor query still returns the full filtered set, worst
// matches last.
package search

import (
	"context"
	"fmt"
	"time"

	"github.com/opencurio/resourcehub/internal/app/store/docstore"
	"github.com/opencurio/resourcehub/internal/app/system/apperr"
	"github.com/opencurio/resourcehub/internal/app/system/normalize"
	"github.com/opencurio/resourcehub/internal/domain/models"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const collection = "resources"

// Field weights for relevance scoring. Title dominates, description counts
// double a tag or author hit.
const (
	weightTitle       = 3
	weightDescription = 2
	weightTags        = 1
	weightAuthor      = 1
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	trendingLimit   = 10
)

// Sort keys accepted by Request.SortBy. Empty means relevance when a query
// is present, newest-first otherwise.
const (
	SortRelevance   = "relevance"
	SortCreatedAt   = "created_at"
	SortGitHubStars = "github_stars"
	SortTitle       = "title"
)

type Service struct {
	docs  *docstore.Store
	cache *facetCache
	log   *zap.Logger
}

// NewService builds the search service. rdb is optional; when nil, facet
// results are computed live on every call.
func NewService(docs *docstore.Store, rdb *redis.Client, cacheTTL time.Duration, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{docs: docs, cache: newFacetCache(rdb, cacheTTL, log), log: log}
}

// Request describes one search call. Zero values mean "unset".
type Request struct {
	Query        string
	Status       string // defaults to approved
	Category     string
	ResourceType string
	Tags         []string // OR semantics: any matching tag qualifies
	Difficulty   string
	SortBy       string
	SortAsc      bool
	Page         int // 1-based
	Size         int
}

// Result is one page of search results.
type Result struct {
	Resources []models.Resource `json:"resources"`
	Total     int64             `json:"total"`
	Page      int               `json:"page"`
	Size      int               `json:"size"`
	Pages     int               `json:"pages"`
}

// Search runs a catalog query. Unspecified status filters to approved, so
// anonymous searches never leak pending or rejected submissions; listing
// those requires asking for them explicitly.
func (s *Service) Search(ctx context.Context, req Request) (Result, error) {
	req, err := s.prepare(req)
	if err != nil {
		return Result{}, err
	}

	filter := req.filter()

	// Total reflects the filters alone. The text query re-orders but never
	// shrinks the filtered set.
	total, err := s.docs.Count(ctx, collection, filter)
	if err != nil {
		return Result{}, err
	}

	pipe := mongo.Pipeline{bson.D{{Key: "$match", Value: filter}}}

	terms := queryTerms(req.Query)
	scored := len(terms) > 0 && (req.SortBy == "" || req.SortBy == SortRelevance)
	if scored {
		pipe = append(pipe,
			bson.D{{Key: "$addFields", Value: bson.M{"relevance": scoreExpr(terms)}}},
			bson.D{{Key: "$sort", Value: bson.D{
				{Key: "relevance", Value: -1},
				{Key: "created_at", Value: -1},
				{Key: "_id", Value: -1},
			}}},
		)
	} else {
		pipe = append(pipe, bson.D{{Key: "$sort", Value: req.sortSpec()}})
	}

	pipe = append(pipe,
		bson.D{{Key: "$skip", Value: int64((req.Page - 1) * req.Size)}},
		bson.D{{Key: "$limit", Value: int64(req.Size)}},
	)

	var resources []models.Resource
	if err := s.docs.Aggregate(ctx, collection, pipe, &resources); err != nil {
		return Result{}, err
	}

	return Result{
		Resources: resources,
		Total:     total,
		Page:      req.Page,
		Size:      req.Size,
		Pages:     pageCount(total, req.Size),
	}, nil
}

// Trending returns the most-starred approved resources, newest publication
// first among equals. Resources without a star count rank last.
func (s *Service) Trending(ctx context.Context) ([]models.Resource, error) {
	pipe := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"status": models.StatusApproved}}},
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: "github_stars", Value: -1},
			{Key: "publication_date", Value: -1},
		}}},
		bson.D{{Key: "$limit", Value: trendingLimit}},
	}
	var out []models.Resource
	if err := s.docs.Aggregate(ctx, collection, pipe, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Stats summarizes the catalog for the admin dashboard.
type Stats struct {
	Total      int64             `json:"total"`
	ByStatus   map[string]int64  `json:"by_status"`
	ByCategory []docstore.Bucket `json:"by_category"`
	ByType     []docstore.Bucket `json:"by_type"`
}

// Stats counts resources by workflow state, and approved resources by
// category and type.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	st := Stats{ByStatus: make(map[string]int64, 3)}

	statuses, err := s.docs.TermCounts(ctx, collection, "status", nil, 10, false)
	if err != nil {
		return Stats{}, err
	}
	for _, b := range statuses {
		st.ByStatus[b.Value] = b.Count
		st.Total += b.Count
	}

	approved := bson.M{"status": models.StatusApproved}
	if st.ByCategory, err = s.docs.TermCounts(ctx, collection, "category", approved, maxFacetBuckets, false); err != nil {
		return Stats{}, err
	}
	if st.ByType, err = s.docs.TermCounts(ctx, collection, "resource_type", approved, maxFacetBuckets, false); err != nil {
		return Stats{}, err
	}
	return st, nil
}

// prepare validates and defaults a request, collecting all violations.
func (s *Service) prepare(req Request) (Request, error) {
	var violations []string

	req.Query = normalize.QueryParam(req.Query)
	req.Status = normalize.Status(req.Status)
	req.Tags = normalize.Tags(req.Tags)

	if req.Status == "" {
		req.Status = models.StatusApproved
	} else if !models.IsValidStatus(req.Status) {
		violations = append(violations, "status must be pending, approved, or rejected")
	}
	if req.Category != "" && !models.IsValidCategory(req.Category) {
		violations = append(violations, "category is not a known category")
	}
	if req.ResourceType != "" && !models.IsValidResourceType(req.ResourceType) {
		violations = append(violations, "resource_type is not a known resource type")
	}
	if req.Difficulty != "" && !models.IsValidDifficulty(req.Difficulty) {
		violations = append(violations, "difficulty must be Beginner, Intermediate, or Advanced")
	}
	switch req.SortBy {
	case "", SortRelevance, SortCreatedAt, SortGitHubStars, SortTitle:
	default:
		violations = append(violations, fmt.Sprintf("sort_by %q is not supported", req.SortBy))
	}
	if req.Page < 0 {
		violations = append(violations, "page must be 1 or greater")
	} else if req.Page == 0 {
		req.Page = 1
	}
	if req.Size < 0 {
		violations = append(violations, "size must be 1 or greater")
	} else if req.Size == 0 {
		req.Size = DefaultPageSize
	} else if req.Size > MaxPageSize {
		req.Size = MaxPageSize
	}

	if len(violations) > 0 {
		return Request{}, apperr.Validation(violations...)
	}
	return req, nil
}

func (req Request) filter() bson.M {
	f := bson.M{"status": req.Status}
	if req.Category != "" {
		f["category"] = req.Category
	}
	if req.ResourceType != "" {
		f["resource_type"] = req.ResourceType
	}
	if len(req.Tags) > 0 {
		f["tags"] = bson.M{"$in": req.Tags}
	}
	if req.Difficulty != "" {
		f["difficulty_level"] = req.Difficulty
	}
	return f
}

// sortSpec always ends on _id so documents with equal sort keys keep a
// fixed order across $skip/$limit round trips. created_at has millisecond
// precision and bulk imports produce many equal values, so without the
// unique key, page boundaries could repeat or drop documents.
func (req Request) sortSpec() bson.D {
	dir := -1
	if req.SortAsc {
		dir = 1
	}
	switch req.SortBy {
	case SortGitHubStars:
		return bson.D{{Key: "github_stars", Value: dir}, {Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}
	case SortTitle:
		return bson.D{{Key: "title_ci", Value: dir}, {Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}
	case SortCreatedAt:
		return bson.D{{Key: "created_at", Value: dir}, {Key: "_id", Value: dir}}
	default:
		return bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}
	}
}

// scoreExpr builds the relevance expression: for each term, each matching
// field contributes its weight. Tags are folded into one string so a single
// regex test covers the whole array.
func scoreExpr(terms []string) bson.M {
	joinedTags := bson.M{"$reduce": bson.M{
		"input":        bson.M{"$ifNull": bson.A{"$tags", bson.A{}}},
		"initialValue": "",
		"in":           bson.M{"$concat": bson.A{"$$value", " ", "$$this"}},
	}}

	var parts bson.A
	for _, term := range terms {
		pattern := termPattern(term)
		parts = append(parts,
			fieldScore("$title", pattern, weightTitle),
			fieldScore("$description", pattern, weightDescription),
			fieldScore(joinedTags, pattern, weightTags),
			fieldScore(bson.M{"$ifNull": bson.A{"$author", ""}}, pattern, weightAuthor),
		)
	}
	return bson.M{"$add": parts}
}

func fieldScore(input any, pattern string, weight int) bson.M {
	return bson.M{"$cond": bson.A{
		bson.M{"$regexMatch": bson.M{"input": input, "regex": pattern, "options": "i"}},
		weight,
		0,
	}}
}

func pageCount(total int64, size int) int {
	if total == 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}
