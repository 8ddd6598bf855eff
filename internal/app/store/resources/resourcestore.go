// Package resourcestore manages catalog entries: create, read, update,
// delete, bulk ingestion, and the moderation workflow (moderation.go).
package resourcestore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/opencurio/resourcehub/internal/app/store/docstore"
	"github.com/opencurio/resourcehub/internal/app/system/apperr"
	"github.com/opencurio/resourcehub/internal/app/system/normalize"
	"github.com/opencurio/resourcehub/internal/app/system/timeouts"
	"github.com/opencurio/resourcehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collection = "resources"

type Store struct {
	docs     *docstore.Store
	sanitize *bluemonday.Policy
}

func New(docs *docstore.Store) *Store {
	// Strict policy: free-text fields are plain text, never markup.
	return &Store{docs: docs, sanitize: bluemonday.StrictPolicy()}
}

// Create inserts a new catalog entry. Every submission enters as pending
// regardless of what the caller set; only BulkCreate with trusted input may
// bypass moderation. Validation collects all violations in one pass so a
// client can fix its payload in a single round trip.
func (s *Store) Create(ctx context.Context, r models.Resource) (models.Resource, error) {
	s.canonicalize(&r)
	if violations := validate(&r); len(violations) > 0 {
		return models.Resource{}, apperr.Validation(violations...)
	}

	now := time.Now().UTC()
	r.ID = primitive.NewObjectID()
	r.Status = models.StatusPending
	r.AdminNotes = ""
	r.ApprovedBy, r.ApprovedAt = "", nil
	r.RejectedBy, r.RejectedAt = "", nil
	r.Version = 1
	r.CreatedAt = now
	r.UpdatedAt = now

	if _, err := s.docs.Insert(ctx, collection, r); err != nil {
		return models.Resource{}, err
	}
	return r, nil
}

// GetByID returns a resource by its id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Resource, error) {
	var r models.Resource
	if err := s.docs.Get(ctx, collection, id, &r); err != nil {
		return models.Resource{}, err
	}
	return r, nil
}

// UpdateFields carries a partial update. Nil pointers leave the stored value
// untouched; non-nil pointers overwrite, including overwriting with the zero
// value. Status, SubmittedBy, and timestamps are not updatable here; status
// only moves through the moderation workflow.
type UpdateFields struct {
	Title           *string
	URL             *string
	Description     *string
	Category        *string
	ResourceType    *string
	Tags            *[]string
	Author          *string
	PublicationDate **time.Time
	GitHubStars     **int
	DifficultyLevel *string
	Prerequisites   *[]string
}

// Update applies a partial update to a resource and returns the updated
// document. The content may change freely after approval without resetting
// the workflow state.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, mut UpdateFields) (models.Resource, error) {
	set := bson.M{}
	var violations []string

	if mut.Title != nil {
		title := normalize.Name(*mut.Title)
		if title == "" {
			violations = append(violations, "title cannot be empty")
		} else {
			set["title"] = title
			set["title_ci"] = text.Fold(title)
		}
	}
	if mut.URL != nil {
		u := strings.TrimSpace(*mut.URL)
		if !urlutil.IsValidAbsHTTPURL(u) {
			violations = append(violations, "url must be a valid http(s) URL")
		} else {
			set["url"] = u
		}
	}
	if mut.Description != nil {
		desc := s.sanitize.Sanitize(strings.TrimSpace(*mut.Description))
		if desc == "" {
			violations = append(violations, "description cannot be empty")
		} else {
			set["description"] = desc
		}
	}
	if mut.Category != nil {
		if !models.IsValidCategory(*mut.Category) {
			violations = append(violations, "category is not a known category")
		} else {
			set["category"] = *mut.Category
		}
	}
	if mut.ResourceType != nil {
		if !models.IsValidResourceType(*mut.ResourceType) {
			violations = append(violations, "resource_type is not a known resource type")
		} else {
			set["resource_type"] = *mut.ResourceType
		}
	}
	if mut.Tags != nil {
		set["tags"] = normalize.Tags(*mut.Tags)
	}
	if mut.Author != nil {
		set["author"] = normalize.Name(*mut.Author)
	}
	if mut.PublicationDate != nil {
		set["publication_date"] = *mut.PublicationDate
	}
	if mut.GitHubStars != nil {
		if v := *mut.GitHubStars; v != nil && *v < 0 {
			violations = append(violations, "github_stars cannot be negative")
		} else {
			set["github_stars"] = v
		}
	}
	if mut.DifficultyLevel != nil {
		d := *mut.DifficultyLevel
		if d != "" && !models.IsValidDifficulty(d) {
			violations = append(violations, "difficulty_level must be Beginner, Intermediate, or Advanced")
		} else {
			set["difficulty_level"] = d
		}
	}
	if mut.Prerequisites != nil {
		set["prerequisites"] = normalize.Tags(*mut.Prerequisites)
	}

	if len(violations) > 0 {
		return models.Resource{}, apperr.Validation(violations...)
	}
	if len(set) == 0 {
		return s.GetByID(ctx, id)
	}
	set["updated_at"] = time.Now().UTC()

	var updated models.Resource
	err := s.docs.UpdateMatching(ctx, collection,
		bson.M{"_id": id},
		bson.M{"$set": set, "$inc": bson.M{"version": 1}},
		&updated)
	if err != nil {
		return models.Resource{}, err
	}
	return updated, nil
}

// Delete removes a resource. Reports whether a document was deleted.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return s.docs.Delete(ctx, collection, id)
}

// GetByIDs returns the resources whose ids resolve, in no guaranteed order.
// Unknown ids are silently dropped.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Resource, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []models.Resource
	err := s.docs.Find(ctx, collection, bson.M{"_id": bson.M{"$in": ids}}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// BulkItem is the outcome of one element of a bulk ingestion.
type BulkItem struct {
	Index    int
	Resource models.Resource
	Err      error
}

// BulkResult summarizes a bulk ingestion. Elements are isolated: one bad
// entry never aborts the rest. BatchID tags every created document so an
// import can be traced or cleaned up afterwards.
type BulkResult struct {
	BatchID   string
	Succeeded []BulkItem
	Failed    []BulkItem
}

// BulkCreate ingests a batch of resources. Untrusted input is forced to
// pending like Create; trusted input (curated imports run by operators) may
// carry an approved status through. The whole batch runs under one
// ingestion deadline.
func (s *Store) BulkCreate(ctx context.Context, in []models.Resource, trusted bool) BulkResult {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Batch())
	defer cancel()

	res := BulkResult{BatchID: uuid.NewString()}
	for i, r := range in {
		r.BatchID = res.BatchID
		keepStatus := trusted && r.Status == models.StatusApproved
		created, err := s.Create(ctx, r)
		if err != nil {
			res.Failed = append(res.Failed, BulkItem{Index: i, Resource: r, Err: err})
			continue
		}
		if keepStatus {
			created, err = s.approveImported(ctx, created.ID)
			if err != nil {
				// The document exists but is stuck pending; report it so
				// the operator does not assume the import fully applied.
				res.Failed = append(res.Failed, BulkItem{Index: i, Resource: r,
					Err: fmt.Errorf("created as pending but approval failed: %w", err)})
				continue
			}
		}
		res.Succeeded = append(res.Succeeded, BulkItem{Index: i, Resource: created})
	}
	return res
}

// approveImported flips a just-created import entry to approved. The filter
// guards on pending like the moderation transitions do.
func (s *Store) approveImported(ctx context.Context, id primitive.ObjectID) (models.Resource, error) {
	var approved models.Resource
	err := s.docs.UpdateMatching(ctx, collection,
		bson.M{"_id": id, "status": models.StatusPending},
		bson.M{"$set": bson.M{"status": models.StatusApproved}, "$inc": bson.M{"version": 1}},
		&approved)
	if err != nil {
		return models.Resource{}, err
	}
	return approved, nil
}

// ListByStatus pages through resources in the given workflow state, oldest
// first so moderators work the queue in submission order.
func (s *Store) ListByStatus(ctx context.Context, status string, page, size int) ([]models.Resource, int64, error) {
	status = normalize.Status(status)
	if !models.IsValidStatus(status) {
		return nil, 0, apperr.Validationf("status must be pending, approved, or rejected")
	}
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}

	filter := bson.M{"status": status}
	total, err := s.docs.Count(ctx, collection, filter)
	if err != nil {
		return nil, 0, err
	}

	// _id breaks created_at ties so paging never repeats or skips entries.
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(int64((page - 1) * size)).
		SetLimit(int64(size))
	var out []models.Resource
	if err := s.docs.Find(ctx, collection, filter, &out, opts); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// canonicalize applies normalization and sanitization before validation so
// stored documents carry canonical forms.
func (s *Store) canonicalize(r *models.Resource) {
	r.Title = normalize.Name(r.Title)
	r.TitleCI = text.Fold(r.Title)
	r.URL = strings.TrimSpace(r.URL)
	r.Description = s.sanitize.Sanitize(strings.TrimSpace(r.Description))
	r.Tags = normalize.Tags(r.Tags)
	r.Author = normalize.Name(r.Author)
	r.Prerequisites = normalize.Tags(r.Prerequisites)
	r.SubmittedBy = normalize.Email(r.SubmittedBy)
}

// validate collects every violation instead of stopping at the first.
func validate(r *models.Resource) []string {
	var v []string
	if r.Title == "" {
		v = append(v, "title is required")
	}
	if r.URL == "" {
		v = append(v, "url is required")
	} else if !urlutil.IsValidAbsHTTPURL(r.URL) {
		v = append(v, "url must be a valid http(s) URL")
	}
	if r.Description == "" {
		v = append(v, "description is required")
	}
	if !models.IsValidCategory(r.Category) {
		v = append(v, "category is not a known category")
	}
	if !models.IsValidResourceType(r.ResourceType) {
		v = append(v, "resource_type is not a known resource type")
	}
	if r.DifficultyLevel != "" && !models.IsValidDifficulty(r.DifficultyLevel) {
		v = append(v, "difficulty_level must be Beginner, Intermediate, or Advanced")
	}
	if r.GitHubStars != nil && *r.GitHubStars < 0 {
		v = append(v, "github_stars cannot be negative")
	}
	return v
}
