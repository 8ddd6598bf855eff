package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Resource workflow states. A resource enters the catalog as pending and is
// moved to approved or rejected exactly once by the moderation workflow.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// IsValidStatus reports whether s is one of the workflow states.
func IsValidStatus(s string) bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// Difficulty levels. The field is optional; when set it must be one of these.
const (
	DifficultyBeginner     = "Beginner"
	DifficultyIntermediate = "Intermediate"
	DifficultyAdvanced     = "Advanced"
)

// DifficultyLevels is the full set of allowed difficulty values.
var DifficultyLevels = []string{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced}

// IsValidDifficulty reports whether d is an allowed difficulty level.
func IsValidDifficulty(d string) bool {
	for _, v := range DifficultyLevels {
		if v == d {
			return true
		}
	}
	return false
}

// Resource is a single curated catalog entry for a learning artifact.
type Resource struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title   string             `bson:"title" json:"title"`
	TitleCI string             `bson:"title_ci" json:"-"` // lowercase, diacritics-stripped

	URL          string `bson:"url" json:"url"`
	Description  string `bson:"description" json:"description"`
	Category     string `bson:"category" json:"category"`
	ResourceType string `bson:"resource_type" json:"resource_type"`

	Tags            []string   `bson:"tags" json:"tags"`
	Author          string     `bson:"author,omitempty" json:"author,omitempty"`
	PublicationDate *time.Time `bson:"publication_date,omitempty" json:"publication_date,omitempty"`
	GitHubStars     *int       `bson:"github_stars,omitempty" json:"github_stars,omitempty"`
	DifficultyLevel string     `bson:"difficulty_level,omitempty" json:"difficulty_level,omitempty"`
	Prerequisites   []string   `bson:"prerequisites,omitempty" json:"prerequisites,omitempty"`

	SubmittedBy string `bson:"submitted_by,omitempty" json:"submitted_by,omitempty"`

	// BatchID groups entries that arrived in the same bulk import.
	BatchID string `bson:"batch_id,omitempty" json:"batch_id,omitempty"`

	Status     string     `bson:"status" json:"status"`
	AdminNotes string     `bson:"admin_notes,omitempty" json:"admin_notes,omitempty"`
	ApprovedBy string     `bson:"approved_by,omitempty" json:"approved_by,omitempty"`
	ApprovedAt *time.Time `bson:"approved_at,omitempty" json:"approved_at,omitempty"`
	RejectedBy string     `bson:"rejected_by,omitempty" json:"rejected_by,omitempty"`
	RejectedAt *time.Time `bson:"rejected_at,omitempty" json:"rejected_at,omitempty"`

	// Version is a monotonic counter incremented on every write. Conditional
	// updates compare it (or the status, for moderation) to detect lost races.
	Version int64 `bson:"version" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
