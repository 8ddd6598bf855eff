package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// IsValidRole reports whether r is a known role.
func IsValidRole(r string) bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents an account.
//
// Email is the natural key for login, stored normalized (lowercased and
// trimmed) and immutable after creation. PasswordHash is never serialized
// into any outward-facing representation.
type User struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email  string             `bson:"email" json:"email"`
	Name   string             `bson:"name" json:"name"`
	NameCI string             `bson:"name_ci" json:"-"` // lowercase, diacritics-stripped
	Role   string             `bson:"role" json:"role"`

	PasswordHash string `bson:"password_hash" json:"-"`

	// Bookmarks is the ordered set of resource ids this user saved.
	// Duplicates are forbidden; the bookmark store enforces that under a
	// version-guarded update.
	Bookmarks []primitive.ObjectID `bson:"bookmarks" json:"bookmarks"`

	// Version is incremented on every write; bookmark mutations are
	// conditional on it to avoid losing concurrent updates.
	Version int64 `bson:"version" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
