package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/google/uuid"
	"github.com/opencurio/resourcehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// UniqueEmail returns an email address that will not collide across tests
// sharing a database.
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%s@test.example", prefix, uuid.NewString()[:8])
}

// CreateResource creates a pending resource with sensible defaults.
func (f *Fixtures) CreateResource(ctx context.Context, title string) models.Resource {
	f.t.Helper()
	return f.CreateResourceWithStatus(ctx, title, models.StatusPending)
}

// CreateApprovedResource creates a resource already in the approved state,
// visible to default searches.
func (f *Fixtures) CreateApprovedResource(ctx context.Context, title string) models.Resource {
	f.t.Helper()
	return f.CreateResourceWithStatus(ctx, title, models.StatusApproved)
}

// CreateResourceWithStatus creates a resource in the given workflow state.
func (f *Fixtures) CreateResourceWithStatus(ctx context.Context, title, status string) models.Resource {
	f.t.Helper()

	now := time.Now().UTC()
	res := models.Resource{
		ID:           primitive.NewObjectID(),
		Title:        title,
		TitleCI:      text.Fold(title),
		URL:          fmt.Sprintf("https://example.com/%s", uuid.NewString()[:8]),
		Description:  "Test resource description",
		Category:     models.CategoryMachineLearning,
		ResourceType: models.ResourceTypeTutorial,
		Tags:         []string{"test"},
		Author:       "Test Author",
		SubmittedBy:  "submitter@test.example",
		Status:       status,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := f.db.Collection("resources").InsertOne(ctx, res); err != nil {
		f.t.Fatalf("failed to create test resource: %v", err)
	}
	return res
}

// CreateDetailedResource creates an approved resource with the given
// category, type, tags, and author, for search and facet tests.
func (f *Fixtures) CreateDetailedResource(ctx context.Context, title, category, resourceType string, tags []string, author string) models.Resource {
	f.t.Helper()

	now := time.Now().UTC()
	res := models.Resource{
		ID:           primitive.NewObjectID(),
		Title:        title,
		TitleCI:      text.Fold(title),
		URL:          fmt.Sprintf("https://example.com/%s", uuid.NewString()[:8]),
		Description:  "Test resource description",
		Category:     category,
		ResourceType: resourceType,
		Tags:         tags,
		Author:       author,
		SubmittedBy:  "submitter@test.example",
		Status:       models.StatusApproved,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := f.db.Collection("resources").InsertOne(ctx, res); err != nil {
		f.t.Fatalf("failed to create test resource: %v", err)
	}
	return res
}

// CreateUser creates a test user with the given role. The email is
// normalized the way the user store would store it.
func (f *Fixtures) CreateUser(ctx context.Context, name, email, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:           primitive.NewObjectID(),
		Email:        email,
		Name:         name,
		NameCI:       text.Fold(name),
		Role:         role,
		PasswordHash: "$2a$10$testhashnotusableforlogin0000000000000000000000000000",
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateAdmin creates a test admin user.
func (f *Fixtures) CreateAdmin(ctx context.Context, name, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, name, email, models.RoleAdmin)
}
