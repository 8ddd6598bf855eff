// Package userstore manages user accounts: registration, credential checks,
// profile reads and updates, and the admin listing.
package userstore

import (
	"context"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/opencurio/resourcehub/internal/app/store/docstore"
	"github.com/opencurio/resourcehub/internal/app/system/apperr"
	"github.com/opencurio/resourcehub/internal/app/system/auth"
	"github.com/opencurio/resourcehub/internal/app/system/normalize"
	"github.com/opencurio/resourcehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collection = "users"

type Store struct {
	docs       *docstore.Store
	bcryptCost int
}

func New(docs *docstore.Store, bcryptCost int) *Store {
	return &Store{docs: docs, bcryptCost: bcryptCost}
}

// Register creates an account. The email is stored normalized and is the
// unique login identifier; a taken email surfaces as ErrConflict (backed by
// the unique index, so concurrent registrations cannot both win). When the
// display name is blank it defaults to the email's local part.
func (s *Store) Register(ctx context.Context, email, password, name string) (models.User, error) {
	email = normalize.Email(email)
	name = normalize.Name(name)

	var violations []string
	if email == "" {
		violations = append(violations, "email is required")
	}
	if len(password) < 8 {
		violations = append(violations, "password must be at least 8 characters")
	}
	if len(violations) > 0 {
		return models.User{}, apperr.Validation(violations...)
	}
	if name == "" {
		name = normalize.EmailLocalPart(email)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return models.User{}, err
	}

	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		Email:        email,
		Name:         name,
		NameCI:       text.Fold(name),
		Role:         models.RoleUser,
		PasswordHash: hash,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := s.docs.Insert(ctx, collection, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, apperr.ErrConflict
		}
		return models.User{}, err
	}
	return u, nil
}

// Authenticate checks credentials and returns the account. Unknown email
// and wrong password both return ErrAuth; callers must not be able to probe
// which accounts exist.
func (s *Store) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	u, err := s.GetByEmail(ctx, normalize.Email(email))
	if err != nil {
		return models.User{}, apperr.ErrAuth
	}
	if !auth.VerifyPassword(u.PasswordHash, password) {
		return models.User{}, apperr.ErrAuth
	}
	return u, nil
}

// GetByID returns a user by id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var u models.User
	if err := s.docs.Get(ctx, collection, id, &u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// GetByEmail returns a user by normalized email.
func (s *Store) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := s.docs.FindOne(ctx, collection, bson.M{"email": normalize.Email(email)}, &u)
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

// ProfileFields carries a partial profile update. Email is immutable and
// the password hash is only written by credential flows; neither appears
// here.
type ProfileFields struct {
	Name *string
}

// UpdateProfile applies a partial profile update and returns the updated
// account.
func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, mut ProfileFields) (models.User, error) {
	set := bson.M{}
	if mut.Name != nil {
		name := normalize.Name(*mut.Name)
		if name == "" {
			return models.User{}, apperr.Validationf("name cannot be empty")
		}
		set["name"] = name
		set["name_ci"] = text.Fold(name)
	}
	if len(set) == 0 {
		return s.GetByID(ctx, id)
	}
	set["updated_at"] = time.Now().UTC()

	var updated models.User
	err := s.docs.UpdateMatching(ctx, collection,
		bson.M{"_id": id},
		bson.M{"$set": set, "$inc": bson.M{"version": 1}},
		&updated)
	if err != nil {
		return models.User{}, err
	}
	return updated, nil
}

// SetRole changes an account's role. Admin-only at the handler layer.
func (s *Store) SetRole(ctx context.Context, id primitive.ObjectID, role string) (models.User, error) {
	role = normalize.Role(role)
	if !models.IsValidRole(role) {
		return models.User{}, apperr.Validationf("role must be user or admin")
	}
	var updated models.User
	err := s.docs.UpdateMatching(ctx, collection,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"role": role, "updated_at": time.Now().UTC()}, "$inc": bson.M{"version": 1}},
		&updated)
	if err != nil {
		return models.User{}, err
	}
	return updated, nil
}

// List pages through accounts, optionally filtered by role, newest first.
func (s *Store) List(ctx context.Context, role string, page, size int) ([]models.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}

	filter := bson.M{}
	if role = normalize.Role(role); role != "" {
		if !models.IsValidRole(role) {
			return nil, 0, apperr.Validationf("role must be user or admin")
		}
		filter["role"] = role
	}

	total, err := s.docs.Count(ctx, collection, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * size)).
		SetLimit(int64(size))
	var out []models.User
	if err := s.docs.Find(ctx, collection, filter, &out, opts); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
