package repository

import (
	"context"
	"fmt"
	"time"

	"taccuino-server/internal/domain"

	"github.com/go-kivik/kivik/v4"
)

// UserRepository stores display profiles keyed by the external identity
// provider's user ID.
type UserRepository interface {
	Create(profile *domain.UserProfile) error
	FindByID(userID string) (*domain.UserProfile, error)
	Update(profile *domain.UserProfile) error
}

type userRepository struct {
	client *kivik.Client
	dbName string
}

func NewUserRepository(client *kivik.Client, dbName string) UserRepository {
	return &userRepository{
		client: client,
		dbName: dbName,
	}
}

type profileDoc struct {
	Kind string `json:"kind"`
	*domain.UserProfile
}

func (r *userRepository) Create(profile *domain.UserProfile) error {
	db := r.client.DB(r.dbName)

	docID := fmt.Sprintf("profile:%s", profile.UserID)
	_, err := db.Put(context.Background(), docID, &profileDoc{Kind: "profile", UserProfile: profile})
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}

	return nil
}

func (r *userRepository) FindByID(userID string) (*domain.UserProfile, error) {
	db := r.client.DB(r.dbName)

	docID := fmt.Sprintf("profile:%s", userID)
	row := db.Get(context.Background(), docID)

	var profile domain.UserProfile
	if err := row.ScanDoc(&profile); err != nil {
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}

	return &profile, nil
}

func (r *userRepository) Update(profile *domain.UserProfile) error {
	db := r.client.DB(r.dbName)
	docID := fmt.Sprintf("profile:%s", profile.UserID)

	var existingDoc map[string]interface{}
	row := db.Get(context.Background(), docID)
	if err := row.ScanDoc(&existingDoc); err != nil {
		return fmt.Errorf("failed to fetch existing profile for update: %w", err)
	}

	existingDoc["first_name"] = profile.FirstName
	existingDoc["last_name"] = profile.LastName
	existingDoc["updated_at"] = time.Now()

	_, err := db.Put(context.Background(), docID, existingDoc)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	return nil
}
