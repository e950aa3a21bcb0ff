package repository

import (
	"context"
	"fmt"
	"time"

	"taccuino-server/internal/domain"

	"github.com/go-kivik/kivik/v4"
)

type PathologyRepository interface {
	Create(pathology *domain.Pathology) error
	FindByID(id string) (*domain.Pathology, error)
	ListByOwner(userID string) ([]*domain.Pathology, error)
	Update(pathology *domain.Pathology) error
	UpdateSummary(id string, noteCount int, lastNote *domain.NoteSummary) error
	Delete(id string) error
}

type pathologyRepository struct {
	client *kivik.Client
	dbName string
}

func NewPathologyRepository(client *kivik.Client, dbName string) PathologyRepository {
	return &pathologyRepository{
		client: client,
		dbName: dbName,
	}
}

// pathologyDoc adds the CouchDB kind discriminator without leaking it into
// the domain type.
type pathologyDoc struct {
	Kind string `json:"kind"`
	*domain.Pathology
}

func (r *pathologyRepository) Create(pathology *domain.Pathology) error {
	db := r.client.DB(r.dbName)

	docID := fmt.Sprintf("pathology:%s", pathology.ID)
	_, err := db.Put(context.Background(), docID, &pathologyDoc{Kind: "pathology", Pathology: pathology})
	if err != nil {
		return fmt.Errorf("failed to create pathology: %w", err)
	}

	return nil
}

func (r *pathologyRepository) FindByID(id string) (*domain.Pathology, error) {
	db := r.client.DB(r.dbName)

	docID := fmt.Sprintf("pathology:%s", id)
	row := db.Get(context.Background(), docID)

	var pathology domain.Pathology
	if err := row.ScanDoc(&pathology); err != nil {
		return nil, fmt.Errorf("failed to find pathology: %w", err)
	}

	return &pathology, nil
}

func (r *pathologyRepository) ListByOwner(userID string) ([]*domain.Pathology, error) {
	db := r.client.DB(r.dbName)

	query := map[string]interface{}{
		"selector": map[string]interface{}{
			"kind":    "pathology",
			"user_id": userID,
		},
	}

	rows := db.Find(context.Background(), query)
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list pathologies: %w", err)
	}
	defer rows.Close()

	var pathologies []*domain.Pathology
	for rows.Next() {
		var pathology domain.Pathology
		if err := rows.ScanDoc(&pathology); err != nil {
			continue
		}
		pathologies = append(pathologies, &pathology)
	}

	return pathologies, nil
}

func (r *pathologyRepository) Update(pathology *domain.Pathology) error {
	db := r.client.DB(r.dbName)
	docID := fmt.Sprintf("pathology:%s", pathology.ID)

	var existingDoc map[string]interface{}
	row := db.Get(context.Background(), docID)
	if err := row.ScanDoc(&existingDoc); err != nil {
		return fmt.Errorf("failed to fetch existing pathology for update: %w", err)
	}

	existingDoc["name"] = pathology.Name
	existingDoc["updated_at"] = time.Now()

	_, err := db.Put(context.Background(), docID, existingDoc)
	if err != nil {
		return fmt.Errorf("failed to update pathology: %w", err)
	}

	return nil
}

// UpdateSummary overwrites the denormalized aggregate fields. The write is a
// plain last-writer-wins put: concurrent refreshes for the same pathology can
// race here, and the later one sticks. CouchDB offers no multi-document
// transaction to close that window.
func (r *pathologyRepository) UpdateSummary(id string, noteCount int, lastNote *domain.NoteSummary) error {
	db := r.client.DB(r.dbName)
	docID := fmt.Sprintf("pathology:%s", id)

	var existingDoc map[string]interface{}
	row := db.Get(context.Background(), docID)
	if err := row.ScanDoc(&existingDoc); err != nil {
		return fmt.Errorf("failed to fetch pathology for summary update: %w", err)
	}

	existingDoc["note_count"] = noteCount
	if lastNote != nil {
		existingDoc["last_note"] = lastNote
	} else {
		existingDoc["last_note"] = nil
	}
	existingDoc["updated_at"] = time.Now()

	_, err := db.Put(context.Background(), docID, existingDoc)
	if err != nil {
		return fmt.Errorf("failed to update pathology summary: %w", err)
	}

	return nil
}

func (r *pathologyRepository) Delete(id string) error {
	db := r.client.DB(r.dbName)
	docID := fmt.Sprintf("pathology:%s", id)

	var existingDoc map[string]interface{}
	row := db.Get(context.Background(), docID)
	if err := row.ScanDoc(&existingDoc); err != nil {
		return fmt.Errorf("failed to fetch pathology for delete: %w", err)
	}

	rev, _ := existingDoc["_rev"].(string)
	if _, err := db.Delete(context.Background(), docID, rev); err != nil {
		return fmt.Errorf("failed to delete pathology: %w", err)
	}

	return nil
}
