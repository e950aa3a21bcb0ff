package repository

import (
	"context"
	"fmt"
	"time"

	"taccuino-server/internal/domain"

	"github.com/go-kivik/kivik/v4"
)

// NoteRepository stores pathology notes. Count and LatestByPathology are the
// two reads the aggregate maintainer issues after every note mutation.
type NoteRepository interface {
	Create(note *domain.PathologyNote) error
	FindByID(id string) (*domain.PathologyNote, error)
	ListByPathology(pathologyID string) ([]*domain.PathologyNote, error)
	CountByPathology(pathologyID string) (int, error)
	LatestByPathology(pathologyID string) (*domain.PathologyNote, error)
	Update(note *domain.PathologyNote) error
	Delete(id string) error
}

type noteRepository struct {
	client *kivik.Client
	dbName string
}

func NewNoteRepository(client *kivik.Client, dbName string) NoteRepository {
	return &noteRepository{
		client: client,
		dbName: dbName,
	}
}

type noteDoc struct {
	Kind string `json:"kind"`
	*domain.PathologyNote
}

func (r *noteRepository) Create(note *domain.PathologyNote) error {
	db := r.client.DB(r.dbName)

	docID := fmt.Sprintf("pathology_note:%s", note.ID)
	_, err := db.Put(context.Background(), docID, &noteDoc{Kind: "pathology_note", PathologyNote: note})
	if err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}

	return nil
}

func (r *noteRepository) FindByID(id string) (*domain.PathologyNote, error) {
	db := r.client.DB(r.dbName)

	docID := fmt.Sprintf("pathology_note:%s", id)
	row := db.Get(context.Background(), docID)

	var note domain.PathologyNote
	if err := row.ScanDoc(&note); err != nil {
		return nil, fmt.Errorf("failed to find note: %w", err)
	}

	return &note, nil
}

func (r *noteRepository) ListByPathology(pathologyID string) ([]*domain.PathologyNote, error) {
	db := r.client.DB(r.dbName)

	query := map[string]interface{}{
		"selector": map[string]interface{}{
			"kind":         "pathology_note",
			"pathology_id": pathologyID,
		},
	}

	rows := db.Find(context.Background(), query)
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	var notes []*domain.PathologyNote
	for rows.Next() {
		var note domain.PathologyNote
		if err := rows.ScanDoc(&note); err != nil {
			continue
		}
		notes = append(notes, &note)
	}

	return notes, nil
}

func (r *noteRepository) CountByPathology(pathologyID string) (int, error) {
	db := r.client.DB(r.dbName)

	query := map[string]interface{}{
		"selector": map[string]interface{}{
			"kind":         "pathology_note",
			"pathology_id": pathologyID,
		},
		"fields": []string{"_id"},
	}

	rows := db.Find(context.Background(), query)
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("failed to count notes: %w", err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		count++
	}

	return count, nil
}

// LatestByPathology returns the note with the greatest updated_at, or nil
// when the pathology has no notes. Relies on the (kind, pathology_id,
// updated_at) Mango index created at startup.
func (r *noteRepository) LatestByPathology(pathologyID string) (*domain.PathologyNote, error) {
	db := r.client.DB(r.dbName)

	query := map[string]interface{}{
		"selector": map[string]interface{}{
			"kind":         "pathology_note",
			"pathology_id": pathologyID,
		},
		"sort":  []map[string]string{{"updated_at": "desc"}},
		"limit": 1,
	}

	rows := db.Find(context.Background(), query)
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to query latest note: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, nil
	}

	var note domain.PathologyNote
	if err := rows.ScanDoc(&note); err != nil {
		return nil, fmt.Errorf("failed to scan latest note: %w", err)
	}

	return &note, nil
}

func (r *noteRepository) Update(note *domain.PathologyNote) error {
	db := r.client.DB(r.dbName)
	docID := fmt.Sprintf("pathology_note:%s", note.ID)

	var existingDoc map[string]interface{}
	row := db.Get(context.Background(), docID)
	if err := row.ScanDoc(&existingDoc); err != nil {
		return fmt.Errorf("failed to fetch existing note for update: %w", err)
	}

	existingDoc["title"] = note.Title
	existingDoc["body"] = note.Body
	existingDoc["updated_at"] = time.Now()

	_, err := db.Put(context.Background(), docID, existingDoc)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}

	return nil
}

func (r *noteRepository) Delete(id string) error {
	db := r.client.DB(r.dbName)
	docID := fmt.Sprintf("pathology_note:%s", id)

	var existingDoc map[string]interface{}
	row := db.Get(context.Background(), docID)
	if err := row.ScanDoc(&existingDoc); err != nil {
		return fmt.Errorf("failed to fetch note for delete: %w", err)
	}

	rev, _ := existingDoc["_rev"].(string)
	if _, err := db.Delete(context.Background(), docID, rev); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	return nil
}
