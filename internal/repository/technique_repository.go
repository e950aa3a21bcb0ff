package repository

import (
	"context"
	"fmt"
	"time"

	"taccuino-server/internal/domain"

	"github.com/go-kivik/kivik/v4"
)

type TechniqueRepository interface {
	Create(technique *domain.Technique) error
	FindByID(id string) (*domain.Technique, error)
	ListByProcedure(procedureID string) ([]*domain.Technique, error)
	Update(technique *domain.Technique) error
	Delete(id string) error
}

type techniqueRepository struct {
	client *kivik.Client
	dbName string
}

func NewTechniqueRepository(client *kivik.Client, dbName string) TechniqueRepository {
	return &techniqueRepository{
		client: client,
		dbName: dbName,
	}
}

type techniqueDoc struct {
	Kind string `json:"kind"`
	*domain.Technique
}

func (r *techniqueRepository) Create(technique *domain.Technique) error {
	db := r.client.DB(r.dbName)

	docID := fmt.Sprintf("technique:%s", technique.ID)
	_, err := db.Put(context.Background(), docID, &techniqueDoc{Kind: "technique", Technique: technique})
	if err != nil {
		return fmt.Errorf("failed to create technique: %w", err)
	}

	return nil
}

func (r *techniqueRepository) FindByID(id string) (*domain.Technique, error) {
	db := r.client.DB(r.dbName)

	docID := fmt.Sprintf("technique:%s", id)
	row := db.Get(context.Background(), docID)

	var technique domain.Technique
	if err := row.ScanDoc(&technique); err != nil {
		return nil, fmt.Errorf("failed to find technique: %w", err)
	}

	return &technique, nil
}

func (r *techniqueRepository) ListByProcedure(procedureID string) ([]*domain.Technique, error) {
	db := r.client.DB(r.dbName)

	query := map[string]interface{}{
		"selector": map[string]interface{}{
			"kind":         "technique",
			"procedure_id": procedureID,
		},
	}

	rows := db.Find(context.Background(), query)
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list techniques: %w", err)
	}
	defer rows.Close()

	var techniques []*domain.Technique
	for rows.Next() {
		var technique domain.Technique
		if err := rows.ScanDoc(&technique); err != nil {
			continue
		}
		techniques = append(techniques, &technique)
	}

	return techniques, nil
}

func (r *techniqueRepository) Update(technique *domain.Technique) error {
	db := r.client.DB(r.dbName)
	docID := fmt.Sprintf("technique:%s", technique.ID)

	var existingDoc map[string]interface{}
	row := db.Get(context.Background(), docID)
	if err := row.ScanDoc(&existingDoc); err != nil {
		return fmt.Errorf("failed to fetch existing technique for update: %w", err)
	}

	existingDoc["name"] = technique.Name
	existingDoc["pre_operative"] = technique.PreOperative
	existingDoc["position"] = technique.Position
	existingDoc["access"] = technique.Access
	existingDoc["surgical_steps"] = technique.SurgicalSteps
	existingDoc["tips_and_tricks"] = technique.TipsAndTricks
	existingDoc["warnings"] = technique.Warnings
	existingDoc["post_operative"] = technique.PostOperative
	existingDoc["other"] = technique.Other
	existingDoc["updated_at"] = time.Now()

	_, err := db.Put(context.Background(), docID, existingDoc)
	if err != nil {
		return fmt.Errorf("failed to update technique: %w", err)
	}

	return nil
}

func (r *techniqueRepository) Delete(id string) error {
	db := r.client.DB(r.dbName)
	docID := fmt.Sprintf("technique:%s", id)

	var existingDoc map[string]interface{}
	row := db.Get(context.Background(), docID)
	if err := row.ScanDoc(&existingDoc); err != nil {
		return fmt.Errorf("failed to fetch technique for delete: %w", err)
	}

	rev, _ := existingDoc["_rev"].(string)
	if _, err := db.Delete(context.Background(), docID, rev); err != nil {
		return fmt.Errorf("failed to delete technique: %w", err)
	}

	return nil
}
