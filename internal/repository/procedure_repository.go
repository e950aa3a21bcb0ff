package repository

import (
	"context"
	"fmt"
	"time"

	"taccuino-server/internal/domain"

	"github.com/go-kivik/kivik/v4"
)

type ProcedureRepository interface {
	Create(procedure *domain.Procedure) error
	FindByID(id string) (*domain.Procedure, error)
	ListByOwner(userID string) ([]*domain.Procedure, error)
	Update(procedure *domain.Procedure) error
	Delete(id string) error
}

type procedureRepository struct {
	client *kivik.Client
	dbName string
}

func NewProcedureRepository(client *kivik.Client, dbName string) ProcedureRepository {
	return &procedureRepository{
		client: client,
		dbName: dbName,
	}
}

type procedureDoc struct {
	Kind string `json:"kind"`
	*domain.Procedure
}

func (r *procedureRepository) Create(procedure *domain.Procedure) error {
	db := r.client.DB(r.dbName)

	docID := fmt.Sprintf("procedure:%s", procedure.ID)
	_, err := db.Put(context.Background(), docID, &procedureDoc{Kind: "procedure", Procedure: procedure})
	if err != nil {
		return fmt.Errorf("failed to create procedure: %w", err)
	}

	return nil
}

func (r *procedureRepository) FindByID(id string) (*domain.Procedure, error) {
	db := r.client.DB(r.dbName)

	docID := fmt.Sprintf("procedure:%s", id)
	row := db.Get(context.Background(), docID)

	var procedure domain.Procedure
	if err := row.ScanDoc(&procedure); err != nil {
		return nil, fmt.Errorf("failed to find procedure: %w", err)
	}

	return &procedure, nil
}

func (r *procedureRepository) ListByOwner(userID string) ([]*domain.Procedure, error) {
	db := r.client.DB(r.dbName)

	query := map[string]interface{}{
		"selector": map[string]interface{}{
			"kind":    "procedure",
			"user_id": userID,
		},
	}

	rows := db.Find(context.Background(), query)
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list procedures: %w", err)
	}
	defer rows.Close()

	var procedures []*domain.Procedure
	for rows.Next() {
		var procedure domain.Procedure
		if err := rows.ScanDoc(&procedure); err != nil {
			continue
		}
		procedures = append(procedures, &procedure)
	}

	return procedures, nil
}

func (r *procedureRepository) Update(procedure *domain.Procedure) error {
	db := r.client.DB(r.dbName)
	docID := fmt.Sprintf("procedure:%s", procedure.ID)

	var existingDoc map[string]interface{}
	row := db.Get(context.Background(), docID)
	if err := row.ScanDoc(&existingDoc); err != nil {
		return fmt.Errorf("failed to fetch existing procedure for update: %w", err)
	}

	existingDoc["name"] = procedure.Name
	existingDoc["updated_at"] = time.Now()

	_, err := db.Put(context.Background(), docID, existingDoc)
	if err != nil {
		return fmt.Errorf("failed to update procedure: %w", err)
	}

	return nil
}

func (r *procedureRepository) Delete(id string) error {
	db := r.client.DB(r.dbName)
	docID := fmt.Sprintf("procedure:%s", id)

	var existingDoc map[string]interface{}
	row := db.Get(context.Background(), docID)
	if err := row.ScanDoc(&existingDoc); err != nil {
		return fmt.Errorf("failed to fetch procedure for delete: %w", err)
	}

	rev, _ := existingDoc["_rev"].(string)
	if _, err := db.Delete(context.Background(), docID, rev); err != nil {
		return fmt.Errorf("failed to delete procedure: %w", err)
	}

	return nil
}
