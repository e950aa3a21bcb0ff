package repository

import (
	"context"
	"fmt"

	"taccuino-server/internal/domain"

	"github.com/go-kivik/kivik/v4"
)

type PatientRepository interface {
	Create(patient *domain.Patient) error
	FindByID(id string) (*domain.Patient, error)
	ListByOwner(userID string) ([]*domain.Patient, error)
	Update(patient *domain.Patient) error
	Delete(id string) error
}

type patientRepository struct {
	client *kivik.Client
	dbName string
}

func NewPatientRepository(client *kivik.Client, dbName string) PatientRepository {
	return &patientRepository{
		client: client,
		dbName: dbName,
	}
}

type patientDoc struct {
	Kind string `json:"kind"`
	*domain.Patient
}

func (r *patientRepository) Create(patient *domain.Patient) error {
	db := r.client.DB(r.dbName)

	docID := fmt.Sprintf("patient:%s", patient.ID)
	_, err := db.Put(context.Background(), docID, &patientDoc{Kind: "patient", Patient: patient})
	if err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}

	return nil
}

func (r *patientRepository) FindByID(id string) (*domain.Patient, error) {
	db := r.client.DB(r.dbName)

	docID := fmt.Sprintf("patient:%s", id)
	row := db.Get(context.Background(), docID)

	var patient domain.Patient
	if err := row.ScanDoc(&patient); err != nil {
		return nil, fmt.Errorf("failed to find patient: %w", err)
	}

	return &patient, nil
}

func (r *patientRepository) ListByOwner(userID string) ([]*domain.Patient, error) {
	db := r.client.DB(r.dbName)

	query := map[string]interface{}{
		"selector": map[string]interface{}{
			"kind":    "patient",
			"user_id": userID,
		},
	}

	rows := db.Find(context.Background(), query)
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	defer rows.Close()

	var patients []*domain.Patient
	for rows.Next() {
		var patient domain.Patient
		if err := rows.ScanDoc(&patient); err != nil {
			continue
		}
		patients = append(patients, &patient)
	}

	return patients, nil
}

// Update rewrites the whole document from the domain record. Optional fields
// cleared by the caller (empty strings, dropped pending reason) disappear
// from the stored doc because of omitempty, matching the original
// delete-field semantics.
func (r *patientRepository) Update(patient *domain.Patient) error {
	db := r.client.DB(r.dbName)
	docID := fmt.Sprintf("patient:%s", patient.ID)

	var existingDoc map[string]interface{}
	row := db.Get(context.Background(), docID)
	if err := row.ScanDoc(&existingDoc); err != nil {
		return fmt.Errorf("failed to fetch existing patient for update: %w", err)
	}

	doc := &patientDoc{Kind: "patient", Patient: patient}
	rev, _ := existingDoc["_rev"].(string)

	_, err := db.Put(context.Background(), docID, doc, kivik.Rev(rev))
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}

	return nil
}

func (r *patientRepository) Delete(id string) error {
	db := r.client.DB(r.dbName)
	docID := fmt.Sprintf("patient:%s", id)

	var existingDoc map[string]interface{}
	row := db.Get(context.Background(), docID)
	if err := row.ScanDoc(&existingDoc); err != nil {
		return fmt.Errorf("failed to fetch patient for delete: %w", err)
	}

	rev, _ := existingDoc["_rev"].(string)
	if _, err := db.Delete(context.Background(), docID, rev); err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}

	return nil
}
