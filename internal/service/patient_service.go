package service

import (
	"time"

	"taccuino-server/internal/domain"
	"taccuino-server/internal/events"
	"taccuino-server/internal/repository"

	"github.com/google/uuid"
)

type PatientService struct {
	repo repository.PatientRepository
	bus  *events.Bus
}

func NewPatientService(repo repository.PatientRepository, bus *events.Bus) *PatientService {
	return &PatientService{
		repo: repo,
		bus:  bus,
	}
}

func (s *PatientService) Create(userID string, payload *domain.PatientPayload) (*domain.PatientResponse, error) {
	now := time.Now()
	patient := &domain.Patient{
		ID:        uuid.New().String(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyPayload(patient, payload)

	if err := s.repo.Create(patient); err != nil {
		return nil, err
	}

	resp := patientToResponse(patient)
	s.publish(events.OpChanged, patient.ID, userID, resp)

	return resp, nil
}

func (s *PatientService) List(userID string) ([]*domain.PatientResponse, error) {
	patients, err := s.repo.ListByOwner(userID)
	if err != nil {
		return nil, err
	}

	responses := make([]*domain.PatientResponse, len(patients))
	for i, p := range patients {
		responses[i] = patientToResponse(p)
	}

	return responses, nil
}

func (s *PatientService) Get(userID, patientID string) (*domain.PatientResponse, error) {
	patient, err := s.owned(userID, patientID)
	if err != nil {
		return nil, err
	}

	return patientToResponse(patient), nil
}

func (s *PatientService) Update(userID, patientID string, payload *domain.PatientPayload) (*domain.PatientResponse, error) {
	patient, err := s.owned(userID, patientID)
	if err != nil {
		return nil, err
	}

	applyPayload(patient, payload)
	patient.UpdatedAt = time.Now()

	if err := s.repo.Update(patient); err != nil {
		return nil, err
	}

	resp := patientToResponse(patient)
	s.publish(events.OpChanged, patient.ID, userID, resp)

	return resp, nil
}

func (s *PatientService) Delete(userID, patientID string) error {
	if _, err := s.owned(userID, patientID); err != nil {
		return err
	}

	if err := s.repo.Delete(patientID); err != nil {
		return err
	}

	s.publish(events.OpDeleted, patientID, userID, nil)

	return nil
}

func (s *PatientService) owned(userID, patientID string) (*domain.Patient, error) {
	patient, err := s.repo.FindByID(patientID)
	if err != nil {
		return nil, ErrNotFound
	}
	if patient.UserID != userID {
		return nil, ErrNotFound
	}
	return patient, nil
}

func (s *PatientService) publish(op events.Operation, id, userID string, data interface{}) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(events.Event{
		Operation: op,
		Record:    events.RecordPatient,
		RecordID:  id,
		UserID:    userID,
		Data:      data,
	})
}

func applyPayload(p *domain.Patient, payload *domain.PatientPayload) {
	p.Name = payload.Name
	p.Diagnosis = payload.Diagnosis
	p.Procedure = payload.Procedure
	p.ProcedureDate = payload.ProcedureDate
	p.Operators = payload.Operators
	p.PastHistory = payload.PastHistory
	p.PresentHistory = payload.PresentHistory
	p.Notes = payload.Notes
	p.Pending = payload.Pending
	p.PendingReason = payload.PendingReason
	p.FollowUpDate = payload.FollowUpDate
}

func patientToResponse(p *domain.Patient) *domain.PatientResponse {
	return &domain.PatientResponse{
		ID:             p.ID,
		Name:           p.Name,
		Diagnosis:      p.Diagnosis,
		Procedure:      p.Procedure,
		ProcedureDate:  p.ProcedureDate,
		Operators:      p.Operators,
		PastHistory:    p.PastHistory,
		PresentHistory: p.PresentHistory,
		Notes:          p.Notes,
		Pending:        p.Pending,
		PendingReason:  p.PendingReason,
		FollowUpDate:   p.FollowUpDate,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
