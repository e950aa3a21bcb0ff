package service

import (
	"sync"
	"time"

	"taccuino-server/internal/domain"
	"taccuino-server/internal/events"
	"taccuino-server/internal/repository"

	"github.com/google/uuid"
)

// ProcedureService owns procedures and their technique subcollection. A
// procedure is never created empty: the first technique arrives in the same
// request.
type ProcedureService struct {
	repo          repository.ProcedureRepository
	techniqueRepo repository.TechniqueRepository
	bus           *events.Bus
}

func NewProcedureService(
	repo repository.ProcedureRepository,
	techniqueRepo repository.TechniqueRepository,
	bus *events.Bus,
) *ProcedureService {
	return &ProcedureService{
		repo:          repo,
		techniqueRepo: techniqueRepo,
		bus:           bus,
	}
}

func (s *ProcedureService) Create(userID string, req *domain.CreateProcedureRequest) (*domain.ProcedureResponse, error) {
	now := time.Now()
	procedure := &domain.Procedure{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      req.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(procedure); err != nil {
		return nil, err
	}

	technique := techniqueFromInput(procedure.ID, &req.Technique, now)
	if err := s.techniqueRepo.Create(technique); err != nil {
		return nil, err
	}

	resp := procedureToResponse(procedure)
	s.publish(events.OpChanged, events.RecordProcedure, procedure.ID, "", userID, resp)

	return resp, nil
}

func (s *ProcedureService) List(userID string) ([]*domain.ProcedureResponse, error) {
	procedures, err := s.repo.ListByOwner(userID)
	if err != nil {
		return nil, err
	}

	responses := make([]*domain.ProcedureResponse, len(procedures))
	for i, p := range procedures {
		responses[i] = procedureToResponse(p)
	}

	return responses, nil
}

func (s *ProcedureService) Get(userID, procedureID string) (*domain.ProcedureResponse, error) {
	procedure, err := s.owned(userID, procedureID)
	if err != nil {
		return nil, err
	}

	return procedureToResponse(procedure), nil
}

func (s *ProcedureService) Update(userID, procedureID string, req *domain.UpdateProcedureRequest) (*domain.ProcedureResponse, error) {
	procedure, err := s.owned(userID, procedureID)
	if err != nil {
		return nil, err
	}

	procedure.Name = req.Name
	procedure.UpdatedAt = time.Now()

	if err := s.repo.Update(procedure); err != nil {
		return nil, err
	}

	resp := procedureToResponse(procedure)
	s.publish(events.OpChanged, events.RecordProcedure, procedure.ID, "", userID, resp)

	return resp, nil
}

// Delete cascades over techniques with the same abort-before-parent rule as
// pathology deletion.
func (s *ProcedureService) Delete(userID, procedureID string) error {
	if _, err := s.owned(userID, procedureID); err != nil {
		return err
	}

	techniques, err := s.techniqueRepo.ListByProcedure(procedureID)
	if err != nil {
		return err
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failed   int
		firstErr error
	)

	for _, technique := range techniques {
		wg.Add(1)
		go func(techniqueID string) {
			defer wg.Done()
			if err := s.techniqueRepo.Delete(techniqueID); err != nil {
				mu.Lock()
				failed++
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}(technique.ID)
	}
	wg.Wait()

	if failed > 0 {
		return &CascadeError{ParentID: procedureID, Failed: failed, Err: firstErr}
	}

	if err := s.repo.Delete(procedureID); err != nil {
		return err
	}

	s.publish(events.OpDeleted, events.RecordProcedure, procedureID, "", userID, nil)

	return nil
}

func (s *ProcedureService) CreateTechnique(userID, procedureID string, req *domain.TechniqueInput) (*domain.TechniqueResponse, error) {
	if _, err := s.owned(userID, procedureID); err != nil {
		return nil, err
	}

	technique := techniqueFromInput(procedureID, req, time.Now())
	if err := s.techniqueRepo.Create(technique); err != nil {
		return nil, err
	}

	resp := techniqueToResponse(technique)
	s.publish(events.OpChanged, events.RecordTechnique, technique.ID, procedureID, userID, resp)

	return resp, nil
}

func (s *ProcedureService) ListTechniques(userID, procedureID string) ([]*domain.TechniqueResponse, error) {
	if _, err := s.owned(userID, procedureID); err != nil {
		return nil, err
	}

	techniques, err := s.techniqueRepo.ListByProcedure(procedureID)
	if err != nil {
		return nil, err
	}

	responses := make([]*domain.TechniqueResponse, len(techniques))
	for i, t := range techniques {
		responses[i] = techniqueToResponse(t)
	}

	return responses, nil
}

func (s *ProcedureService) UpdateTechnique(userID, procedureID, techniqueID string, req *domain.TechniqueInput) (*domain.TechniqueResponse, error) {
	if _, err := s.owned(userID, procedureID); err != nil {
		return nil, err
	}

	technique, err := s.techniqueRepo.FindByID(techniqueID)
	if err != nil {
		return nil, ErrNotFound
	}
	if technique.ProcedureID != procedureID {
		return nil, ErrNotFound
	}

	technique.Name = req.Name
	technique.PreOperative = req.PreOperative
	technique.Position = req.Position
	technique.Access = req.Access
	technique.SurgicalSteps = req.SurgicalSteps
	technique.TipsAndTricks = req.TipsAndTricks
	technique.Warnings = req.Warnings
	technique.PostOperative = req.PostOperative
	technique.Other = req.Other
	technique.UpdatedAt = time.Now()

	if err := s.techniqueRepo.Update(technique); err != nil {
		return nil, err
	}

	resp := techniqueToResponse(technique)
	s.publish(events.OpChanged, events.RecordTechnique, technique.ID, procedureID, userID, resp)

	return resp, nil
}

func (s *ProcedureService) DeleteTechnique(userID, procedureID, techniqueID string) error {
	if _, err := s.owned(userID, procedureID); err != nil {
		return err
	}

	technique, err := s.techniqueRepo.FindByID(techniqueID)
	if err != nil {
		return ErrNotFound
	}
	if technique.ProcedureID != procedureID {
		return ErrNotFound
	}

	if err := s.techniqueRepo.Delete(techniqueID); err != nil {
		return err
	}

	s.publish(events.OpDeleted, events.RecordTechnique, techniqueID, procedureID, userID, nil)

	return nil
}

func (s *ProcedureService) owned(userID, procedureID string) (*domain.Procedure, error) {
	procedure, err := s.repo.FindByID(procedureID)
	if err != nil {
		return nil, ErrNotFound
	}
	if procedure.UserID != userID {
		return nil, ErrNotFound
	}
	return procedure, nil
}

func (s *ProcedureService) publish(op events.Operation, record events.RecordType, id, parentID, userID string, data interface{}) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(events.Event{
		Operation: op,
		Record:    record,
		RecordID:  id,
		ParentID:  parentID,
		UserID:    userID,
		Data:      data,
	})
}

func techniqueFromInput(procedureID string, in *domain.TechniqueInput, now time.Time) *domain.Technique {
	return &domain.Technique{
		ID:            uuid.New().String(),
		ProcedureID:   procedureID,
		Name:          in.Name,
		PreOperative:  in.PreOperative,
		Position:      in.Position,
		Access:        in.Access,
		SurgicalSteps: in.SurgicalSteps,
		TipsAndTricks: in.TipsAndTricks,
		Warnings:      in.Warnings,
		PostOperative: in.PostOperative,
		Other:         in.Other,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func procedureToResponse(p *domain.Procedure) *domain.ProcedureResponse {
	return &domain.ProcedureResponse{
		ID:        p.ID,
		Name:      p.Name,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func techniqueToResponse(t *domain.Technique) *domain.TechniqueResponse {
	return &domain.TechniqueResponse{
		ID:            t.ID,
		ProcedureID:   t.ProcedureID,
		Name:          t.Name,
		PreOperative:  t.PreOperative,
		Position:      t.Position,
		Access:        t.Access,
		SurgicalSteps: t.SurgicalSteps,
		TipsAndTricks: t.TipsAndTricks,
		Warnings:      t.Warnings,
		PostOperative: t.PostOperative,
		Other:         t.Other,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}
