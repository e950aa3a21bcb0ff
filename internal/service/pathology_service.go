package service

import (
	"sync"
	"time"

	"taccuino-server/internal/domain"
	"taccuino-server/internal/events"
	"taccuino-server/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PathologyService owns pathologies and their note subcollection. Every note
// mutation that commits triggers a synchronous summary refresh on the parent;
// a failed refresh is returned as a *StaleAggregateError alongside the
// response so callers can report it without undoing the note write.
type PathologyService struct {
	repo       repository.PathologyRepository
	noteRepo   repository.NoteRepository
	aggregates *AggregateService
	bus        *events.Bus
	logger     zerolog.Logger
}

func NewPathologyService(
	repo repository.PathologyRepository,
	noteRepo repository.NoteRepository,
	aggregates *AggregateService,
	bus *events.Bus,
	logger zerolog.Logger,
) *PathologyService {
	return &PathologyService{
		repo:       repo,
		noteRepo:   noteRepo,
		aggregates: aggregates,
		bus:        bus,
		logger:     logger,
	}
}

func (s *PathologyService) Create(userID string, req *domain.CreatePathologyRequest) (*domain.PathologyResponse, error) {
	now := time.Now()
	pathology := &domain.Pathology{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      req.Name,
		NoteCount: 0,
		LastNote:  nil,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(pathology); err != nil {
		return nil, err
	}

	var warn error
	if req.InitialNote != nil && (req.InitialNote.Title != "" || req.InitialNote.Body != "") {
		note := &domain.PathologyNote{
			ID:          uuid.New().String(),
			PathologyID: pathology.ID,
			Title:       req.InitialNote.Title,
			Body:        req.InitialNote.Body,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if err := s.noteRepo.Create(note); err != nil {
			return nil, err
		}

		warn = s.aggregates.Refresh(pathology.ID)
		if warn == nil {
			pathology.NoteCount = 1
			pathology.LastNote = &domain.NoteSummary{
				ID:        note.ID,
				Title:     note.Title,
				Body:      note.Body,
				CreatedAt: note.CreatedAt,
				UpdatedAt: note.UpdatedAt,
			}
		}
	}

	resp := pathologyToResponse(pathology)
	s.publish(events.OpChanged, events.RecordPathology, pathology.ID, "", userID, resp)

	return resp, warn
}

func (s *PathologyService) List(userID string) ([]*domain.PathologyResponse, error) {
	pathologies, err := s.repo.ListByOwner(userID)
	if err != nil {
		return nil, err
	}

	responses := make([]*domain.PathologyResponse, len(pathologies))
	for i, p := range pathologies {
		responses[i] = pathologyToResponse(p)
	}

	return responses, nil
}

func (s *PathologyService) Get(userID, pathologyID string) (*domain.PathologyResponse, error) {
	pathology, err := s.owned(userID, pathologyID)
	if err != nil {
		return nil, err
	}

	return pathologyToResponse(pathology), nil
}

func (s *PathologyService) Update(userID, pathologyID string, req *domain.UpdatePathologyRequest) (*domain.PathologyResponse, error) {
	pathology, err := s.owned(userID, pathologyID)
	if err != nil {
		return nil, err
	}

	pathology.Name = req.Name
	pathology.UpdatedAt = time.Now()

	if err := s.repo.Update(pathology); err != nil {
		return nil, err
	}

	resp := pathologyToResponse(pathology)
	s.publish(events.OpChanged, events.RecordPathology, pathology.ID, "", userID, resp)

	return resp, nil
}

// Delete cascades: all notes are deleted first, then the parent. Any failed
// note delete aborts before the parent is touched, so the pathology and the
// remaining notes survive and the caller can retry the whole operation.
func (s *PathologyService) Delete(userID, pathologyID string) error {
	if _, err := s.owned(userID, pathologyID); err != nil {
		return err
	}

	notes, err := s.noteRepo.ListByPathology(pathologyID)
	if err != nil {
		return err
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failed   int
		firstErr error
	)

	for _, note := range notes {
		wg.Add(1)
		go func(noteID string) {
			defer wg.Done()
			if err := s.noteRepo.Delete(noteID); err != nil {
				mu.Lock()
				failed++
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}(note.ID)
	}
	wg.Wait()

	if failed > 0 {
		return &CascadeError{ParentID: pathologyID, Failed: failed, Err: firstErr}
	}

	if err := s.repo.Delete(pathologyID); err != nil {
		return err
	}

	s.publish(events.OpDeleted, events.RecordPathology, pathologyID, "", userID, nil)

	return nil
}

func (s *PathologyService) CreateNote(userID, pathologyID string, req *domain.CreateNoteRequest) (*domain.NoteResponse, error) {
	if _, err := s.owned(userID, pathologyID); err != nil {
		return nil, err
	}

	now := time.Now()
	note := &domain.PathologyNote{
		ID:          uuid.New().String(),
		PathologyID: pathologyID,
		Title:       req.Title,
		Body:        req.Body,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.noteRepo.Create(note); err != nil {
		return nil, err
	}

	resp := noteToResponse(note)
	s.publish(events.OpChanged, events.RecordPathologyNote, note.ID, pathologyID, userID, resp)

	return resp, s.aggregates.Refresh(pathologyID)
}

func (s *PathologyService) ListNotes(userID, pathologyID string) ([]*domain.NoteResponse, error) {
	if _, err := s.owned(userID, pathologyID); err != nil {
		return nil, err
	}

	notes, err := s.noteRepo.ListByPathology(pathologyID)
	if err != nil {
		return nil, err
	}

	responses := make([]*domain.NoteResponse, len(notes))
	for i, n := range notes {
		responses[i] = noteToResponse(n)
	}

	return responses, nil
}

func (s *PathologyService) UpdateNote(userID, pathologyID, noteID string, req *domain.UpdateNoteRequest) (*domain.NoteResponse, error) {
	if _, err := s.owned(userID, pathologyID); err != nil {
		return nil, err
	}

	note, err := s.noteRepo.FindByID(noteID)
	if err != nil {
		return nil, ErrNotFound
	}
	if note.PathologyID != pathologyID {
		return nil, ErrNotFound
	}

	note.Title = req.Title
	note.Body = req.Body
	note.UpdatedAt = time.Now()

	if err := s.noteRepo.Update(note); err != nil {
		return nil, err
	}

	resp := noteToResponse(note)
	s.publish(events.OpChanged, events.RecordPathologyNote, note.ID, pathologyID, userID, resp)

	return resp, s.aggregates.Refresh(pathologyID)
}

func (s *PathologyService) DeleteNote(userID, pathologyID, noteID string) error {
	if _, err := s.owned(userID, pathologyID); err != nil {
		return err
	}

	note, err := s.noteRepo.FindByID(noteID)
	if err != nil {
		return ErrNotFound
	}
	if note.PathologyID != pathologyID {
		return ErrNotFound
	}

	if err := s.noteRepo.Delete(noteID); err != nil {
		return err
	}

	s.publish(events.OpDeleted, events.RecordPathologyNote, noteID, pathologyID, userID, nil)

	return s.aggregates.Refresh(pathologyID)
}

// owned fetches a pathology and enforces ownership. Both a missing record and
// someone else's record come back as ErrNotFound.
func (s *PathologyService) owned(userID, pathologyID string) (*domain.Pathology, error) {
	pathology, err := s.repo.FindByID(pathologyID)
	if err != nil {
		return nil, ErrNotFound
	}
	if pathology.UserID != userID {
		return nil, ErrNotFound
	}
	return pathology, nil
}

func (s *PathologyService) publish(op events.Operation, record events.RecordType, id, parentID, userID string, data interface{}) {
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

func pathologyToResponse(p *domain.Pathology) *domain.PathologyResponse {
	resp := &domain.PathologyResponse{
		ID:        p.ID,
		Name:      p.Name,
		NoteCount: p.NoteCount,
		LastNote:  p.LastNote,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.LastNote != nil {
		resp.LastNoteDate = domain.FormatTimestamp(&p.LastNote.UpdatedAt, domain.PlaceholderRecently)
	}
	return resp
}

func noteToResponse(n *domain.PathologyNote) *domain.NoteResponse {
	return &domain.NoteResponse{
		ID:          n.ID,
		PathologyID: n.PathologyID,
		Title:       n.Title,
		Body:        n.Body,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
	}
}
