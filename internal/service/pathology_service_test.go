package service

import (
	"errors"
	"testing"
	"time"

	"taccuino-server/internal/domain"

	"github.com/rs/zerolog"
)

type mockPathologyRepo struct {
	pathologies map[string]*domain.Pathology
	summaryErr  error
	deleteErr   error
}

func newMockPathologyRepo() *mockPathologyRepo {
	return &mockPathologyRepo{
		pathologies: make(map[string]*domain.Pathology),
	}
}

func (m *mockPathologyRepo) Create(p *domain.Pathology) error {
	m.pathologies[p.ID] = p
	return nil
}

func (m *mockPathologyRepo) FindByID(id string) (*domain.Pathology, error) {
	if p, exists := m.pathologies[id]; exists {
		return p, nil
	}
	return nil, errors.New("pathology not found")
}

func (m *mockPathologyRepo) ListByOwner(userID string) ([]*domain.Pathology, error) {
	var out []*domain.Pathology
	for _, p := range m.pathologies {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockPathologyRepo) Update(p *domain.Pathology) error {
	if _, exists := m.pathologies[p.ID]; !exists {
		return errors.New("pathology not found")
	}
	m.pathologies[p.ID] = p
	return nil
}

func (m *mockPathologyRepo) UpdateSummary(id string, noteCount int, lastNote *domain.NoteSummary) error {
	if m.summaryErr != nil {
		return m.summaryErr
	}
	p, exists := m.pathologies[id]
	if !exists {
		return errors.New("pathology not found")
	}
	p.NoteCount = noteCount
	p.LastNote = lastNote
	p.UpdatedAt = time.Now()
	return nil
}

func (m *mockPathologyRepo) Delete(id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.pathologies, id)
	return nil
}

type mockNoteRepo struct {
	notes     map[string]*domain.PathologyNote
	deleteErr map[string]error
}

func newMockNoteRepo() *mockNoteRepo {
	return &mockNoteRepo{
		notes:     make(map[string]*domain.PathologyNote),
		deleteErr: make(map[string]error),
	}
}

func (m *mockNoteRepo) Create(n *domain.PathologyNote) error {
	m.notes[n.ID] = n
	return nil
}

func (m *mockNoteRepo) FindByID(id string) (*domain.PathologyNote, error) {
	if n, exists := m.notes[id]; exists {
		return n, nil
	}
	return nil, errors.New("note not found")
}

func (m *mockNoteRepo) ListByPathology(pathologyID string) ([]*domain.PathologyNote, error) {
	var out []*domain.PathologyNote
	for _, n := range m.notes {
		if n.PathologyID == pathologyID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *mockNoteRepo) CountByPathology(pathologyID string) (int, error) {
	count := 0
	for _, n := range m.notes {
		if n.PathologyID == pathologyID {
			count++
		}
	}
	return count, nil
}

func (m *mockNoteRepo) LatestByPathology(pathologyID string) (*domain.PathologyNote, error) {
	var latest *domain.PathologyNote
	for _, n := range m.notes {
		if n.PathologyID != pathologyID {
			continue
		}
		if latest == nil || n.UpdatedAt.After(latest.UpdatedAt) {
			latest = n
		}
	}
	return latest, nil
}

func (m *mockNoteRepo) Update(n *domain.PathologyNote) error {
	if _, exists := m.notes[n.ID]; !exists {
		return errors.New("note not found")
	}
	m.notes[n.ID] = n
	return nil
}

func (m *mockNoteRepo) Delete(id string) error {
	if err := m.deleteErr[id]; err != nil {
		return err
	}
	if _, exists := m.notes[id]; !exists {
		return errors.New("note not found")
	}
	delete(m.notes, id)
	return nil
}

func newTestPathologyService(pathologyRepo *mockPathologyRepo, noteRepo *mockNoteRepo) *PathologyService {
	aggregates := NewAggregateService(noteRepo, pathologyRepo, zerolog.Nop())
	return NewPathologyService(pathologyRepo, noteRepo, aggregates, nil, zerolog.Nop())
}

func TestPathologyCreateStartsEmpty(t *testing.T) {
	repo := newMockPathologyRepo()
	service := newTestPathologyService(repo, newMockNoteRepo())

	resp, err := service.Create("user1", &domain.CreatePathologyRequest{Name: "Inguinal hernia"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if resp.NoteCount != 0 {
		t.Errorf("expected note count 0, got %d", resp.NoteCount)
	}
	if resp.LastNote != nil {
		t.Error("expected no last note on a fresh pathology")
	}
}

func TestPathologyCreateWithInitialNote(t *testing.T) {
	repo := newMockPathologyRepo()
	service := newTestPathologyService(repo, newMockNoteRepo())

	resp, err := service.Create("user1", &domain.CreatePathologyRequest{
		Name:        "Inguinal hernia",
		InitialNote: &domain.NoteInput{Title: "First consult", Body: "Reducible."},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if resp.NoteCount != 1 {
		t.Errorf("expected note count 1, got %d", resp.NoteCount)
	}
	if resp.LastNote == nil || resp.LastNote.Title != "First consult" {
		t.Errorf("expected last note snapshot, got %+v", resp.LastNote)
	}
}

func TestPathologyCreateSkipsEmptyInitialNote(t *testing.T) {
	repo := newMockPathologyRepo()
	noteRepo := newMockNoteRepo()
	service := newTestPathologyService(repo, noteRepo)

	_, err := service.Create("user1", &domain.CreatePathologyRequest{
		Name:        "Inguinal hernia",
		InitialNote: &domain.NoteInput{},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(noteRepo.notes) != 0 {
		t.Errorf("expected no notes persisted, got %d", len(noteRepo.notes))
	}
}

func TestAggregatesTrackNoteLifecycle(t *testing.T) {
	repo := newMockPathologyRepo()
	noteRepo := newMockNoteRepo()
	service := newTestPathologyService(repo, noteRepo)

	pathology, _ := service.Create("user1", &domain.CreatePathologyRequest{Name: "Gallstones"})

	noteA, err := service.CreateNote("user1", pathology.ID, &domain.CreateNoteRequest{Title: "T1", Body: "first"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	parent := repo.pathologies[pathology.ID]
	if parent.NoteCount != 1 {
		t.Errorf("expected count 1, got %d", parent.NoteCount)
	}
	if parent.LastNote == nil || parent.LastNote.Title != "T1" {
		t.Errorf("expected last note T1, got %+v", parent.LastNote)
	}

	noteB, err := service.CreateNote("user1", pathology.ID, &domain.CreateNoteRequest{Title: "T2", Body: "second"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	// Force a strictly later timestamp so the top-1 query is unambiguous.
	noteRepo.notes[noteB.ID].UpdatedAt = noteRepo.notes[noteA.ID].UpdatedAt.Add(time.Minute)
	if err := service.aggregates.Refresh(pathology.ID); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	if parent.NoteCount != 2 {
		t.Errorf("expected count 2, got %d", parent.NoteCount)
	}
	if parent.LastNote == nil || parent.LastNote.ID != noteB.ID {
		t.Errorf("expected last note %s, got %+v", noteB.ID, parent.LastNote)
	}

	if err := service.DeleteNote("user1", pathology.ID, noteB.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if parent.NoteCount != 1 {
		t.Errorf("expected count 1 after delete, got %d", parent.NoteCount)
	}
	if parent.LastNote == nil || parent.LastNote.ID != noteA.ID {
		t.Errorf("expected last note to fall back to %s, got %+v", noteA.ID, parent.LastNote)
	}

	if err := service.DeleteNote("user1", pathology.ID, noteA.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if parent.NoteCount != 0 {
		t.Errorf("expected count 0, got %d", parent.NoteCount)
	}
	if parent.LastNote != nil {
		t.Errorf("expected no last note, got %+v", parent.LastNote)
	}
}

func TestNoteUpdateRefreshesSnapshot(t *testing.T) {
	repo := newMockPathologyRepo()
	noteRepo := newMockNoteRepo()
	service := newTestPathologyService(repo, noteRepo)

	pathology, _ := service.Create("user1", &domain.CreatePathologyRequest{Name: "Gallstones"})
	note, _ := service.CreateNote("user1", pathology.ID, &domain.CreateNoteRequest{Title: "Old title", Body: "b"})

	updated, err := service.UpdateNote("user1", pathology.ID, note.ID, &domain.UpdateNoteRequest{Title: "New title", Body: "b2"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if updated.Title != "New title" {
		t.Errorf("expected updated title, got %s", updated.Title)
	}

	parent := repo.pathologies[pathology.ID]
	if parent.LastNote == nil || parent.LastNote.Title != "New title" {
		t.Errorf("expected snapshot to follow the update, got %+v", parent.LastNote)
	}
}

func TestNoteMutationSurvivesStaleAggregate(t *testing.T) {
	repo := newMockPathologyRepo()
	noteRepo := newMockNoteRepo()
	service := newTestPathologyService(repo, noteRepo)

	pathology, _ := service.Create("user1", &domain.CreatePathologyRequest{Name: "Gallstones"})

	repo.summaryErr = errors.New("network down")
	resp, err := service.CreateNote("user1", pathology.ID, &domain.CreateNoteRequest{Title: "T1", Body: "b"})

	var stale *StaleAggregateError
	if !errors.As(err, &stale) {
		t.Fatalf("expected StaleAggregateError, got %v", err)
	}
	if resp == nil {
		t.Fatal("expected the note response despite the stale aggregate")
	}
	if _, exists := noteRepo.notes[resp.ID]; !exists {
		t.Error("expected the note write to survive the failed refresh")
	}
	if repo.pathologies[pathology.ID].NoteCount != 0 {
		t.Error("expected the summary to stay stale, not be partially updated")
	}

	// The next successful mutation repairs the summary in full.
	repo.summaryErr = nil
	if _, err := service.CreateNote("user1", pathology.ID, &domain.CreateNoteRequest{Title: "T2", Body: "b"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if repo.pathologies[pathology.ID].NoteCount != 2 {
		t.Errorf("expected repaired count 2, got %d", repo.pathologies[pathology.ID].NoteCount)
	}
}

func TestCascadeDeleteRemovesNotesThenParent(t *testing.T) {
	repo := newMockPathologyRepo()
	noteRepo := newMockNoteRepo()
	service := newTestPathologyService(repo, noteRepo)

	pathology, _ := service.Create("user1", &domain.CreatePathologyRequest{Name: "Gallstones"})
	service.CreateNote("user1", pathology.ID, &domain.CreateNoteRequest{Title: "T1", Body: "b"})
	service.CreateNote("user1", pathology.ID, &domain.CreateNoteRequest{Title: "T2", Body: "b"})

	if err := service.Delete("user1", pathology.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(noteRepo.notes) != 0 {
		t.Errorf("expected all notes deleted, %d remain", len(noteRepo.notes))
	}
	if _, exists := repo.pathologies[pathology.ID]; exists {
		t.Error("expected parent deleted")
	}
}

func TestCascadeDeleteAbortsBeforeParentOnChildFailure(t *testing.T) {
	repo := newMockPathologyRepo()
	noteRepo := newMockNoteRepo()
	service := newTestPathologyService(repo, noteRepo)

	pathology, _ := service.Create("user1", &domain.CreatePathologyRequest{Name: "Gallstones"})
	stuck, _ := service.CreateNote("user1", pathology.ID, &domain.CreateNoteRequest{Title: "T1", Body: "b"})
	service.CreateNote("user1", pathology.ID, &domain.CreateNoteRequest{Title: "T2", Body: "b"})

	noteRepo.deleteErr[stuck.ID] = errors.New("store unavailable")

	err := service.Delete("user1", pathology.ID)

	var cascade *CascadeError
	if !errors.As(err, &cascade) {
		t.Fatalf("expected CascadeError, got %v", err)
	}
	if cascade.Failed != 1 {
		t.Errorf("expected 1 failed child delete, got %d", cascade.Failed)
	}
	if _, exists := repo.pathologies[pathology.ID]; !exists {
		t.Error("expected parent untouched after aborted cascade")
	}
	if _, exists := noteRepo.notes[stuck.ID]; !exists {
		t.Error("expected the failed note to remain for retry")
	}
}

func TestOwnershipMismatchLooksLikeNotFound(t *testing.T) {
	repo := newMockPathologyRepo()
	service := newTestPathologyService(repo, newMockNoteRepo())

	pathology, _ := service.Create("user1", &domain.CreatePathologyRequest{Name: "Gallstones"})

	if _, err := service.Get("user2", pathology.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for another user's record, got %v", err)
	}
	if _, err := service.Get("user1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for a missing record, got %v", err)
	}

	if err := service.Delete("user2", pathology.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on foreign delete, got %v", err)
	}
	if _, exists := repo.pathologies[pathology.ID]; !exists {
		t.Error("expected the record to survive a foreign delete attempt")
	}
}

func TestNoteFromOtherPathologyNotFound(t *testing.T) {
	repo := newMockPathologyRepo()
	noteRepo := newMockNoteRepo()
	service := newTestPathologyService(repo, noteRepo)

	first, _ := service.Create("user1", &domain.CreatePathologyRequest{Name: "Gallstones"})
	second, _ := service.Create("user1", &domain.CreatePathologyRequest{Name: "Appendicitis"})
	note, _ := service.CreateNote("user1", first.ID, &domain.CreateNoteRequest{Title: "T1", Body: "b"})

	if _, err := service.UpdateNote("user1", second.ID, note.ID, &domain.UpdateNoteRequest{Title: "X", Body: "y"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for a note under the wrong parent, got %v", err)
	}
}
