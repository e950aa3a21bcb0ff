package domain

import (
	"strings"
	"time"
)

// Pathology is a parent record carrying a denormalized summary of its notes:
// NoteCount and LastNote always reflect the note collection as of the last
// completed aggregate refresh, which may lag the notes themselves after a
// partial failure.
type Pathology struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user_id"`
	Name      string       `json:"name"`
	NoteCount int          `json:"note_count"`
	LastNote  *NoteSummary `json:"last_note"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// PathologyNote is a child record living in a pathology's subcollection.
type PathologyNote struct {
	ID          string    `json:"id"`
	PathologyID string    `json:"pathology_id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NoteSummary is the snapshot of the most recently updated note stored on the
// parent pathology record.
type NoteSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreatePathologyRequest struct {
	Name        string     `json:"name" validate:"required,min=3,max=120"`
	InitialNote *NoteInput `json:"initial_note"`
}

type UpdatePathologyRequest struct {
	Name string `json:"name" validate:"required,min=3,max=120"`
}

// NoteInput carries the optional inline note on pathology creation. It is
// only persisted when title or body is non-empty after trimming.
type NoteInput struct {
	Title string `json:"title" validate:"omitempty,min=3,max=160"`
	Body  string `json:"body" validate:"omitempty,max=4000"`
}

// Normalize trims user-entered fields before validation, so length limits
// apply to what is actually stored.
func (r *CreatePathologyRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	if r.InitialNote != nil {
		r.InitialNote.Title = strings.TrimSpace(r.InitialNote.Title)
		r.InitialNote.Body = strings.TrimSpace(r.InitialNote.Body)
	}
}

func (r *UpdatePathologyRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

func (r *CreateNoteRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Body = strings.TrimSpace(r.Body)
}

func (r *UpdateNoteRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Body = strings.TrimSpace(r.Body)
}

type CreateNoteRequest struct {
	Title string `json:"title" validate:"required,min=3,max=160"`
	Body  string `json:"body" validate:"max=4000"`
}

type UpdateNoteRequest struct {
	Title string `json:"title" validate:"required,min=3,max=160"`
	Body  string `json:"body" validate:"max=4000"`
}

type PathologyResponse struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	NoteCount int          `json:"note_count"`
	LastNote  *NoteSummary `json:"last_note"`
	// Display label for the last note's date, "recently" when the snapshot
	// carries no timestamp yet.
	LastNoteDate string    `json:"last_note_date,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type NoteResponse struct {
	ID          string    `json:"id"`
	PathologyID string    `json:"pathology_id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
