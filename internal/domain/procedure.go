package domain

import (
	"strings"
	"time"
)

type Procedure struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Technique is a child record of a procedure. All section fields are free
// text and may be empty.
type Technique struct {
	ID            string    `json:"id"`
	ProcedureID   string    `json:"procedure_id"`
	Name          string    `json:"name"`
	PreOperative  string    `json:"pre_operative"`
	Position      string    `json:"position"`
	Access        string    `json:"access"`
	SurgicalSteps string    `json:"surgical_steps"`
	TipsAndTricks string    `json:"tips_and_tricks"`
	Warnings      string    `json:"warnings"`
	PostOperative string    `json:"post_operative"`
	Other         string    `json:"other"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CreateProcedureRequest creates a procedure together with its first
// technique.
type CreateProcedureRequest struct {
	Name      string         `json:"name" validate:"required,min=3,max=120"`
	Technique TechniqueInput `json:"technique" validate:"required"`
}

type UpdateProcedureRequest struct {
	Name string `json:"name" validate:"required,min=3,max=120"`
}

type TechniqueInput struct {
	Name          string `json:"name" validate:"required,min=3,max=160"`
	PreOperative  string `json:"pre_operative" validate:"max=4000"`
	Position      string `json:"position" validate:"max=4000"`
	Access        string `json:"access" validate:"max=4000"`
	SurgicalSteps string `json:"surgical_steps" validate:"max=4000"`
	TipsAndTricks string `json:"tips_and_tricks" validate:"max=4000"`
	Warnings      string `json:"warnings" validate:"max=4000"`
	PostOperative string `json:"post_operative" validate:"max=4000"`
	Other         string `json:"other" validate:"max=4000"`
}

func (t *TechniqueInput) Normalize() {
	t.Name = strings.TrimSpace(t.Name)
	t.PreOperative = strings.TrimSpace(t.PreOperative)
	t.Position = strings.TrimSpace(t.Position)
	t.Access = strings.TrimSpace(t.Access)
	t.SurgicalSteps = strings.TrimSpace(t.SurgicalSteps)
	t.TipsAndTricks = strings.TrimSpace(t.TipsAndTricks)
	t.Warnings = strings.TrimSpace(t.Warnings)
	t.PostOperative = strings.TrimSpace(t.PostOperative)
	t.Other = strings.TrimSpace(t.Other)
}

func (r *CreateProcedureRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Technique.Normalize()
}

func (r *UpdateProcedureRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

type ProcedureResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TechniqueResponse struct {
	ID            string    `json:"id"`
	ProcedureID   string    `json:"procedure_id"`
	Name          string    `json:"name"`
	PreOperative  string    `json:"pre_operative"`
	Position      string    `json:"position"`
	Access        string    `json:"access"`
	SurgicalSteps string    `json:"surgical_steps"`
	TipsAndTricks string    `json:"tips_and_tricks"`
	Warnings      string    `json:"warnings"`
	PostOperative string    `json:"post_operative"`
	Other         string    `json:"other"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
