package domain

import (
	"strings"
	"time"
)

// Patient is a standalone record with follow-up tracking. Optional fields are
// stored as empty strings when unset; PendingReason is only meaningful while
// Pending is true.
type Patient struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Name           string    `json:"name"`
	Diagnosis      string    `json:"diagnosis,omitempty"`
	Procedure      string    `json:"procedure,omitempty"`
	ProcedureDate  string    `json:"procedure_date,omitempty"`
	Operators      string    `json:"operators,omitempty"`
	PastHistory    string    `json:"past_history,omitempty"`
	PresentHistory string    `json:"present_history,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	Pending        bool      `json:"pending"`
	PendingReason  string    `json:"pending_reason,omitempty"`
	FollowUpDate   string    `json:"follow_up_date,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type PatientPayload struct {
	Name           string `json:"name" validate:"required,min=3,max=120"`
	Diagnosis      string `json:"diagnosis" validate:"max=4000"`
	Procedure      string `json:"procedure" validate:"max=4000"`
	ProcedureDate  string `json:"procedure_date" validate:"max=40"`
	Operators      string `json:"operators" validate:"max=4000"`
	PastHistory    string `json:"past_history" validate:"max=4000"`
	PresentHistory string `json:"present_history" validate:"max=4000"`
	Notes          string `json:"notes" validate:"max=4000"`
	Pending        bool   `json:"pending"`
	PendingReason  string `json:"pending_reason" validate:"max=4000"`
	FollowUpDate   string `json:"follow_up_date" validate:"max=40"`
}

// Normalize trims every free-text field and drops the pending reason when the
// patient is not pending.
func (p *PatientPayload) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Diagnosis = strings.TrimSpace(p.Diagnosis)
	p.Procedure = strings.TrimSpace(p.Procedure)
	p.ProcedureDate = strings.TrimSpace(p.ProcedureDate)
	p.Operators = strings.TrimSpace(p.Operators)
	p.PastHistory = strings.TrimSpace(p.PastHistory)
	p.PresentHistory = strings.TrimSpace(p.PresentHistory)
	p.Notes = strings.TrimSpace(p.Notes)
	p.PendingReason = strings.TrimSpace(p.PendingReason)
	p.FollowUpDate = strings.TrimSpace(p.FollowUpDate)
	if !p.Pending {
		p.PendingReason = ""
	}
}

type PatientResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Diagnosis      string    `json:"diagnosis,omitempty"`
	Procedure      string    `json:"procedure,omitempty"`
	ProcedureDate  string    `json:"procedure_date,omitempty"`
	Operators      string    `json:"operators,omitempty"`
	PastHistory    string    `json:"past_history,omitempty"`
	PresentHistory string    `json:"present_history,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	Pending        bool      `json:"pending"`
	PendingReason  string    `json:"pending_reason,omitempty"`
	FollowUpDate   string    `json:"follow_up_date,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
