package domain

import (
	"context"
	"time"
)

// Candidate pipeline statuses
const (
	StatusNeedsInterview     = "Needs Interview"
	StatusInterviewScheduled = "Interview Scheduled"
	StatusUnderReview        = "Under Review"
	StatusSubmitted          = "Submitted"
	StatusHired              = "Hired"
)

var CandidateStatuses = []string{
	StatusNeedsInterview,
	StatusInterviewScheduled,
	StatusUnderReview,
	StatusSubmitted,
	StatusHired,
}

func IsValidCandidateStatus(s string) bool {
	for _, status := range CandidateStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type Candidate struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name" validate:"required,max=255"`
	Email          string    `json:"email" validate:"required,email,max=255"`
	Phone          string    `json:"phone" validate:"omitempty,valid_phone"`
	Status         string    `json:"status" validate:"omitempty,candidate_status"`
	Position       string    `json:"position" validate:"required,max=255"`
	Department     string    `json:"department" validate:"max=255"`
	HiringLocation string    `json:"hiring_location" validate:"max=255"`
	City           string    `json:"city" validate:"max=255"`
	State          string    `json:"state" validate:"max=64"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CandidateWithResume is the response of the intake form. Resume is null when
// no file was attached or the upload failed after the candidate was stored.
type CandidateWithResume struct {
	Candidate
	Resume *Resume `json:"resume"`
}

// CandidateFilter narrows the candidate listing. Empty fields match everything.
type CandidateFilter struct {
	Statuses       []string
	Department     string
	HiringLocation string
	Query          string
	Page           int
	PageSize       int
}

type CandidateRepository interface {
	List(ctx context.Context, filter CandidateFilter) ([]Candidate, int64, error)
	GetByID(ctx context.Context, id int64) (*Candidate, error)
	Create(ctx context.Context, c *Candidate) error
	Update(ctx context.Context, c *Candidate) error
	UpdateStatus(ctx context.Context, id int64, status string) error
	Delete(ctx context.Context, id int64) error
}

type CandidateUsecase interface {
	ListCandidates(ctx context.Context, filter CandidateFilter) (*PaginatedResult[Candidate], error)
	GetCandidate(ctx context.Context, id int64) (*Candidate, error)
	CreateCandidate(ctx context.Context, c *Candidate, resume *ResumeFile, uploaderEmail string) (*CandidateWithResume, error)
	UpdateCandidate(ctx context.Context, c *Candidate) (*Candidate, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*Candidate, error)
	DeleteCandidate(ctx context.Context, id int64) error
}
