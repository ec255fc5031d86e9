package domain

import (
	"context"
	"time"
)

// Interview types
const (
	InterviewTypeInPerson = "in-person"
	InterviewTypeVirtual  = "virtual"
	InterviewTypePhone    = "phone"
)

// Interview statuses
const (
	InterviewScheduled = "Scheduled"
	InterviewCompleted = "Completed"
	InterviewCancelled = "Cancelled"
)

var (
	InterviewTypes    = []string{InterviewTypeInPerson, InterviewTypeVirtual, InterviewTypePhone}
	InterviewStatuses = []string{InterviewScheduled, InterviewCompleted, InterviewCancelled}
)

type Interview struct {
	ID            int64     `json:"id"`
	CandidateID   int64     `json:"candidate_id" validate:"required,gt=0"`
	InterviewerID int64     `json:"interviewer_id" validate:"required,gt=0"`
	Date          string    `json:"date" validate:"required,datetime=2006-01-02"`
	Time          string    `json:"time" validate:"required,datetime=15:04"`
	Type          string    `json:"type" validate:"required,interview_type"`
	Status        string    `json:"status" validate:"omitempty,interview_status"`
	CreatedAt     time.Time `json:"created_at"`
}

// InterviewDetail is an interview joined with the names shown in listings.
type InterviewDetail struct {
	Interview
	CandidateName     string `json:"candidate_name"`
	CandidatePosition string `json:"candidate_position"`
	InterviewerName   string `json:"interviewer_name"`
}

type InterviewFilter struct {
	CandidateID int64
	Status      string
}

type Interviewer struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Title string `json:"title"`
}

type InterviewRepository interface {
	List(ctx context.Context, filter InterviewFilter) ([]InterviewDetail, error)
	GetByID(ctx context.Context, id int64) (*Interview, error)
	Create(ctx context.Context, i *Interview) error
	UpdateStatus(ctx context.Context, id int64, status string) error
	Delete(ctx context.Context, id int64) error
}

type InterviewerRepository interface {
	List(ctx context.Context) ([]Interviewer, error)
	GetByID(ctx context.Context, id int64) (*Interviewer, error)
}

type InterviewUsecase interface {
	ListInterviews(ctx context.Context, filter InterviewFilter) ([]InterviewDetail, error)
	ScheduleInterview(ctx context.Context, i *Interview) error
	UpdateInterviewStatus(ctx context.Context, id int64, status string) (*Interview, error)
	DeleteInterview(ctx context.Context, id int64) error
	ListInterviewers(ctx context.Context) ([]Interviewer, error)
}
