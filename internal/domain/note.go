package domain

import (
	"context"
	"time"
)

// Note is an immutable comment on a candidate.
type Note struct {
	ID          int64     `json:"id"`
	CandidateID int64     `json:"candidate_id" validate:"required,gt=0"`
	Text        string    `json:"text" validate:"required,max=5000"`
	AuthorEmail string    `json:"author_email"`
	CreatedAt   time.Time `json:"created_at"`
}

type NoteRepository interface {
	ListByCandidate(ctx context.Context, candidateID int64) ([]Note, error)
	Create(ctx context.Context, n *Note) error
	Delete(ctx context.Context, id int64) error
}

type NoteUsecase interface {
	ListNotes(ctx context.Context, candidateID int64) ([]Note, error)
	CreateNote(ctx context.Context, n *Note) error
	DeleteNote(ctx context.Context, id int64) error
}
