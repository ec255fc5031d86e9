package usecase

import (
	"context"
	"errors"
	"strings"

	"applicant-tracker/internal/domain"
	"applicant-tracker/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

type noteUsecase struct {
	noteRepo      domain.NoteRepository
	candidateRepo domain.CandidateRepository
	validate      *validator.Validate
}

func NewNoteUsecase(noteRepo domain.NoteRepository, candidateRepo domain.CandidateRepository, validate *validator.Validate) domain.NoteUsecase {
	return &noteUsecase{
		noteRepo:      noteRepo,
		candidateRepo: candidateRepo,
		validate:      validate,
	}
}

func (u *noteUsecase) ListNotes(ctx context.Context, candidateID int64) ([]domain.Note, error) {
	notes, err := u.noteRepo.ListByCandidate(ctx, candidateID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return notes, nil
}

// CreateNote appends a note authored by n.AuthorEmail.
func (u *noteUsecase) CreateNote(ctx context.Context, n *domain.Note) error {
	if n.AuthorEmail == "" {
		return apperror.Unauthorized("User not authenticated")
	}
	n.Text = strings.TrimSpace(n.Text)
	if err := validateStruct(u.validate, n); err != nil {
		return err
	}

	candidate, err := u.candidateRepo.GetByID(ctx, n.CandidateID)
	if err != nil {
		return apperror.Internal(err)
	}
	if candidate == nil {
		return apperror.NotFound("Candidate not found")
	}

	if err := u.noteRepo.Create(ctx, n); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (u *noteUsecase) DeleteNote(ctx context.Context, id int64) error {
	if err := u.noteRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("Note not found")
		}
		return apperror.Internal(err)
	}
	return nil
}
