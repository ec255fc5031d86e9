package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"applicant-tracker/internal/domain"
	"applicant-tracker/pkg/apperror"
	"applicant-tracker/pkg/logger"

	"github.com/go-playground/validator/v10"
)

type candidateUsecase struct {
	repo     domain.CandidateRepository
	resumes  domain.ResumeUsecase
	validate *validator.Validate
}

func NewCandidateUsecase(repo domain.CandidateRepository, resumes domain.ResumeUsecase, validate *validator.Validate) domain.CandidateUsecase {
	return &candidateUsecase{
		repo:     repo,
		resumes:  resumes,
		validate: validate,
	}
}

func (u *candidateUsecase) ListCandidates(ctx context.Context, filter domain.CandidateFilter) (*domain.PaginatedResult[domain.Candidate], error) {
	// Set defaults
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = domain.DefaultPageSize
	}
	if filter.PageSize > domain.MaxPageSize {
		filter.PageSize = domain.MaxPageSize
	}
	if err := validateStatusFilter(filter.Statuses); err != nil {
		return nil, err
	}

	candidates, total, err := u.repo.List(ctx, filter)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return domain.NewPaginatedResult(candidates, total, filter.Page, filter.PageSize), nil
}

func (u *candidateUsecase) GetCandidate(ctx context.Context, id int64) (*domain.Candidate, error) {
	candidate, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if candidate == nil {
		return nil, apperror.NotFound("Candidate not found")
	}
	return candidate, nil
}

// CreateCandidate stores the intake form. An attached resume is validated up
// front but uploaded only after the candidate row exists; an upload failure at
// that point is logged and the candidate is returned without a resume.
func (u *candidateUsecase) CreateCandidate(ctx context.Context, c *domain.Candidate, resume *domain.ResumeFile, uploaderEmail string) (*domain.CandidateWithResume, error) {
	normalizeCandidate(c)
	if c.Status == "" {
		c.Status = domain.StatusNeedsInterview
	}
	if err := u.validateCandidate(c); err != nil {
		return nil, err
	}

	if resume != nil {
		if uploaderEmail == "" {
			return nil, apperror.Unauthorized("User not authenticated")
		}
		if err := u.resumes.ValidateFile(resume); err != nil {
			return nil, err
		}
	}

	if err := u.repo.Create(ctx, c); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, apperror.Conflict("Email already exists")
		}
		return nil, apperror.Internal(err)
	}

	result := &domain.CandidateWithResume{Candidate: *c}
	if resume == nil {
		return result, nil
	}

	stored, err := u.resumes.AttachInitialResume(ctx, c.ID, *resume, uploaderEmail)
	if err != nil {
		logger.Log.Warn("Candidate created but resume upload failed", "candidate_id", c.ID, "error", err)
		return result, nil
	}
	result.Resume = stored
	return result, nil
}

func (u *candidateUsecase) UpdateCandidate(ctx context.Context, c *domain.Candidate) (*domain.Candidate, error) {
	existing, err := u.GetCandidate(ctx, c.ID)
	if err != nil {
		return nil, err
	}

	normalizeCandidate(c)
	if c.Status == "" {
		c.Status = existing.Status
	}
	if err := u.validateCandidate(c); err != nil {
		return nil, err
	}

	if err := u.repo.Update(ctx, c); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return nil, apperror.NotFound("Candidate not found")
		case errors.Is(err, domain.ErrDuplicateEmail):
			return nil, apperror.Conflict("Email already exists")
		}
		return nil, apperror.Internal(err)
	}
	return c, nil
}

func (u *candidateUsecase) UpdateStatus(ctx context.Context, id int64, status string) (*domain.Candidate, error) {
	if !domain.IsValidCandidateStatus(status) {
		return nil, apperror.BadRequest(fmt.Sprintf("Invalid status: %q", status))
	}
	if err := u.repo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Candidate not found")
		}
		return nil, apperror.Internal(err)
	}
	return u.GetCandidate(ctx, id)
}

// DeleteCandidate removes the candidate's resumes from storage before the
// row; notes and interviews go with the row.
func (u *candidateUsecase) DeleteCandidate(ctx context.Context, id int64) error {
	if _, err := u.GetCandidate(ctx, id); err != nil {
		return err
	}
	if err := u.resumes.DeleteCandidateResumes(ctx, id); err != nil {
		return err
	}
	if err := u.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("Candidate not found")
		}
		return apperror.Internal(err)
	}
	return nil
}

func (u *candidateUsecase) validateCandidate(c *domain.Candidate) error {
	return validateStruct(u.validate, c)
}

func normalizeCandidate(c *domain.Candidate) {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.Phone = strings.TrimSpace(c.Phone)
	c.Position = strings.TrimSpace(c.Position)
	c.Department = strings.TrimSpace(c.Department)
	c.HiringLocation = strings.TrimSpace(c.HiringLocation)
	c.City = strings.TrimSpace(c.City)
	c.State = strings.TrimSpace(c.State)
}

func validateStatusFilter(statuses []string) error {
	for _, s := range statuses {
		if !domain.IsValidCandidateStatus(s) {
			return apperror.BadRequest(fmt.Sprintf("Invalid status filter: %q", s))
		}
	}
	return nil
}
