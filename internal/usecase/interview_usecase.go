package usecase

import (
	"context"
	"errors"
	"fmt"

	"applicant-tracker/internal/domain"
	"applicant-tracker/pkg/apperror"
	"applicant-tracker/pkg/logger"

	"github.com/go-playground/validator/v10"
)

type interviewUsecase struct {
	interviewRepo   domain.InterviewRepository
	interviewerRepo domain.InterviewerRepository
	candidateRepo   domain.CandidateRepository
	validate        *validator.Validate
}

func NewInterviewUsecase(
	interviewRepo domain.InterviewRepository,
	interviewerRepo domain.InterviewerRepository,
	candidateRepo domain.CandidateRepository,
	validate *validator.Validate,
) domain.InterviewUsecase {
	return &interviewUsecase{
		interviewRepo:   interviewRepo,
		interviewerRepo: interviewerRepo,
		candidateRepo:   candidateRepo,
		validate:        validate,
	}
}

func (u *interviewUsecase) ListInterviews(ctx context.Context, filter domain.InterviewFilter) ([]domain.InterviewDetail, error) {
	if filter.Status != "" && !isInterviewStatus(filter.Status) {
		return nil, apperror.BadRequest(fmt.Sprintf("Invalid status filter: %q", filter.Status))
	}
	interviews, err := u.interviewRepo.List(ctx, filter)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return interviews, nil
}

// ScheduleInterview books an interview. A candidate still waiting for one
// moves to Interview Scheduled.
func (u *interviewUsecase) ScheduleInterview(ctx context.Context, i *domain.Interview) error {
	if i.Status == "" {
		i.Status = domain.InterviewScheduled
	}
	if err := validateStruct(u.validate, i); err != nil {
		return err
	}

	candidate, err := u.candidateRepo.GetByID(ctx, i.CandidateID)
	if err != nil {
		return apperror.Internal(err)
	}
	if candidate == nil {
		return apperror.NotFound("Candidate not found")
	}

	interviewer, err := u.interviewerRepo.GetByID(ctx, i.InterviewerID)
	if err != nil {
		return apperror.Internal(err)
	}
	if interviewer == nil {
		return apperror.NotFound("Interviewer not found")
	}

	if err := u.interviewRepo.Create(ctx, i); err != nil {
		return apperror.Internal(err)
	}

	if candidate.Status == domain.StatusNeedsInterview {
		if err := u.candidateRepo.UpdateStatus(ctx, candidate.ID, domain.StatusInterviewScheduled); err != nil {
			logger.Log.Warn("Interview scheduled but candidate status not advanced",
				"candidate_id", candidate.ID, "interview_id", i.ID, "error", err)
		}
	}
	return nil
}

func (u *interviewUsecase) UpdateInterviewStatus(ctx context.Context, id int64, status string) (*domain.Interview, error) {
	if !isInterviewStatus(status) {
		return nil, apperror.BadRequest(fmt.Sprintf("Invalid status: %q", status))
	}
	if err := u.interviewRepo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Interview not found")
		}
		return nil, apperror.Internal(err)
	}

	interview, err := u.interviewRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if interview == nil {
		return nil, apperror.NotFound("Interview not found")
	}
	return interview, nil
}

func (u *interviewUsecase) DeleteInterview(ctx context.Context, id int64) error {
	if err := u.interviewRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("Interview not found")
		}
		return apperror.Internal(err)
	}
	return nil
}

func (u *interviewUsecase) ListInterviewers(ctx context.Context) ([]domain.Interviewer, error) {
	interviewers, err := u.interviewerRepo.List(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return interviewers, nil
}

func isInterviewStatus(s string) bool {
	for _, status := range domain.InterviewStatuses {
		if s == status {
			return true
		}
	}
	return false
}
