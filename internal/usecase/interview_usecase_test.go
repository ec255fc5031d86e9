package usecase_test

import (
	"context"
	"testing"

	"applicant-tracker/internal/domain"
	"applicant-tracker/internal/usecase"
	"applicant-tracker/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newInterview() *domain.Interview {
	return &domain.Interview{CandidateID: 42, InterviewerID: 3, Date: "2024-05-01", Time: "14:30", Type: domain.InterviewTypeVirtual}
}

func TestScheduleInterview(t *testing.T) {
	ctx := context.Background()

	t.Run("advances a candidate waiting for an interview", func(t *testing.T) {
		interviews, interviewers, candidates := new(MockInterviewRepo), new(MockInterviewerRepo), new(MockCandidateRepo)
		uc := usecase.NewInterviewUsecase(interviews, interviewers, candidates, validation.New())

		candidates.On("GetByID", ctx, int64(42)).Return(&domain.Candidate{ID: 42, Status: domain.StatusNeedsInterview}, nil)
		interviewers.On("GetByID", ctx, int64(3)).Return(&domain.Interviewer{ID: 3}, nil)
		interviews.On("Create", ctx, mock.AnythingOfType("*domain.Interview")).Return(nil)
		candidates.On("UpdateStatus", ctx, int64(42), domain.StatusInterviewScheduled).Return(nil)

		i := newInterview()
		require.NoError(t, uc.ScheduleInterview(ctx, i))
		assert.Equal(t, domain.InterviewScheduled, i.Status)
		candidates.AssertExpectations(t)
	})

	t.Run("leaves later stages alone", func(t *testing.T) {
		interviews, interviewers, candidates := new(MockInterviewRepo), new(MockInterviewerRepo), new(MockCandidateRepo)
		uc := usecase.NewInterviewUsecase(interviews, interviewers, candidates, validation.New())

		candidates.On("GetByID", ctx, int64(42)).Return(&domain.Candidate{ID: 42, Status: domain.StatusUnderReview}, nil)
		interviewers.On("GetByID", ctx, int64(3)).Return(&domain.Interviewer{ID: 3}, nil)
		interviews.On("Create", ctx, mock.Anything).Return(nil)

		require.NoError(t, uc.ScheduleInterview(ctx, newInterview()))
		candidates.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown interviewer", func(t *testing.T) {
		interviews, interviewers, candidates := new(MockInterviewRepo), new(MockInterviewerRepo), new(MockCandidateRepo)
		uc := usecase.NewInterviewUsecase(interviews, interviewers, candidates, validation.New())

		candidates.On("GetByID", ctx, int64(42)).Return(&domain.Candidate{ID: 42}, nil)
		interviewers.On("GetByID", ctx, int64(3)).Return(nil, nil)

		err := uc.ScheduleInterview(ctx, newInterview())
		assertAppError(t, err, 404)
		interviews.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("bad time format", func(t *testing.T) {
		uc := usecase.NewInterviewUsecase(new(MockInterviewRepo), new(MockInterviewerRepo), new(MockCandidateRepo), validation.New())
		i := newInterview()
		i.Time = "2pm"

		err := uc.ScheduleInterview(ctx, i)
		assertAppError(t, err, 400)
		assert.Contains(t, err.Error(), "HH:MM")
	})
}

func TestUpdateInterviewStatus(t *testing.T) {
	ctx := context.Background()
	interviews := new(MockInterviewRepo)
	uc := usecase.NewInterviewUsecase(interviews, new(MockInterviewerRepo), new(MockCandidateRepo), validation.New())

	_, err := uc.UpdateInterviewStatus(ctx, 1, "Postponed")
	assertAppError(t, err, 400)

	interviews.On("UpdateStatus", ctx, int64(1), domain.InterviewCompleted).Return(nil)
	interviews.On("GetByID", ctx, int64(1)).Return(&domain.Interview{ID: 1, Status: domain.InterviewCompleted}, nil)
	got, err := uc.UpdateInterviewStatus(ctx, 1, domain.InterviewCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.InterviewCompleted, got.Status)

	interviews.On("UpdateStatus", ctx, int64(2), domain.InterviewCancelled).Return(domain.ErrNotFound)
	_, err = uc.UpdateInterviewStatus(ctx, 2, domain.InterviewCancelled)
	assertAppError(t, err, 404)
}

func TestNotes(t *testing.T) {
	ctx := context.Background()

	t.Run("author required", func(t *testing.T) {
		uc := usecase.NewNoteUsecase(new(MockNoteRepo), new(MockCandidateRepo), validation.New())
		err := uc.CreateNote(ctx, &domain.Note{CandidateID: 42, Text: "Strong referral"})
		assertAppError(t, err, 401)
	})

	t.Run("blank text rejected", func(t *testing.T) {
		notes := new(MockNoteRepo)
		uc := usecase.NewNoteUsecase(notes, new(MockCandidateRepo), validation.New())
		err := uc.CreateNote(ctx, &domain.Note{CandidateID: 42, Text: "   ", AuthorEmail: "r@example.com"})
		assertAppError(t, err, 400)
		notes.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("candidate must exist", func(t *testing.T) {
		notes, candidates := new(MockNoteRepo), new(MockCandidateRepo)
		uc := usecase.NewNoteUsecase(notes, candidates, validation.New())
		candidates.On("GetByID", ctx, int64(42)).Return(nil, nil)

		err := uc.CreateNote(ctx, &domain.Note{CandidateID: 42, Text: "hello", AuthorEmail: "r@example.com"})
		assertAppError(t, err, 404)
	})

	t.Run("created", func(t *testing.T) {
		notes, candidates := new(MockNoteRepo), new(MockCandidateRepo)
		uc := usecase.NewNoteUsecase(notes, candidates, validation.New())
		candidates.On("GetByID", ctx, int64(42)).Return(&domain.Candidate{ID: 42}, nil)
		notes.On("Create", ctx, mock.AnythingOfType("*domain.Note")).Return(nil)

		n := &domain.Note{CandidateID: 42, Text: "  Strong referral  ", AuthorEmail: "r@example.com"}
		require.NoError(t, uc.CreateNote(ctx, n))
		assert.Equal(t, "Strong referral", n.Text)
	})

	t.Run("delete missing", func(t *testing.T) {
		notes := new(MockNoteRepo)
		uc := usecase.NewNoteUsecase(notes, new(MockCandidateRepo), validation.New())
		notes.On("Delete", ctx, int64(5)).Return(domain.ErrNotFound)

		assertAppError(t, uc.DeleteNote(ctx, 5), 404)
	})
}
