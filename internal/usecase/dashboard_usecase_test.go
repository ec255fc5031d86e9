package usecase_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"applicant-tracker/internal/domain"
	"applicant-tracker/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestGetStats(t *testing.T) {
	ctx := context.Background()
	repo := new(MockDashboardRepo)
	uc := usecase.NewDashboardUsecase(repo, new(MockCandidateRepo))

	repo.On("CountByStatus", ctx).Return(map[string]int64{
		domain.StatusNeedsInterview:     4,
		domain.StatusInterviewScheduled: 3,
		domain.StatusUnderReview:        2,
		domain.StatusSubmitted:          1,
		domain.StatusHired:              5,
	}, nil)
	repo.On("CountInterviewsByStatus", ctx, domain.InterviewScheduled).Return(int64(6), nil)
	repo.On("RecentCandidates", ctx, 5).Return([]domain.Candidate{{ID: 9}}, nil)

	stats, err := uc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(15), stats.TotalCandidates)
	assert.Equal(t, int64(5), stats.Hired)
	assert.Equal(t, int64(3), stats.PendingReview)
	assert.Equal(t, int64(6), stats.InterviewsScheduled)
	assert.Len(t, stats.RecentCandidates, 1)
}

func exportFixture() []domain.Candidate {
	created := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	return []domain.Candidate{
		{ID: 1, Name: "Jane Doe", Email: "jane@example.com", Status: domain.StatusHired, Position: "Technician, Senior", CreatedAt: created},
		{ID: 2, Name: "John Roe", Email: "john@example.com", Status: domain.StatusHired, Position: "Analyst", CreatedAt: created},
	}
}

func TestExportCandidatesCSV(t *testing.T) {
	ctx := context.Background()
	candidates := new(MockCandidateRepo)
	uc := usecase.NewDashboardUsecase(new(MockDashboardRepo), candidates)

	candidates.On("List", ctx, mock.MatchedBy(func(f domain.CandidateFilter) bool {
		return f.Page == 1 && f.PageSize == domain.MaxExportRows && len(f.Statuses) == 1
	})).Return(exportFixture(), int64(2), nil)

	data, filename, err := uc.ExportCandidates(ctx, "csv", domain.CandidateFilter{Statuses: []string{domain.StatusHired}})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(filename, ".csv"))

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "NAME", records[0][1])
	assert.Equal(t, "Technician, Senior", records[1][5])
	assert.Equal(t, "2024-03-01 09:30", records[2][10])
}

func TestExportCandidatesXLSX(t *testing.T) {
	ctx := context.Background()
	candidates := new(MockCandidateRepo)
	uc := usecase.NewDashboardUsecase(new(MockDashboardRepo), candidates)
	candidates.On("List", ctx, mock.Anything).Return(exportFixture(), int64(2), nil)

	data, filename, err := uc.ExportCandidates(ctx, "", domain.CandidateFilter{})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(filename, ".xlsx"))

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Candidates")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "EMAIL", rows[0][2])
	assert.Equal(t, "john@example.com", rows[2][2])
}

func TestExportCandidatesRejectsFormat(t *testing.T) {
	candidates := new(MockCandidateRepo)
	uc := usecase.NewDashboardUsecase(new(MockDashboardRepo), candidates)

	_, _, err := uc.ExportCandidates(context.Background(), "pdf", domain.CandidateFilter{})
	assertAppError(t, err, 400)
	candidates.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}
