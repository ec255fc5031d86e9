package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"applicant-tracker/internal/domain"
	"applicant-tracker/pkg/apperror"

	"github.com/xuri/excelize/v2"
)

const recentCandidatesLimit = 5

type dashboardUsecase struct {
	dashboardRepo domain.DashboardRepository
	candidateRepo domain.CandidateRepository
	now           func() time.Time
}

func NewDashboardUsecase(dashboardRepo domain.DashboardRepository, candidateRepo domain.CandidateRepository) domain.DashboardUsecase {
	return &dashboardUsecase{
		dashboardRepo: dashboardRepo,
		candidateRepo: candidateRepo,
		now:           time.Now,
	}
}

func (u *dashboardUsecase) GetStats(ctx context.Context) (*domain.DashboardStats, error) {
	byStatus, err := u.dashboardRepo.CountByStatus(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	scheduled, err := u.dashboardRepo.CountInterviewsByStatus(ctx, domain.InterviewScheduled)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	recent, err := u.dashboardRepo.RecentCandidates(ctx, recentCandidatesLimit)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	stats := &domain.DashboardStats{
		ByStatus:            byStatus,
		InterviewsScheduled: scheduled,
		Hired:               byStatus[domain.StatusHired],
		PendingReview:       byStatus[domain.StatusUnderReview] + byStatus[domain.StatusSubmitted],
		RecentCandidates:    recent,
	}
	for _, n := range byStatus {
		stats.TotalCandidates += n
	}
	return stats, nil
}

func (u *dashboardUsecase) GetPositionReports(ctx context.Context) ([]domain.PositionReport, error) {
	reports, err := u.dashboardRepo.PositionReports(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return reports, nil
}

// exportColumns are the candidate fields written to exports, in order
var exportColumns = []struct {
	header string
	value  func(c domain.Candidate) interface{}
}{
	{"ID", func(c domain.Candidate) interface{} { return c.ID }},
	{"NAME", func(c domain.Candidate) interface{} { return c.Name }},
	{"EMAIL", func(c domain.Candidate) interface{} { return c.Email }},
	{"PHONE", func(c domain.Candidate) interface{} { return c.Phone }},
	{"STATUS", func(c domain.Candidate) interface{} { return c.Status }},
	{"POSITION", func(c domain.Candidate) interface{} { return c.Position }},
	{"DEPARTMENT", func(c domain.Candidate) interface{} { return c.Department }},
	{"HIRING LOCATION", func(c domain.Candidate) interface{} { return c.HiringLocation }},
	{"CITY", func(c domain.Candidate) interface{} { return c.City }},
	{"STATE", func(c domain.Candidate) interface{} { return c.State }},
	{"CREATED AT", func(c domain.Candidate) interface{} { return c.CreatedAt.Format("2006-01-02 15:04") }},
}

func (u *dashboardUsecase) ExportCandidates(ctx context.Context, format string, filter domain.CandidateFilter) ([]byte, string, error) {
	if format == "" {
		format = domain.ExportFormatXLSX
	}
	if format != domain.ExportFormatXLSX && format != domain.ExportFormatCSV {
		return nil, "", apperror.BadRequest(fmt.Sprintf("Unsupported export format: %q", format))
	}
	if err := validateStatusFilter(filter.Statuses); err != nil {
		return nil, "", err
	}

	// Limit export to MaxExportRows
	filter.Page = 1
	filter.PageSize = domain.MaxExportRows

	candidates, _, err := u.candidateRepo.List(ctx, filter)
	if err != nil {
		return nil, "", apperror.Internal(fmt.Errorf("failed to fetch candidates for export: %w", err))
	}

	var data []byte
	if format == domain.ExportFormatCSV {
		data, err = exportCSV(candidates)
	} else {
		data, err = exportExcel(candidates)
	}
	if err != nil {
		return nil, "", apperror.Internal(err)
	}

	filename := fmt.Sprintf("candidates_%s.%s", u.now().Format("20060102_150405"), format)
	return data, filename, nil
}

// exportExcel generates an Excel file from candidate data
func exportExcel(candidates []domain.Candidate) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Candidates"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	for i, col := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col.header)
	}

	// Style headers - Dark Blue background with White text
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	endCell, _ := excelize.CoordinatesToCellName(len(exportColumns), 1)
	f.SetCellStyle(sheetName, "A1", endCell, headerStyle)

	for rowIdx, candidate := range candidates {
		for colIdx, col := range exportColumns {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, col.value(candidate))
		}
	}

	for i := range exportColumns {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 20)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

// exportCSV generates a CSV file from candidate data
func exportCSV(candidates []domain.Candidate) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := make([]string, len(exportColumns))
	for i, col := range exportColumns {
		header[i] = col.header
	}
	_ = w.Write(header)

	for _, candidate := range candidates {
		row := make([]string, len(exportColumns))
		for i, col := range exportColumns {
			row[i] = fmt.Sprintf("%v", col.value(candidate))
		}
		_ = w.Write(row)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}
	return buf.Bytes(), nil
}
