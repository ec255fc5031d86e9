package domain

import "context"

// DashboardStats contains dashboard statistics
type DashboardStats struct {
	TotalCandidates     int64            `json:"totalCandidates"`
	ByStatus            map[string]int64 `json:"byStatus"`
	InterviewsScheduled int64            `json:"interviewsScheduled"`
	Hired               int64            `json:"hired"`
	PendingReview       int64            `json:"pendingReview"`
	RecentCandidates    []Candidate      `json:"recentCandidates"`
}

// PositionReport aggregates candidates applying for one position.
type PositionReport struct {
	Position     string `json:"position"`
	Applications int64  `json:"applications"`
	Hired        int64  `json:"hired"`
}

// Export formats
const (
	ExportFormatXLSX = "xlsx"
	ExportFormatCSV  = "csv"
)

// MaxExportRows caps the candidate export.
const MaxExportRows = 10000

type DashboardRepository interface {
	CountByStatus(ctx context.Context) (map[string]int64, error)
	CountInterviewsByStatus(ctx context.Context, status string) (int64, error)
	RecentCandidates(ctx context.Context, limit int) ([]Candidate, error)
	PositionReports(ctx context.Context) ([]PositionReport, error)
}

type DashboardUsecase interface {
	GetStats(ctx context.Context) (*DashboardStats, error)
	GetPositionReports(ctx context.Context) ([]PositionReport, error)
	// ExportCandidates returns the file bytes and a download file name.
	ExportCandidates(ctx context.Context, format string, filter CandidateFilter) ([]byte, string, error)
}
