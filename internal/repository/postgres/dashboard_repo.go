package postgres

import (
	"context"

	"applicant-tracker/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type dashboardRepo struct {
	db *pgxpool.Pool
}

func NewDashboardRepository(db *pgxpool.Pool) domain.DashboardRepository {
	return &dashboardRepo{db: db}
}

// CountByStatus returns the number of candidates in each pipeline status
func (r *dashboardRepo) CountByStatus(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM candidates GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64, len(domain.CandidateStatuses))
	for _, s := range domain.CandidateStatuses {
		counts[s] = 0
	}
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func (r *dashboardRepo) CountInterviewsByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM interviews WHERE status = $1`, status).Scan(&n)
	return n, err
}

func (r *dashboardRepo) RecentCandidates(ctx context.Context, limit int) ([]domain.Candidate, error) {
	rows, err := r.db.Query(ctx, `SELECT `+candidateColumns+` FROM candidates ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	candidates := []domain.Candidate{}
	for rows.Next() {
		var c domain.Candidate
		if err := scanCandidate(rows, &c); err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

// PositionReports aggregates applications and hires per position
func (r *dashboardRepo) PositionReports(ctx context.Context) ([]domain.PositionReport, error) {
	query := `
		SELECT position, COUNT(*), COUNT(*) FILTER (WHERE status = $1)
		FROM candidates
		GROUP BY position
		ORDER BY COUNT(*) DESC, position`
	rows, err := r.db.Query(ctx, query, domain.StatusHired)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reports := []domain.PositionReport{}
	for rows.Next() {
		var p domain.PositionReport
		if err := rows.Scan(&p.Position, &p.Applications, &p.Hired); err != nil {
			return nil, err
		}
		reports = append(reports, p)
	}
	return reports, rows.Err()
}
