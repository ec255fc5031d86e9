package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"applicant-tracker/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Dates and times travel as YYYY-MM-DD and HH:MM strings.
const interviewColumns = `i.id, i.candidate_id, i.interviewer_id, to_char(i.date, 'YYYY-MM-DD'), to_char(i.time, 'HH24:MI'), i.type, i.status, i.created_at`

type interviewRepo struct {
	db *pgxpool.Pool
}

func NewInterviewRepository(db *pgxpool.Pool) domain.InterviewRepository {
	return &interviewRepo{db: db}
}

func scanInterview(row pgx.Row, i *domain.Interview, extra ...interface{}) error {
	dest := append([]interface{}{
		&i.ID, &i.CandidateID, &i.InterviewerID, &i.Date, &i.Time, &i.Type, &i.Status, &i.CreatedAt,
	}, extra...)
	return row.Scan(dest...)
}

// List returns interviews joined with candidate and interviewer names, latest first
func (r *interviewRepo) List(ctx context.Context, filter domain.InterviewFilter) ([]domain.InterviewDetail, error) {
	conditions := []string{}
	args := []interface{}{}
	argIndex := 1

	if filter.CandidateID > 0 {
		conditions = append(conditions, fmt.Sprintf("i.candidate_id = $%d", argIndex))
		args = append(args, filter.CandidateID)
		argIndex++
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("i.status = $%d", argIndex))
		args = append(args, filter.Status)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT %s, c.name, c.position, iv.name
		FROM interviews i
		JOIN candidates c ON c.id = i.candidate_id
		JOIN interviewers iv ON iv.id = i.interviewer_id
		%s
		ORDER BY i.date DESC, i.time DESC, i.id DESC`, interviewColumns, whereClause)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}
	defer rows.Close()

	interviews := []domain.InterviewDetail{}
	for rows.Next() {
		var d domain.InterviewDetail
		if err := scanInterview(rows, &d.Interview, &d.CandidateName, &d.CandidatePosition, &d.InterviewerName); err != nil {
			return nil, err
		}
		interviews = append(interviews, d)
	}
	return interviews, rows.Err()
}

func (r *interviewRepo) GetByID(ctx context.Context, id int64) (*domain.Interview, error) {
	query := `SELECT ` + interviewColumns + ` FROM interviews i WHERE i.id = $1`
	var i domain.Interview
	if err := scanInterview(r.db.QueryRow(ctx, query, id), &i); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &i, nil
}

func (r *interviewRepo) Create(ctx context.Context, i *domain.Interview) error {
	query := `INSERT INTO interviews (candidate_id, interviewer_id, date, time, type, status)
              VALUES ($1, $2, $3::date, $4::time, $5, $6)
              RETURNING id, created_at`
	return r.db.QueryRow(ctx, query,
		i.CandidateID, i.InterviewerID, i.Date, i.Time, i.Type, i.Status,
	).Scan(&i.ID, &i.CreatedAt)
}

func (r *interviewRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	result, err := r.db.Exec(ctx, `UPDATE interviews SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *interviewRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM interviews WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type interviewerRepo struct {
	db *pgxpool.Pool
}

func NewInterviewerRepository(db *pgxpool.Pool) domain.InterviewerRepository {
	return &interviewerRepo{db: db}
}

func (r *interviewerRepo) List(ctx context.Context) ([]domain.Interviewer, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, email, title FROM interviewers ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	interviewers := []domain.Interviewer{}
	for rows.Next() {
		var iv domain.Interviewer
		if err := rows.Scan(&iv.ID, &iv.Name, &iv.Email, &iv.Title); err != nil {
			return nil, err
		}
		interviewers = append(interviewers, iv)
	}
	return interviewers, rows.Err()
}

func (r *interviewerRepo) GetByID(ctx context.Context, id int64) (*domain.Interviewer, error) {
	var iv domain.Interviewer
	err := r.db.QueryRow(ctx, `SELECT id, name, email, title FROM interviewers WHERE id = $1`, id).
		Scan(&iv.ID, &iv.Name, &iv.Email, &iv.Title)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &iv, nil
}
