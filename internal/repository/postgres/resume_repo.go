package postgres

import (
	"context"
	"errors"

	"applicant-tracker/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const resumeColumns = `id, candidate_id, file_name, file_path, remote_name, file_size, mime_type, uploaded_by, uploaded_at`

type resumeRepo struct {
	db *pgxpool.Pool
}

func NewResumeRepository(db *pgxpool.Pool) domain.ResumeRepository {
	return &resumeRepo{db: db}
}

func scanResume(row pgx.Row, res *domain.Resume) error {
	return row.Scan(
		&res.ID, &res.CandidateID, &res.FileName, &res.FilePath, &res.RemoteName,
		&res.FileSize, &res.MIMEType, &res.UploadedBy, &res.UploadedAt,
	)
}

func (r *resumeRepo) getOne(ctx context.Context, query string, args ...interface{}) (*domain.Resume, error) {
	var res domain.Resume
	if err := scanResume(r.db.QueryRow(ctx, query, args...), &res); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &res, nil
}

func (r *resumeRepo) GetByID(ctx context.Context, id int64) (*domain.Resume, error) {
	return r.getOne(ctx, `SELECT `+resumeColumns+` FROM resumes WHERE id = $1`, id)
}

// GetLatestByCandidate returns the most recently uploaded resume, or nil.
func (r *resumeRepo) GetLatestByCandidate(ctx context.Context, candidateID int64) (*domain.Resume, error) {
	return r.getOne(ctx, `SELECT `+resumeColumns+` FROM resumes WHERE candidate_id = $1
		ORDER BY uploaded_at DESC, id DESC LIMIT 1`, candidateID)
}

func (r *resumeRepo) ListByCandidate(ctx context.Context, candidateID int64) ([]domain.Resume, error) {
	rows, err := r.db.Query(ctx, `SELECT `+resumeColumns+` FROM resumes WHERE candidate_id = $1
		ORDER BY uploaded_at DESC, id DESC`, candidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var resumes []domain.Resume
	for rows.Next() {
		var res domain.Resume
		if err := scanResume(rows, &res); err != nil {
			return nil, err
		}
		resumes = append(resumes, res)
	}
	return resumes, rows.Err()
}

func (r *resumeRepo) Create(ctx context.Context, res *domain.Resume) error {
	query := `INSERT INTO resumes (candidate_id, file_name, file_path, remote_name, file_size, mime_type, uploaded_by)
              VALUES ($1, $2, $3, $4, $5, $6, $7)
              RETURNING ` + resumeColumns
	return scanResume(r.db.QueryRow(ctx, query,
		res.CandidateID, res.FileName, res.FilePath, res.RemoteName, res.FileSize, res.MIMEType, res.UploadedBy,
	), res)
}

func (r *resumeRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM resumes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
