package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"applicant-tracker/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

const candidateColumns = `id, name, email, phone, status, position, department, hiring_location, city, state, created_at, updated_at`

type candidateRepository struct {
	db *pgxpool.Pool
}

func NewCandidateRepository(db *pgxpool.Pool) domain.CandidateRepository {
	return &candidateRepository{db: db}
}

func scanCandidate(row pgx.Row, c *domain.Candidate) error {
	return row.Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.Status, &c.Position,
		&c.Department, &c.HiringLocation, &c.City, &c.State,
		&c.CreatedAt, &c.UpdatedAt,
	)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// List fetches candidates matching the filter, newest first
func (r *candidateRepository) List(ctx context.Context, filter domain.CandidateFilter) ([]domain.Candidate, int64, error) {
	// Build dynamic WHERE clause
	conditions := []string{}
	args := []interface{}{}
	argIndex := 1

	if len(filter.Statuses) > 0 {
		conditions = append(conditions, fmt.Sprintf("status = ANY($%d::text[])", argIndex))
		args = append(args, pq.Array(filter.Statuses))
		argIndex++
	}

	if filter.Department != "" {
		conditions = append(conditions, fmt.Sprintf("department = $%d", argIndex))
		args = append(args, filter.Department)
		argIndex++
	}

	if filter.HiringLocation != "" {
		conditions = append(conditions, fmt.Sprintf("hiring_location = $%d", argIndex))
		args = append(args, filter.HiringLocation)
		argIndex++
	}

	if q := strings.TrimSpace(filter.Query); q != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(name ILIKE $%d OR email ILIKE $%d OR position ILIKE $%d OR phone ILIKE $%d)",
			argIndex, argIndex, argIndex, argIndex))
		args = append(args, "%"+q+"%")
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM candidates " + whereClause
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count candidates: %w", err)
	}

	offset := (filter.Page - 1) * filter.PageSize
	query := fmt.Sprintf(`SELECT %s FROM candidates %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		candidateColumns, whereClause, argIndex, argIndex+1)
	args = append(args, filter.PageSize, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list candidates: %w", err)
	}
	defer rows.Close()

	candidates := []domain.Candidate{}
	for rows.Next() {
		var c domain.Candidate
		if err := scanCandidate(rows, &c); err != nil {
			return nil, 0, err
		}
		candidates = append(candidates, c)
	}
	return candidates, total, rows.Err()
}

func (r *candidateRepository) GetByID(ctx context.Context, id int64) (*domain.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE id = $1`
	var c domain.Candidate
	if err := scanCandidate(r.db.QueryRow(ctx, query, id), &c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *candidateRepository) Create(ctx context.Context, c *domain.Candidate) error {
	query := `INSERT INTO candidates (name, email, phone, status, position, department, hiring_location, city, state)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
              RETURNING ` + candidateColumns
	err := scanCandidate(r.db.QueryRow(ctx, query,
		c.Name, c.Email, c.Phone, c.Status, c.Position, c.Department, c.HiringLocation, c.City, c.State,
	), c)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateEmail
	}
	return err
}

func (r *candidateRepository) Update(ctx context.Context, c *domain.Candidate) error {
	query := `UPDATE candidates SET
		name = $2,
		email = $3,
		phone = $4,
		status = $5,
		position = $6,
		department = $7,
		hiring_location = $8,
		city = $9,
		state = $10,
		updated_at = NOW()
	WHERE id = $1
	RETURNING ` + candidateColumns
	err := scanCandidate(r.db.QueryRow(ctx, query,
		c.ID, c.Name, c.Email, c.Phone, c.Status, c.Position, c.Department, c.HiringLocation, c.City, c.State,
	), c)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return domain.ErrNotFound
	case isUniqueViolation(err):
		return domain.ErrDuplicateEmail
	}
	return err
}

func (r *candidateRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	result, err := r.db.Exec(ctx, `UPDATE candidates SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *candidateRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM candidates WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
