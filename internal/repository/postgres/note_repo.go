package postgres

import (
	"context"

	"applicant-tracker/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type noteRepo struct {
	db *pgxpool.Pool
}

func NewNoteRepository(db *pgxpool.Pool) domain.NoteRepository {
	return &noteRepo{db: db}
}

func (r *noteRepo) ListByCandidate(ctx context.Context, candidateID int64) ([]domain.Note, error) {
	query := `SELECT id, candidate_id, text, author_email, created_at FROM notes
              WHERE candidate_id = $1 ORDER BY created_at DESC, id DESC`
	rows, err := r.db.Query(ctx, query, candidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := []domain.Note{}
	for rows.Next() {
		var n domain.Note
		if err := rows.Scan(&n.ID, &n.CandidateID, &n.Text, &n.AuthorEmail, &n.CreatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (r *noteRepo) Create(ctx context.Context, n *domain.Note) error {
	query := `INSERT INTO notes (candidate_id, text, author_email) VALUES ($1, $2, $3) RETURNING id, created_at`
	return r.db.QueryRow(ctx, query, n.CandidateID, n.Text, n.AuthorEmail).Scan(&n.ID, &n.CreatedAt)
}

func (r *noteRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
