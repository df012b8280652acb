package repository

import (
	"context"

	"apoema_board/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type BoardRepository struct {
	db *pgxpool.Pool
}

func NewBoardRepository(db *pgxpool.Pool) *BoardRepository {
	return &BoardRepository{db: db}
}

func (r *BoardRepository) Create(ctx context.Context, b *domain.Board) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO boards (id, name) VALUES ($1, $2) RETURNING created_at`,
		b.ID, b.Name,
	).Scan(&b.CreatedAt)
}

func (r *BoardRepository) GetByID(ctx context.Context, id string) (*domain.Board, error) {
	var b domain.Board
	err := r.db.QueryRow(ctx,
		`SELECT id, name, created_at FROM boards WHERE id = $1`, id,
	).Scan(&b.ID, &b.Name, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BoardRepository) List(ctx context.Context) ([]*domain.Board, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, created_at FROM boards ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.Board
	for rows.Next() {
		var b domain.Board
		if err := rows.Scan(&b.ID, &b.Name, &b.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, &b)
	}
	return res, rows.Err()
}

func (r *BoardRepository) Rename(ctx context.Context, id, name string) error {
	_, err := r.db.Exec(ctx, `UPDATE boards SET name = $1 WHERE id = $2`, name, id)
	return err
}

// Delete removes the board; columns and their tasks go with it via
// ON DELETE CASCADE on the foreign keys.
func (r *BoardRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM boards WHERE id = $1`, id)
	return err
}

// TaskCount returns the number of tasks on the board across all columns.
func (r *BoardRepository) TaskCount(ctx context.Context, id string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT count(*) FROM tasks t JOIN columns c ON c.id = t.column_id WHERE c.board_id = $1`,
		id,
	).Scan(&n)
	return n, err
}
