package repository

import (
	"context"

	"apoema_board/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ColumnRepository struct {
	db *pgxpool.Pool
}

func NewColumnRepository(db *pgxpool.Pool) *ColumnRepository {
	return &ColumnRepository{db: db}
}

func (r *ColumnRepository) Create(ctx context.Context, c *domain.Column) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO columns (id, board_id, title, version) VALUES ($1, $2, $3, $4) RETURNING created_at`,
		c.ID, c.BoardID, c.Title, c.Version,
	).Scan(&c.CreatedAt)
}

func (r *ColumnRepository) UpdateTitle(ctx context.Context, id, title string, version int64) error {
	_, err := r.db.Exec(ctx,
		`UPDATE columns SET title = $1, version = $2 WHERE id = $3`,
		title, version, id)
	return err
}

// Delete removes the column; its tasks go with it via ON DELETE CASCADE.
func (r *ColumnRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM columns WHERE id = $1`, id)
	return err
}

func (r *ColumnRepository) GetByBoard(ctx context.Context, boardID string) ([]*domain.Column, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, board_id, title, version, created_at
		 FROM columns
		 WHERE board_id = $1
		 ORDER BY created_at, id`,
		boardID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.Column
	for rows.Next() {
		var c domain.Column
		if err := rows.Scan(&c.ID, &c.BoardID, &c.Title, &c.Version, &c.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, &c)
	}
	return res, rows.Err()
}
