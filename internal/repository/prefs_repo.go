package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PrefsRepository stores per-user board display preferences. Column order is a
// client-local preference, so it is persisted per (board, user) and never
// broadcast to other sessions.
type PrefsRepository struct {
	db *pgxpool.Pool
}

func NewPrefsRepository(db *pgxpool.Pool) *PrefsRepository {
	return &PrefsRepository{db: db}
}

// GetColumnOrder returns the saved column order, or nil when the user has no
// saved preference for the board.
func (r *PrefsRepository) GetColumnOrder(ctx context.Context, boardID string, userID int64) ([]string, error) {
	var order []string
	err := r.db.QueryRow(ctx,
		`SELECT column_order FROM board_prefs WHERE board_id = $1 AND user_id = $2`,
		boardID, userID,
	).Scan(&order)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *PrefsRepository) SaveColumnOrder(ctx context.Context, boardID string, userID int64, order []string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO board_prefs (board_id, user_id, column_order)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (board_id, user_id) DO UPDATE SET column_order = EXCLUDED.column_order`,
		boardID, userID, order)
	return err
}
