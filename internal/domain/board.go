package domain

import "time"

// Board is a named workspace containing a set of columns.
type Board struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// BoardPrefs holds per-user display preferences for one board. Column order is a
// client-local preference, not shared state: two users may see the same board's
// columns in different orders.
type BoardPrefs struct {
	BoardID     string   `db:"board_id" json:"board_id"`
	UserID      int64    `db:"user_id" json:"user_id"`
	ColumnOrder []string `db:"column_order" json:"column_order"`
}
