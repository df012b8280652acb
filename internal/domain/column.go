package domain

import "time"

// Column is a named bucket of tasks within a board. The id is an opaque token
// generated by the creating session, which allows optimistic local creation
// before the row exists.
type Column struct {
	ID        string    `db:"id" json:"id"`
	BoardID   string    `db:"board_id" json:"board_id"`
	Title     string    `db:"title" json:"title"`
	Version   int64     `db:"version" json:"version"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Clone returns a value copy of the column.
func (c *Column) Clone() *Column {
	cp := *c
	return &cp
}

// ColumnPatch carries the fields of a column update. BaseVersion is the version
// the caller last saw; a mismatch means someone else updated the column first.
type ColumnPatch struct {
	ID          string  `json:"id"`
	Title       *string `json:"title,omitempty"`
	Version     int64   `json:"version,omitempty"`
	BaseVersion int64   `json:"-"`
}
