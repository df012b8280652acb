package domain

import "time"

// Task is a unit of work belonging to exactly one column. The column reference
// is mutable: moving a task between columns updates ColumnID in place, it is
// never a delete+recreate. AssignedTo is a weak reference to a user directory
// name; a dangling reference is tolerated and rendered as a placeholder.
type Task struct {
	ID         string    `db:"id" json:"id"`
	ColumnID   string    `db:"column_id" json:"column_id"`
	Content    string    `db:"content" json:"content"`
	AssignedTo *string   `db:"assigned_to" json:"assigned_to,omitempty"`
	Tag        *string   `db:"tag" json:"tag,omitempty"`
	StartDate  *Date     `db:"start_date" json:"start_date,omitempty"`
	EndDate    *Date     `db:"end_date" json:"end_date,omitempty"`
	Rank       string    `db:"rank" json:"rank"`
	Version    int64     `db:"version" json:"version"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// Clone returns a value copy of the task. Pointer fields are only ever
// replaced wholesale, never written through, so sharing the pointees is safe.
func (t *Task) Clone() *Task {
	cp := *t
	return &cp
}

// TaskPatch is a sparse update: nil fields are left untouched. It doubles as the
// wire payload of a taskUpdated event, so receivers can shallow-merge exactly
// the fields the sender changed.
type TaskPatch struct {
	ID          string  `json:"id"`
	ColumnID    *string `json:"column_id,omitempty"`
	Content     *string `json:"content,omitempty"`
	AssignedTo  *string `json:"assigned_to,omitempty"`
	Tag         *string `json:"tag,omitempty"`
	StartDate   *Date   `json:"start_date,omitempty"`
	EndDate     *Date   `json:"end_date,omitempty"`
	Rank        *string `json:"rank,omitempty"`
	Version     int64   `json:"version,omitempty"`
	BaseVersion int64   `json:"-"`
}

// Empty reports whether the patch touches no fields.
func (p TaskPatch) Empty() bool {
	return p.ColumnID == nil && p.Content == nil && p.AssignedTo == nil &&
		p.Tag == nil && p.StartDate == nil && p.EndDate == nil && p.Rank == nil
}
