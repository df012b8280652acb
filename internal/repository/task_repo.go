package repository

import (
	"context"
	"fmt"
	"strings"

	"apoema_board/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type TaskRepository struct {
	db *pgxpool.Pool
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO tasks (id, column_id, content, assigned_to, tag, start_date, end_date, rank, version)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING created_at`,
		t.ID, t.ColumnID, t.Content, t.AssignedTo, t.Tag, t.StartDate, t.EndDate, t.Rank, t.Version,
	).Scan(&t.CreatedAt)
}

// Update translates only the fields present in the patch into a targeted UPDATE.
// Fields absent from the patch are left untouched server-side.
func (r *TaskRepository) Update(ctx context.Context, p domain.TaskPatch) error {
	sets := make([]string, 0, 8)
	args := make([]any, 0, 9)

	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if p.ColumnID != nil {
		add("column_id", *p.ColumnID)
	}
	if p.Content != nil {
		add("content", *p.Content)
	}
	// empty string means "clear": store NULL, not ''
	if p.AssignedTo != nil {
		if *p.AssignedTo == "" {
			add("assigned_to", nil)
		} else {
			add("assigned_to", *p.AssignedTo)
		}
	}
	if p.Tag != nil {
		if *p.Tag == "" {
			add("tag", nil)
		} else {
			add("tag", *p.Tag)
		}
	}
	if p.StartDate != nil {
		add("start_date", *p.StartDate)
	}
	if p.EndDate != nil {
		add("end_date", *p.EndDate)
	}
	if p.Rank != nil {
		add("rank", *p.Rank)
	}
	if len(sets) == 0 {
		return nil
	}
	add("version", p.Version)

	args = append(args, p.ID)
	q := fmt.Sprintf(`UPDATE tasks SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))
	_, err := r.db.Exec(ctx, q, args...)
	return err
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	return err
}

func (r *TaskRepository) GetByBoard(ctx context.Context, boardID string) ([]*domain.Task, error) {
	rows, err := r.db.Query(ctx,
		`SELECT t.id, t.column_id, t.content, t.assigned_to, t.tag, t.start_date, t.end_date, t.rank, t.version, t.created_at
		 FROM tasks t
		 JOIN columns c ON c.id = t.column_id
		 WHERE c.board_id = $1
		 ORDER BY t.rank, t.created_at, t.id`,
		boardID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTasks(rows)
}

func (r *TaskRepository) GetByColumn(ctx context.Context, columnID string) ([]*domain.Task, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, column_id, content, assigned_to, tag, start_date, end_date, rank, version, created_at
		 FROM tasks
		 WHERE column_id = $1
		 ORDER BY rank, created_at, id`,
		columnID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTasks(rows)
}

type taskRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanTasks(rows taskRows) ([]*domain.Task, error) {
	var res []*domain.Task
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(&t.ID, &t.ColumnID, &t.Content, &t.AssignedTo, &t.Tag,
			&t.StartDate, &t.EndDate, &t.Rank, &t.Version, &t.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, &t)
	}
	return res, rows.Err()
}
