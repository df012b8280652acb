package board

import (
	"context"
	"errors"
	"slices"

	"apoema_board/internal/domain"
	"apoema_board/internal/logger"

	"github.com/google/uuid"
)

var (
	ErrColumnNotFound  = errors.New("column not found")
	ErrTaskNotFound    = errors.New("task not found")
	ErrVersionConflict = errors.New("version conflict")
)

// ColumnGateway is the persistence surface the store needs for columns. One
// round trip per call, no cross-entity transactions.
type ColumnGateway interface {
	Create(ctx context.Context, c *domain.Column) error
	UpdateTitle(ctx context.Context, id, title string, version int64) error
	Delete(ctx context.Context, id string) error
}

// TaskGateway is the persistence surface for tasks. Update is partial: fields
// absent from the patch stay untouched server-side.
type TaskGateway interface {
	Create(ctx context.Context, t *domain.Task) error
	Update(ctx context.Context, p domain.TaskPatch) error
	Delete(ctx context.Context, id string) error
}

// Publisher fans a mutation event out to the board's other sessions. Publish
// failures must not roll back the already-persisted mutation; late sessions
// catch up on their next full load.
type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// Store binds a board's live State to its persistence gateways and relay
// channel. Every local mutation follows the same sequence: confirm or
// synthesize an id, apply to the in-memory state, persist, then broadcast.
// When persistence fails the optimistic change is reverted, so the state never
// diverges from ground truth past the failed call. Entities returned from
// mutations are detached copies, safe to read after the room's lock is gone.
type Store struct {
	state   *State
	columns ColumnGateway
	tasks   TaskGateway
	pub     Publisher
}

func NewStore(state *State, columns ColumnGateway, tasks TaskGateway, pub Publisher) *Store {
	return &Store{state: state, columns: columns, tasks: tasks, pub: pub}
}

func (st *Store) State() *State { return st.state }

func (st *Store) CreateColumn(ctx context.Context, origin, id, title string) (*domain.Column, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if existing := st.state.Column(id); existing != nil {
		return existing.Clone(), nil
	}

	col := &domain.Column{ID: id, BoardID: st.state.boardID, Title: title, Version: 1}
	st.state.ApplyColumnCreated(col)
	applied := st.state.Column(id)

	if err := st.columns.Create(ctx, applied); err != nil {
		logger.Error("create column failed", "board", st.state.boardID, "column", id, "error", err)
		st.state.ApplyColumnDeleted(id)
		return nil, err
	}

	st.pub.Publish(ctx, newEvent(EvtColumnCreated, st.state.boardID, origin, applied))
	return applied.Clone(), nil
}

func (st *Store) UpdateColumnTitle(ctx context.Context, origin, id, title string, baseVersion int64) (*domain.Column, error) {
	col := st.state.Column(id)
	if col == nil {
		return nil, ErrColumnNotFound
	}
	if baseVersion != 0 && baseVersion != col.Version {
		return nil, ErrVersionConflict
	}

	snapshot := *col
	patch := domain.ColumnPatch{ID: id, Title: &title, Version: col.Version + 1}
	st.state.ApplyColumnUpdated(patch)

	if err := st.columns.UpdateTitle(ctx, id, title, patch.Version); err != nil {
		logger.Error("update column failed", "board", st.state.boardID, "column", id, "error", err)
		*col = snapshot
		return nil, err
	}

	st.pub.Publish(ctx, newEvent(EvtColumnUpdated, st.state.boardID, origin, patch))
	return col.Clone(), nil
}

// DeleteColumn removes the column and, by cascade, its tasks. Deleting an
// unknown id is a no-op.
func (st *Store) DeleteColumn(ctx context.Context, origin, id string) error {
	col := st.state.Column(id)
	if col == nil {
		return nil
	}

	colIdx := slices.Index(st.state.columns, col)
	snapshot := *col
	cascaded := st.state.TasksInColumn(id)

	st.state.ApplyColumnDeleted(id)

	if err := st.columns.Delete(ctx, id); err != nil {
		logger.Error("delete column failed", "board", st.state.boardID, "column", id, "error", err)
		restored := snapshot
		st.state.columns = slices.Insert(st.state.columns, colIdx, &restored)
		st.state.tasks = append(st.state.tasks, cascaded...)
		st.state.sortTasks()
		return err
	}

	st.pub.Publish(ctx, newEvent(EvtColumnDeleted, st.state.boardID, origin, DeletedPayload{ID: id}))
	return nil
}

// CreateTask creates t in the store's board. The task's column must already
// exist. An empty id or rank is filled in here.
func (st *Store) CreateTask(ctx context.Context, origin string, t *domain.Task) (*domain.Task, error) {
	if st.state.Column(t.ColumnID) == nil {
		return nil, ErrColumnNotFound
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if existing := st.state.Task(t.ID); existing != nil {
		return existing.Clone(), nil
	}
	if t.Rank == "" {
		t.Rank = RankAfter(st.lastRank(t.ColumnID))
	}
	t.Version = 1

	st.state.ApplyTaskCreated(t)
	applied := st.state.Task(t.ID)

	if err := st.tasks.Create(ctx, applied); err != nil {
		logger.Error("create task failed", "board", st.state.boardID, "task", t.ID, "error", err)
		st.state.ApplyTaskDeleted(t.ID)
		return nil, err
	}

	st.pub.Publish(ctx, newEvent(EvtTaskCreated, st.state.boardID, origin, applied))
	return applied.Clone(), nil
}

// UpdateTask applies a sparse patch: only the provided fields change, locally
// and server-side. A stale BaseVersion is rejected instead of silently
// clobbering a concurrent edit.
func (st *Store) UpdateTask(ctx context.Context, origin string, p domain.TaskPatch) (*domain.Task, error) {
	t := st.state.Task(p.ID)
	if t == nil {
		return nil, ErrTaskNotFound
	}
	if p.BaseVersion != 0 && p.BaseVersion != t.Version {
		return nil, ErrVersionConflict
	}
	if p.ColumnID != nil && st.state.Column(*p.ColumnID) == nil {
		return nil, ErrColumnNotFound
	}
	if p.Empty() {
		return t.Clone(), nil
	}

	snapshot := *t
	p.Version = t.Version + 1
	st.state.ApplyTaskUpdated(p)

	if err := st.tasks.Update(ctx, p); err != nil {
		logger.Error("update task failed", "board", st.state.boardID, "task", p.ID, "error", err)
		*t = snapshot
		if p.Rank != nil {
			st.state.sortTasks()
		}
		return nil, err
	}

	st.pub.Publish(ctx, newEvent(EvtTaskUpdated, st.state.boardID, origin, p))
	return t.Clone(), nil
}

func (st *Store) DeleteTask(ctx context.Context, origin, id string) error {
	t := st.state.Task(id)
	if t == nil {
		return nil
	}

	snapshot := *t
	st.state.ApplyTaskDeleted(id)

	if err := st.tasks.Delete(ctx, id); err != nil {
		logger.Error("delete task failed", "board", st.state.boardID, "task", id, "error", err)
		restored := snapshot
		st.state.tasks = append(st.state.tasks, &restored)
		st.state.sortTasks()
		return err
	}

	st.pub.Publish(ctx, newEvent(EvtTaskDeleted, st.state.boardID, origin, DeletedPayload{ID: id}))
	return nil
}

func (st *Store) lastRank(columnID string) string {
	tasks := st.state.TasksInColumn(columnID)
	if len(tasks) == 0 {
		return ""
	}
	return tasks[len(tasks)-1].Rank
}
