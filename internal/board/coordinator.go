package board

import (
	"context"

	"apoema_board/internal/domain"
)

// Coordinator turns drag-and-drop intents into store mutations. Three intents
// exist: column reorder (a per-user display preference, never broadcast), task
// reorder within a column, and task move across columns. The latter two reduce
// to a rank change, optionally with a new column reference, issued through the
// store's optimistic apply → persist → broadcast sequence.
type Coordinator struct {
	store *Store
}

func NewCoordinator(store *Store) *Coordinator {
	return &Coordinator{store: store}
}

// MoveTaskToColumn handles a drop over a column's empty space: the task moves
// to that column, appended at the end, without reordering siblings. Dropping a
// task on the column it is already in is a no-op.
func (c *Coordinator) MoveTaskToColumn(ctx context.Context, origin, taskID, columnID string) (*domain.Task, error) {
	t := c.store.State().Task(taskID)
	if t == nil {
		return nil, ErrTaskNotFound
	}
	if t.ColumnID == columnID {
		return t.Clone(), nil
	}
	if c.store.State().Column(columnID) == nil {
		return nil, ErrColumnNotFound
	}

	rank := RankAfter(c.store.lastRank(columnID))
	return c.store.UpdateTask(ctx, origin, domain.TaskPatch{
		ID:          taskID,
		ColumnID:    &columnID,
		Rank:        &rank,
		BaseVersion: t.Version,
	})
}

// MoveTaskOver handles a drop onto another task: the mover is pulled out of
// its slot and inserted at the target's index, in the target's column. When
// the mover starts above the target, removing it shifts the target up, so the
// mover lands just below the target; every other drop lands just above it.
// Dropping a task onto itself leaves the order unchanged.
func (c *Coordinator) MoveTaskOver(ctx context.Context, origin, taskID, overTaskID string) (*domain.Task, error) {
	if taskID == overTaskID {
		t := c.store.State().Task(taskID)
		if t == nil {
			return nil, ErrTaskNotFound
		}
		return t.Clone(), nil
	}

	state := c.store.State()
	t := state.Task(taskID)
	if t == nil {
		return nil, ErrTaskNotFound
	}
	over := state.Task(overTaskID)
	if over == nil {
		return nil, ErrTaskNotFound
	}

	siblings := state.TasksInColumn(over.ColumnID)
	movingDown := false
	if t.ColumnID == over.ColumnID {
		for _, s := range siblings {
			if s.ID == taskID {
				movingDown = true
				break
			}
			if s.ID == overTaskID {
				break
			}
		}
	}

	// rank bounds around the target's slot, with the mover out of the picture
	var lo, hi string
	if movingDown {
		lo = over.Rank
		past := false
		for _, s := range siblings {
			if s.ID == overTaskID {
				past = true
				continue
			}
			if past && s.ID != taskID {
				hi = s.Rank
				break
			}
		}
	} else {
		hi = over.Rank
		for _, s := range siblings {
			if s.ID == overTaskID {
				break
			}
			if s.ID != taskID {
				lo = s.Rank
			}
		}
	}

	patch := domain.TaskPatch{ID: taskID, BaseVersion: t.Version}
	rank := RankBetween(lo, hi)
	patch.Rank = &rank
	if t.ColumnID != over.ColumnID {
		columnID := over.ColumnID
		patch.ColumnID = &columnID
	}
	return c.store.UpdateTask(ctx, origin, patch)
}

// ArrayMove returns a copy of order with the element at from moved to to
// (remove source index, insert at target index). A self-move returns the
// original slice unchanged.
func ArrayMove(order []string, from, to int) []string {
	if from == to || from < 0 || to < 0 || from >= len(order) || to >= len(order) {
		return order
	}
	out := make([]string, 0, len(order))
	out = append(out, order[:from]...)
	out = append(out, order[from+1:]...)
	out = append(out[:to], append([]string{order[from]}, out[to:]...)...)
	return out
}

// ReorderColumns moves fromID over toID in the given display order and reports
// whether anything changed. The result is the caller's preference to persist;
// column order is per-user and never broadcast.
func ReorderColumns(order []string, fromID, toID string) ([]string, bool) {
	if fromID == toID {
		return order, false
	}
	from, to := -1, -1
	for i, id := range order {
		switch id {
		case fromID:
			from = i
		case toID:
			to = i
		}
	}
	if from < 0 || to < 0 {
		return order, false
	}
	return ArrayMove(order, from, to), true
}
