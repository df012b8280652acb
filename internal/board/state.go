package board

import (
	"sort"

	"apoema_board/internal/domain"
)

// State holds one board's live columns and tasks. It is not goroutine-safe on
// its own: a State is owned by the room that serves the board, and every
// mutation runs under the room's lock.
type State struct {
	boardID string
	columns []*domain.Column
	tasks   []*domain.Task
}

func NewState(boardID string, columns []*domain.Column, tasks []*domain.Task) *State {
	s := &State{
		boardID: boardID,
		columns: append([]*domain.Column(nil), columns...),
		tasks:   append([]*domain.Task(nil), tasks...),
	}
	s.sortTasks()
	return s
}

func (s *State) BoardID() string { return s.boardID }

// Columns returns the columns in creation order, as detached copies: callers
// marshal and inspect snapshots outside the room's lock, so they must not
// share memory with the live entities. Display order is a per-user preference
// applied by the client, not shared state.
func (s *State) Columns() []*domain.Column {
	res := make([]*domain.Column, len(s.columns))
	for i, c := range s.columns {
		res[i] = c.Clone()
	}
	return res
}

// Tasks returns all tasks on the board, rank-ordered, as detached copies.
func (s *State) Tasks() []*domain.Task {
	res := make([]*domain.Task, len(s.tasks))
	for i, t := range s.tasks {
		res[i] = t.Clone()
	}
	return res
}

// TasksInColumn returns the column's task list, rank-ordered. This is a derived
// view: a task's column membership lives on the task itself.
func (s *State) TasksInColumn(columnID string) []*domain.Task {
	var res []*domain.Task
	for _, t := range s.tasks {
		if t.ColumnID == columnID {
			res = append(res, t)
		}
	}
	return res
}

func (s *State) Column(id string) *domain.Column {
	for _, c := range s.columns {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (s *State) Task(id string) *domain.Task {
	for _, t := range s.tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// ApplyColumnCreated appends the column, or ignores the event when a column
// with the same id is already present (duplicate delivery).
func (s *State) ApplyColumnCreated(c *domain.Column) {
	if s.Column(c.ID) != nil {
		return
	}
	cp := *c
	s.columns = append(s.columns, &cp)
}

// ApplyColumnUpdated shallow-merges the patch into the existing column. An
// update for an unknown id is dropped: it raced ahead of its create, and the
// owning session's own state is already correct. A patch whose version is not
// newer than the current one is stale and dropped too.
func (s *State) ApplyColumnUpdated(p domain.ColumnPatch) {
	c := s.Column(p.ID)
	if c == nil {
		return
	}
	if p.Version != 0 && p.Version <= c.Version {
		return
	}
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Version != 0 {
		c.Version = p.Version
	}
}

// ApplyColumnDeleted removes the column and cascades to every task that
// references it. Unknown id is a no-op.
func (s *State) ApplyColumnDeleted(id string) {
	for i, c := range s.columns {
		if c.ID == id {
			s.columns = append(s.columns[:i], s.columns[i+1:]...)
			break
		}
	}
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if t.ColumnID != id {
			kept = append(kept, t)
		}
	}
	s.tasks = kept
}

func (s *State) ApplyTaskCreated(t *domain.Task) {
	if s.Task(t.ID) != nil {
		return
	}
	cp := *t
	s.tasks = append(s.tasks, &cp)
	s.sortTasks()
}

func (s *State) ApplyTaskUpdated(p domain.TaskPatch) {
	t := s.Task(p.ID)
	if t == nil {
		return
	}
	if p.Version != 0 && p.Version <= t.Version {
		return
	}
	mergeTask(t, p)
	if p.Rank != nil {
		s.sortTasks()
	}
}

func (s *State) ApplyTaskDeleted(id string) {
	for i, t := range s.tasks {
		if t.ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return
		}
	}
}

func mergeTask(t *domain.Task, p domain.TaskPatch) {
	if p.ColumnID != nil {
		t.ColumnID = *p.ColumnID
	}
	if p.Content != nil {
		t.Content = *p.Content
	}
	if p.AssignedTo != nil {
		if *p.AssignedTo == "" {
			t.AssignedTo = nil
		} else {
			t.AssignedTo = p.AssignedTo
		}
	}
	if p.Tag != nil {
		if *p.Tag == "" {
			t.Tag = nil
		} else {
			t.Tag = p.Tag
		}
	}
	if p.StartDate != nil {
		t.StartDate = p.StartDate
	}
	if p.EndDate != nil {
		t.EndDate = p.EndDate
	}
	if p.Rank != nil {
		t.Rank = *p.Rank
	}
	if p.Version != 0 {
		t.Version = p.Version
	}
}

func (s *State) sortTasks() {
	sort.SliceStable(s.tasks, func(i, j int) bool {
		a, b := s.tasks[i], s.tasks[j]
		if a.Rank != b.Rank {
			return a.Rank < b.Rank
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}
