package board

import (
	"encoding/json"
	"testing"

	"apoema_board/internal/domain"
)

func strPtr(s string) *string { return &s }

func testState() *State {
	return NewState("b1",
		[]*domain.Column{
			{ID: "c1", BoardID: "b1", Title: "To Do", Version: 1},
			{ID: "c2", BoardID: "b1", Title: "Doing", Version: 1},
		},
		[]*domain.Task{
			{ID: "t1", ColumnID: "c1", Content: "Draft roadmap", Rank: "i", Version: 1},
			{ID: "t2", ColumnID: "c1", Content: "Review", Rank: "r", Version: 1},
			{ID: "t3", ColumnID: "c2", Content: "Deploy", Rank: "i", Version: 1},
		},
	)
}

func TestApplyTaskCreatedIdempotent(t *testing.T) {
	s := testState()

	task := &domain.Task{ID: "t4", ColumnID: "c1", Content: "New", Rank: "w", Version: 1}
	s.ApplyTaskCreated(task)
	s.ApplyTaskCreated(task)

	count := 0
	for _, got := range s.Tasks() {
		if got.ID == "t4" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("duplicate taskCreated produced %d entries; want 1", count)
	}
}

func TestApplyColumnCreatedIdempotent(t *testing.T) {
	s := testState()

	col := &domain.Column{ID: "c3", BoardID: "b1", Title: "Done", Version: 1}
	s.ApplyColumnCreated(col)
	s.ApplyColumnCreated(col)

	if got := len(s.Columns()); got != 3 {
		t.Fatalf("columns = %d; want 3", got)
	}
}

func TestApplyColumnDeletedCascades(t *testing.T) {
	s := testState()

	s.ApplyColumnDeleted("c1")

	if s.Column("c1") != nil {
		t.Fatal("column c1 still present")
	}
	for _, task := range s.Tasks() {
		if task.ColumnID == "c1" {
			t.Fatalf("task %s still references deleted column", task.ID)
		}
	}
	if s.Task("t3") == nil {
		t.Fatal("cascade removed a task from another column")
	}

	// deleting again is a no-op
	s.ApplyColumnDeleted("c1")
}

func TestApplyTaskUpdatedMergesOnlyProvidedFields(t *testing.T) {
	s := testState()
	s.ApplyTaskUpdated(domain.TaskPatch{ID: "t1", AssignedTo: strPtr("Alice"), Tag: strPtr("URGENT"), Version: 2})

	s.ApplyTaskUpdated(domain.TaskPatch{ID: "t1", Content: strPtr("x"), Version: 3})

	got := s.Task("t1")
	if got.Content != "x" {
		t.Fatalf("content = %q; want %q", got.Content, "x")
	}
	if got.AssignedTo == nil || *got.AssignedTo != "Alice" {
		t.Fatalf("assigned_to = %v; want Alice", got.AssignedTo)
	}
	if got.Tag == nil || *got.Tag != "URGENT" {
		t.Fatalf("tag = %v; want URGENT", got.Tag)
	}
}

func TestApplyTaskUpdatedDropsStaleVersion(t *testing.T) {
	s := testState()
	s.ApplyTaskUpdated(domain.TaskPatch{ID: "t1", Content: strPtr("fresh"), Version: 5})

	s.ApplyTaskUpdated(domain.TaskPatch{ID: "t1", Content: strPtr("stale"), Version: 3})

	if got := s.Task("t1").Content; got != "fresh" {
		t.Fatalf("content = %q; stale update was applied", got)
	}
}

func TestApplyUpdateForUnknownIDIsNoop(t *testing.T) {
	s := testState()

	s.ApplyTaskUpdated(domain.TaskPatch{ID: "ghost", Content: strPtr("x"), Version: 2})
	s.ApplyColumnUpdated(domain.ColumnPatch{ID: "ghost", Title: strPtr("x"), Version: 2})
	s.ApplyTaskDeleted("ghost")
	s.ApplyColumnDeleted("ghost")

	if len(s.Tasks()) != 3 || len(s.Columns()) != 2 {
		t.Fatal("no-op events changed state")
	}
}

func TestApplyEventRoundTrip(t *testing.T) {
	s := testState()

	payload, _ := json.Marshal(domain.Task{ID: "t9", ColumnID: "c2", Content: "From wire", Rank: "z", Version: 1})
	e := Event{Name: EvtTaskCreated, BoardID: "b1", Payload: payload}

	if err := s.ApplyEvent(e); err != nil {
		t.Fatalf("ApplyEvent: %v", err)
	}
	if err := s.ApplyEvent(e); err != nil {
		t.Fatalf("ApplyEvent (duplicate): %v", err)
	}

	if got := s.Task("t9"); got == nil || got.Content != "From wire" {
		t.Fatalf("task t9 = %+v", got)
	}
	if n := len(s.TasksInColumn("c2")); n != 2 {
		t.Fatalf("c2 tasks = %d; want 2", n)
	}

	if err := s.ApplyEvent(Event{Name: "bogus"}); err == nil {
		t.Fatal("expected error for unknown event name")
	}
}

func TestTasksInColumnIsRankOrdered(t *testing.T) {
	s := NewState("b1",
		[]*domain.Column{{ID: "c1", Title: "A", Version: 1}},
		[]*domain.Task{
			{ID: "t2", ColumnID: "c1", Rank: "r", Version: 1},
			{ID: "t1", ColumnID: "c1", Rank: "i", Version: 1},
			{ID: "t3", ColumnID: "c1", Rank: "w", Version: 1},
		},
	)

	got := s.TasksInColumn("c1")
	want := []string{"t1", "t2", "t3"}
	for i, task := range got {
		if task.ID != want[i] {
			t.Fatalf("position %d = %s; want %s", i, task.ID, want[i])
		}
	}
}

func TestSnapshotsDetachedFromLiveState(t *testing.T) {
	s := testState()
	tasks := s.Tasks()
	cols := s.Columns()

	content := "rewritten"
	s.ApplyTaskUpdated(domain.TaskPatch{ID: "t1", Content: &content, Version: 2})
	title := "renamed"
	s.ApplyColumnUpdated(domain.ColumnPatch{ID: "c1", Title: &title, Version: 2})

	for _, task := range tasks {
		if task.ID == "t1" && task.Content != "Draft roadmap" {
			t.Fatalf("task snapshot shares memory with live state: %+v", task)
		}
	}
	for _, col := range cols {
		if col.ID == "c1" && col.Title != "To Do" {
			t.Fatalf("column snapshot shares memory with live state: %+v", col)
		}
	}
}
