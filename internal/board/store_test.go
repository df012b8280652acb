package board

import (
	"context"
	"errors"
	"testing"

	"apoema_board/internal/domain"
)

// fake gateways record calls and can be told to fail; the publisher records
// events in order so tests can check the apply → persist → broadcast sequence.

type fakeColumnGateway struct {
	fail    error
	created []string
	deleted []string
	updated []string
}

func (g *fakeColumnGateway) Create(_ context.Context, c *domain.Column) error {
	if g.fail != nil {
		return g.fail
	}
	g.created = append(g.created, c.ID)
	return nil
}

func (g *fakeColumnGateway) UpdateTitle(_ context.Context, id, _ string, _ int64) error {
	if g.fail != nil {
		return g.fail
	}
	g.updated = append(g.updated, id)
	return nil
}

func (g *fakeColumnGateway) Delete(_ context.Context, id string) error {
	if g.fail != nil {
		return g.fail
	}
	g.deleted = append(g.deleted, id)
	return nil
}

type fakeTaskGateway struct {
	fail       error
	patches    []domain.TaskPatch
	onCreate   func()
	createdIDs []string
	deletedIDs []string
}

func (g *fakeTaskGateway) Create(_ context.Context, t *domain.Task) error {
	if g.onCreate != nil {
		g.onCreate()
	}
	if g.fail != nil {
		return g.fail
	}
	g.createdIDs = append(g.createdIDs, t.ID)
	return nil
}

func (g *fakeTaskGateway) Update(_ context.Context, p domain.TaskPatch) error {
	if g.fail != nil {
		return g.fail
	}
	g.patches = append(g.patches, p)
	return nil
}

func (g *fakeTaskGateway) Delete(_ context.Context, id string) error {
	if g.fail != nil {
		return g.fail
	}
	g.deletedIDs = append(g.deletedIDs, id)
	return nil
}

type fakePublisher struct {
	events []Event
}

func (p *fakePublisher) Publish(_ context.Context, e Event) {
	p.events = append(p.events, e)
}

func newTestStore() (*Store, *fakeColumnGateway, *fakeTaskGateway, *fakePublisher) {
	cols := &fakeColumnGateway{}
	tasks := &fakeTaskGateway{}
	pub := &fakePublisher{}
	st := NewStore(testState(), cols, tasks, pub)
	return st, cols, tasks, pub
}

func TestCreateTaskOptimisticThenPersistThenBroadcast(t *testing.T) {
	st, _, tasks, pub := newTestStore()
	ctx := context.Background()

	// the optimistic apply must be visible before the gateway call resolves
	var visibleDuringPersist bool
	tasks.onCreate = func() {
		visibleDuringPersist = st.State().Task("t4") != nil
	}

	created, err := st.CreateTask(ctx, "sess-1", &domain.Task{ID: "t4", ColumnID: "c2", Content: "New"})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if !visibleDuringPersist {
		t.Fatal("task not in local state during persistence call")
	}
	if created.Rank == "" || created.Version != 1 {
		t.Fatalf("created = %+v; want rank set and version 1", created)
	}
	if len(pub.events) != 1 || pub.events[0].Name != EvtTaskCreated {
		t.Fatalf("events = %+v; want one taskCreated", pub.events)
	}
	if pub.events[0].Origin != "sess-1" {
		t.Fatalf("origin = %q; want sess-1", pub.events[0].Origin)
	}
}

func TestUpdateTaskMoveBetweenColumns(t *testing.T) {
	st, _, tasks, pub := newTestStore()
	ctx := context.Background()

	c2 := "c2"
	got, err := st.UpdateTask(ctx, "", domain.TaskPatch{ID: "t1", ColumnID: &c2})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if got.ColumnID != "c2" {
		t.Fatalf("column = %s; want c2", got.ColumnID)
	}
	if got.Version != 2 {
		t.Fatalf("version = %d; want 2", got.Version)
	}

	if len(tasks.patches) != 1 || tasks.patches[0].ColumnID == nil || *tasks.patches[0].ColumnID != "c2" {
		t.Fatalf("persisted patch = %+v; want column_id=c2", tasks.patches)
	}
	// the taskUpdated broadcast carries only the changed fields
	if len(pub.events) != 1 || pub.events[0].Name != EvtTaskUpdated {
		t.Fatalf("events = %+v; want one taskUpdated", pub.events)
	}
}

func TestUpdateTaskRollsBackOnPersistenceFailure(t *testing.T) {
	st, _, tasks, pub := newTestStore()
	tasks.fail = errors.New("connection reset")

	content := "changed"
	_, err := st.UpdateTask(context.Background(), "", domain.TaskPatch{ID: "t1", Content: &content})
	if err == nil {
		t.Fatal("expected persistence error")
	}

	got := st.State().Task("t1")
	if got.Content != "Draft roadmap" || got.Version != 1 {
		t.Fatalf("state diverged after failed persist: %+v", got)
	}
	if len(pub.events) != 0 {
		t.Fatalf("broadcast despite failed persist: %+v", pub.events)
	}
}

func TestCreateColumnRollsBackOnPersistenceFailure(t *testing.T) {
	st, cols, _, pub := newTestStore()
	cols.fail = errors.New("db down")

	_, err := st.CreateColumn(context.Background(), "", "c9", "Backlog")
	if err == nil {
		t.Fatal("expected persistence error")
	}
	if st.State().Column("c9") != nil {
		t.Fatal("optimistic column survived failed persist")
	}
	if len(pub.events) != 0 {
		t.Fatal("broadcast despite failed persist")
	}
}

func TestDeleteColumnCascadeAndRollback(t *testing.T) {
	st, cols, _, pub := newTestStore()
	ctx := context.Background()

	// failure path first: everything must come back
	cols.fail = errors.New("db down")
	if err := st.DeleteColumn(ctx, "", "c1"); err == nil {
		t.Fatal("expected persistence error")
	}
	if st.State().Column("c1") == nil || st.State().Task("t1") == nil || st.State().Task("t2") == nil {
		t.Fatal("rollback did not restore column and cascaded tasks")
	}

	cols.fail = nil
	if err := st.DeleteColumn(ctx, "", "c1"); err != nil {
		t.Fatalf("DeleteColumn: %v", err)
	}
	if st.State().Column("c1") != nil {
		t.Fatal("column survived delete")
	}
	if len(st.State().TasksInColumn("c1")) != 0 {
		t.Fatal("cascade left tasks behind")
	}
	if len(pub.events) != 1 || pub.events[0].Name != EvtColumnDeleted {
		t.Fatalf("events = %+v; want one columnDeleted", pub.events)
	}

	// deleting an unknown id is a no-op, not an error
	if err := st.DeleteColumn(ctx, "", "c1"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if len(pub.events) != 1 {
		t.Fatal("no-op delete broadcast an event")
	}
}

func TestUpdateTaskVersionConflict(t *testing.T) {
	st, _, _, _ := newTestStore()

	content := "x"
	_, err := st.UpdateTask(context.Background(), "", domain.TaskPatch{ID: "t1", Content: &content, BaseVersion: 99})
	if !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("err = %v; want ErrVersionConflict", err)
	}
	if st.State().Task("t1").Content != "Draft roadmap" {
		t.Fatal("conflicting update was applied")
	}
}

func TestCreateTaskRequiresExistingColumn(t *testing.T) {
	st, _, _, _ := newTestStore()

	_, err := st.CreateTask(context.Background(), "", &domain.Task{ColumnID: "nope", Content: "x"})
	if !errors.Is(err, ErrColumnNotFound) {
		t.Fatalf("err = %v; want ErrColumnNotFound", err)
	}
}

func TestCreateTaskGeneratesIDWhenMissing(t *testing.T) {
	st, _, _, _ := newTestStore()

	created, err := st.CreateTask(context.Background(), "", &domain.Task{ColumnID: "c1", Content: "x"})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if created.ID == "" {
		t.Fatal("no id synthesized")
	}
}

func TestCreateTaskDuplicateIDReturnsExisting(t *testing.T) {
	st, _, tasks, pub := newTestStore()

	got, err := st.CreateTask(context.Background(), "", &domain.Task{ID: "t1", ColumnID: "c1", Content: "dupe"})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if got.Content != "Draft roadmap" {
		t.Fatalf("duplicate create replaced the task: %+v", got)
	}
	if len(tasks.createdIDs) != 0 || len(pub.events) != 0 {
		t.Fatal("duplicate create hit the gateway or broadcast")
	}
}
