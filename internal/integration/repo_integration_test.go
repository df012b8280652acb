package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"apoema_board/internal/domain"
	"apoema_board/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

func applyMigrations(t *testing.T, db *pgxpool.Pool) {
	t.Helper()
	migDir := filepath.Join("..", "..", "internal", "migrations")
	files, err := os.ReadDir(migDir)
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	for _, f := range files {
		b, err := os.ReadFile(filepath.Join(migDir, f.Name()))
		if err != nil {
			t.Fatalf("read file: %v", err)
		}
		if _, err := db.Exec(context.Background(), string(b)); err != nil {
			t.Fatalf("apply migration %s: %v", f.Name(), err)
		}
	}
}

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	db, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)
	applyMigrations(t, db)
	return db
}

func seedBoard(t *testing.T, db *pgxpool.Pool) *domain.Board {
	t.Helper()
	b := &domain.Board{ID: uuid.NewString(), Name: "integration"}
	if err := repository.NewBoardRepository(db).Create(context.Background(), b); err != nil {
		t.Fatalf("create board: %v", err)
	}
	t.Cleanup(func() {
		_ = repository.NewBoardRepository(db).Delete(context.Background(), b.ID)
	})
	return b
}

func TestColumnAndTaskLifecycle(t *testing.T) {
	db := testPool(t)
	ctx := context.Background()
	b := seedBoard(t, db)

	colRepo := repository.NewColumnRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	col := &domain.Column{ID: uuid.NewString(), BoardID: b.ID, Title: "To Do", Version: 1}
	if err := colRepo.Create(ctx, col); err != nil {
		t.Fatalf("create column: %v", err)
	}

	task := &domain.Task{ID: uuid.NewString(), ColumnID: col.ID, Content: "hello", Rank: "i", Version: 1}
	if err := taskRepo.Create(ctx, task); err != nil {
		t.Fatalf("create task: %v", err)
	}

	cols, err := colRepo.GetByBoard(ctx, b.ID)
	if err != nil || len(cols) != 1 {
		t.Fatalf("GetByBoard = %v, %v; want 1 column", cols, err)
	}

	tasks, err := taskRepo.GetByBoard(ctx, b.ID)
	if err != nil || len(tasks) != 1 {
		t.Fatalf("GetByBoard tasks = %v, %v; want 1 task", tasks, err)
	}
}

func TestTaskPartialUpdateLeavesOtherFieldsAlone(t *testing.T) {
	db := testPool(t)
	ctx := context.Background()
	b := seedBoard(t, db)

	colRepo := repository.NewColumnRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	col := &domain.Column{ID: uuid.NewString(), BoardID: b.ID, Title: "To Do", Version: 1}
	if err := colRepo.Create(ctx, col); err != nil {
		t.Fatalf("create column: %v", err)
	}

	assignee := "Alice"
	tag := "URGENT"
	task := &domain.Task{
		ID: uuid.NewString(), ColumnID: col.ID, Content: "before",
		AssignedTo: &assignee, Tag: &tag, Rank: "i", Version: 1,
	}
	if err := taskRepo.Create(ctx, task); err != nil {
		t.Fatalf("create task: %v", err)
	}

	content := "x"
	if err := taskRepo.Update(ctx, domain.TaskPatch{ID: task.ID, Content: &content, Version: 2}); err != nil {
		t.Fatalf("update: %v", err)
	}

	tasks, err := taskRepo.GetByColumn(ctx, col.ID)
	if err != nil || len(tasks) != 1 {
		t.Fatalf("GetByColumn = %v, %v", tasks, err)
	}
	got := tasks[0]
	if got.Content != "x" {
		t.Fatalf("content = %q; want x", got.Content)
	}
	if got.AssignedTo == nil || *got.AssignedTo != "Alice" {
		t.Fatalf("assigned_to = %v; partial update touched it", got.AssignedTo)
	}
	if got.Tag == nil || *got.Tag != "URGENT" {
		t.Fatalf("tag = %v; partial update touched it", got.Tag)
	}
	if got.Version != 2 {
		t.Fatalf("version = %d; want 2", got.Version)
	}
}

func TestColumnDeleteCascadesToTasks(t *testing.T) {
	db := testPool(t)
	ctx := context.Background()
	b := seedBoard(t, db)

	colRepo := repository.NewColumnRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	col := &domain.Column{ID: uuid.NewString(), BoardID: b.ID, Title: "Doomed", Version: 1}
	if err := colRepo.Create(ctx, col); err != nil {
		t.Fatalf("create column: %v", err)
	}
	for i := 0; i < 3; i++ {
		task := &domain.Task{ID: uuid.NewString(), ColumnID: col.ID, Content: "t", Rank: "i", Version: 1}
		if err := taskRepo.Create(ctx, task); err != nil {
			t.Fatalf("create task: %v", err)
		}
	}

	if err := colRepo.Delete(ctx, col.ID); err != nil {
		t.Fatalf("delete column: %v", err)
	}

	tasks, err := taskRepo.GetByColumn(ctx, col.ID)
	if err != nil {
		t.Fatalf("GetByColumn: %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("cascade left %d tasks", len(tasks))
	}
}

func TestBoardPrefsRoundTrip(t *testing.T) {
	db := testPool(t)
	ctx := context.Background()
	b := seedBoard(t, db)

	userRepo := repository.NewUserRepository(db)
	u := &domain.User{Name: "Prefs Tester", Email: uuid.NewString() + "@test.local"}
	if err := userRepo.Create(ctx, u); err != nil {
		t.Fatalf("create user: %v", err)
	}

	prefs := repository.NewPrefsRepository(db)

	order, err := prefs.GetColumnOrder(ctx, b.ID, u.ID)
	if err != nil {
		t.Fatalf("get (empty): %v", err)
	}
	if order != nil {
		t.Fatalf("expected no saved order, got %v", order)
	}

	want := []string{"c3", "c1", "c2"}
	if err := prefs.SaveColumnOrder(ctx, b.ID, u.ID, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	// upsert on second save
	want = []string{"c1", "c3", "c2"}
	if err := prefs.SaveColumnOrder(ctx, b.ID, u.ID, want); err != nil {
		t.Fatalf("save again: %v", err)
	}

	got, err := prefs.GetColumnOrder(ctx, b.ID, u.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 3 || got[0] != "c1" || got[1] != "c3" || got[2] != "c2" {
		t.Fatalf("order = %v; want %v", got, want)
	}
}

func TestTaskUpdateEmptyStringClearsToNull(t *testing.T) {
	db := testPool(t)
	ctx := context.Background()
	b := seedBoard(t, db)

	colRepo := repository.NewColumnRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	col := &domain.Column{ID: uuid.NewString(), BoardID: b.ID, Title: "To Do", Version: 1}
	if err := colRepo.Create(ctx, col); err != nil {
		t.Fatalf("create column: %v", err)
	}

	assignee := "Alice"
	tag := "URGENT"
	task := &domain.Task{
		ID: uuid.NewString(), ColumnID: col.ID, Content: "clear me",
		AssignedTo: &assignee, Tag: &tag, Rank: "i", Version: 1,
	}
	if err := taskRepo.Create(ctx, task); err != nil {
		t.Fatalf("create task: %v", err)
	}

	empty := ""
	if err := taskRepo.Update(ctx, domain.TaskPatch{ID: task.ID, AssignedTo: &empty, Tag: &empty, Version: 2}); err != nil {
		t.Fatalf("update: %v", err)
	}

	tasks, err := taskRepo.GetByColumn(ctx, col.ID)
	if err != nil || len(tasks) != 1 {
		t.Fatalf("GetByColumn = %v, %v", tasks, err)
	}
	got := tasks[0]
	if got.AssignedTo != nil {
		t.Fatalf("assigned_to = %q; want NULL after clearing", *got.AssignedTo)
	}
	if got.Tag != nil {
		t.Fatalf("tag = %q; want NULL after clearing", *got.Tag)
	}
}
