package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	authModel "github.com/Vaidehi-Hirani/ToDo/internal/domain/auth/model"
	"github.com/Vaidehi-Hirani/ToDo/internal/domain/errors"
	"github.com/Vaidehi-Hirani/ToDo/internal/domain/todo/model"
)

func setupDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// every new connection would get its own empty in-memory database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(&authModel.User{}, &model.Project{}, &model.TaskItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func createUser(t *testing.T, repo *PostgresUserRepo, email string) int64 {
	t.Helper()
	id, err := repo.CreateUser(context.Background(), authModel.User{Name: "Ann", Email: email, PasswordHash: "h"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return id
}

func TestPostgresUserRepo_CRUD(t *testing.T) {
	repo := NewPostgresUserRepo(setupDB(t))
	ctx := context.Background()

	id := createUser(t, repo, "ann@x.com")
	if id == 0 {
		t.Fatalf("expected generated id")
	}
	got, err := repo.GetUserByEmail(ctx, "ann@x.com")
	if err != nil || got.ID != id {
		t.Fatalf("get by email %v", err)
	}
	got2, err := repo.GetUserByID(ctx, id)
	if err != nil || got2.Email != "ann@x.com" {
		t.Fatalf("get by id %v", err)
	}
	if _, err := repo.GetUserByID(ctx, id+1); !errors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := repo.GetUserByEmail(ctx, "ANN@x.com"); !errors.IsNotFound(err) {
		t.Fatalf("email lookup must be exact, got %v", err)
	}
}

func TestPostgresUserRepo_DuplicateEmail(t *testing.T) {
	repo := NewPostgresUserRepo(setupDB(t))
	createUser(t, repo, "ann@x.com")

	_, err := repo.CreateUser(context.Background(), authModel.User{Name: "B", Email: "ann@x.com", PasswordHash: "h"})
	if !errors.IsAlreadyExists(err) {
		t.Fatalf("expected already exists, got %v", err)
	}
}

func TestPostgresUserRepo_RefreshTokenLifecycle(t *testing.T) {
	repo := NewPostgresUserRepo(setupDB(t))
	ctx := context.Background()
	id := createUser(t, repo, "ann@x.com")
	exp := time.Now().Add(time.Hour).UTC().Truncate(time.Second)

	if err := repo.SetRefreshToken(ctx, id, "r1", exp); err != nil {
		t.Fatalf("set: %v", err)
	}
	u, _ := repo.GetUserByID(ctx, id)
	if u.RefreshToken == nil || *u.RefreshToken != "r1" || u.RefreshTokenExpiry == nil || !u.RefreshTokenExpiry.Equal(exp) {
		t.Fatalf("unexpected stored state %+v", u)
	}

	if err := repo.RotateRefreshToken(ctx, id, "r1", "r2", exp); err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if err := repo.RotateRefreshToken(ctx, id, "r1", "r3", exp); !errors.IsNotFound(err) {
		t.Fatalf("stale rotation must fail, got %v", err)
	}
	u, _ = repo.GetUserByID(ctx, id)
	if *u.RefreshToken != "r2" {
		t.Fatalf("expected r2, got %s", *u.RefreshToken)
	}

	if err := repo.ClearRefreshToken(ctx, id); err != nil {
		t.Fatalf("clear: %v", err)
	}
	u, _ = repo.GetUserByID(ctx, id)
	if u.RefreshToken != nil || u.RefreshTokenExpiry != nil {
		t.Fatalf("expected cleared token, got %+v", u)
	}
	if err := repo.RotateRefreshToken(ctx, id, "r2", "r4", exp); !errors.IsNotFound(err) {
		t.Fatalf("rotation after clear must fail, got %v", err)
	}

	if err := repo.SetRefreshToken(ctx, id+100, "x", exp); !errors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPostgresUserRepo_ConcurrentRotationSingleWinner(t *testing.T) {
	repo := NewPostgresUserRepo(setupDB(t))
	ctx := context.Background()
	id := createUser(t, repo, "ann@x.com")
	exp := time.Now().Add(time.Hour)
	if err := repo.SetRefreshToken(ctx, id, "seed", exp); err != nil {
		t.Fatalf("set: %v", err)
	}

	const workers = 10
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			err := repo.RotateRefreshToken(ctx, id, "seed", string(rune('a'+i)), exp)
			if err == nil {
				mu.Lock()
				winners++
				mu.Unlock()
			} else if !errors.IsNotFound(err) {
				t.Errorf("unexpected error %v", err)
			}
		}(i)
	}
	wg.Wait()

	if winners != 1 {
		t.Fatalf("expected exactly one winner, got %d", winners)
	}
}

func TestPostgresProjectRepo_OwnershipAndSoftDelete(t *testing.T) {
	db := setupDB(t)
	users := NewPostgresUserRepo(db)
	projects := NewPostgresProjectRepo(db)
	tasks := NewPostgresTaskRepo(db)
	ctx := context.Background()

	owner := createUser(t, users, "ann@x.com")
	other := createUser(t, users, "bob@x.com")

	p, err := projects.CreateProject(ctx, model.Project{Name: "Home", UserID: owner})
	if err != nil || p.ID == 0 {
		t.Fatalf("create project: %v", err)
	}
	if _, err := tasks.CreateTask(ctx, model.TaskItem{Title: "a", UserID: owner, ProjectID: &p.ID}); err != nil {
		t.Fatalf("create task: %v", err)
	}

	if ok, _ := projects.ProjectExists(ctx, p.ID, owner); !ok {
		t.Fatalf("owner must see project")
	}
	if ok, _ := projects.ProjectExists(ctx, p.ID, other); ok {
		t.Fatalf("other user must not see project")
	}
	if _, err := projects.GetProject(ctx, p.ID, other); !errors.IsNotFound(err) {
		t.Fatalf("expected not found for foreign project, got %v", err)
	}

	got, err := projects.GetProject(ctx, p.ID, owner)
	if err != nil || len(got.Tasks) != 1 {
		t.Fatalf("get project: %v tasks=%d", err, len(got.Tasks))
	}

	desc := "chores"
	got.Description = &desc
	got.IsCompleted = true
	if err := projects.UpdateProject(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	got.UserID = other
	if err := projects.UpdateProject(ctx, got); !errors.IsNotFound(err) {
		t.Fatalf("foreign update must fail, got %v", err)
	}

	if err := projects.SoftDeleteProject(ctx, p.ID, owner); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := projects.SoftDeleteProject(ctx, p.ID, owner); !errors.IsNotFound(err) {
		t.Fatalf("second delete must be not found, got %v", err)
	}
	list, _ := projects.ListProjects(ctx, owner)
	if len(list) != 0 {
		t.Fatalf("deleted project still listed")
	}
	remaining, _ := tasks.ListTasks(ctx, owner, nil)
	if len(remaining) != 0 {
		t.Fatalf("tasks of deleted project must be soft-deleted too")
	}
}

func TestPostgresTaskRepo_CRUD(t *testing.T) {
	db := setupDB(t)
	users := NewPostgresUserRepo(db)
	projects := NewPostgresProjectRepo(db)
	tasks := NewPostgresTaskRepo(db)
	ctx := context.Background()

	owner := createUser(t, users, "ann@x.com")
	p, _ := projects.CreateProject(ctx, model.Project{Name: "Work", UserID: owner})

	medium := model.PriorityMedium
	in, err := tasks.CreateTask(ctx, model.TaskItem{Title: "loose", UserID: owner, Priority: &medium})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := tasks.CreateTask(ctx, model.TaskItem{Title: "filed", UserID: owner, ProjectID: &p.ID}); err != nil {
		t.Fatalf("create: %v", err)
	}

	all, _ := tasks.ListTasks(ctx, owner, nil)
	if len(all) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(all))
	}
	filtered, _ := tasks.ListTasks(ctx, owner, &p.ID)
	if len(filtered) != 1 || filtered[0].ProjectName() == nil || *filtered[0].ProjectName() != "Work" {
		t.Fatalf("unexpected filtered list %+v", filtered)
	}

	now := time.Now().UTC()
	in.IsCompleted = true
	in.CompletedAt = &now
	in.ProjectID = &p.ID
	if err := tasks.UpdateTask(ctx, in); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := tasks.GetTask(ctx, in.ID, owner)
	if err != nil || !got.IsCompleted || got.CompletedAt == nil || got.ProjectName() == nil {
		t.Fatalf("unexpected task after update %+v (%v)", got, err)
	}

	in.IsCompleted = false
	in.CompletedAt = nil
	in.ProjectID = nil
	if err := tasks.UpdateTask(ctx, in); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ = tasks.GetTask(ctx, in.ID, owner)
	if got.IsCompleted || got.CompletedAt != nil || got.ProjectID != nil {
		t.Fatalf("expected fields cleared, got %+v", got)
	}

	if err := tasks.SoftDeleteTask(ctx, in.ID, owner); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := tasks.GetTask(ctx, in.ID, owner); !errors.IsNotFound(err) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := tasks.SoftDeleteTask(ctx, in.ID, owner); !errors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
