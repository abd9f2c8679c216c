package repo

import (
	"context"

	"github.com/Vaidehi-Hirani/ToDo/internal/domain/todo/model"
)

// All lookups are scoped to the owning user and skip soft-deleted rows.

type ProjectRepo interface {
	ListProjects(ctx context.Context, userID int64) ([]model.Project, error)

	GetProject(ctx context.Context, id, userID int64) (model.Project, error)

	ProjectExists(ctx context.Context, id, userID int64) (bool, error)

	CreateProject(ctx context.Context, p model.Project) (model.Project, error)

	UpdateProject(ctx context.Context, p model.Project) error

	// SoftDeleteProject flags the project and all of its tasks as deleted.
	SoftDeleteProject(ctx context.Context, id, userID int64) error
}

type TaskRepo interface {
	ListTasks(ctx context.Context, userID int64, projectID *int64) ([]model.TaskItem, error)

	GetTask(ctx context.Context, id, userID int64) (model.TaskItem, error)

	CreateTask(ctx context.Context, t model.TaskItem) (model.TaskItem, error)

	UpdateTask(ctx context.Context, t model.TaskItem) error

	SoftDeleteTask(ctx context.Context, id, userID int64) error
}
