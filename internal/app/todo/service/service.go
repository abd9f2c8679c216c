package service

import (
	"context"

	"github.com/Vaidehi-Hirani/ToDo/internal/adapters/transport/http/dto"
)

// Service exposes project and task operations. Every method is scoped to
// userID, taken from the caller's validated access token.
type Service interface {
	ListProjects(ctx context.Context, userID int64) ([]dto.ProjectDTO, error)
	GetProject(ctx context.Context, userID, id int64) (dto.ProjectDTO, error)
	CreateProject(ctx context.Context, userID int64, in dto.CreateProjectDTO) (dto.ProjectDTO, error)
	UpdateProject(ctx context.Context, userID, id int64, in dto.UpdateProjectDTO) error
	DeleteProject(ctx context.Context, userID, id int64) error

	ListTasks(ctx context.Context, userID int64, projectID *int64) ([]dto.TaskDTO, error)
	GetTask(ctx context.Context, userID, id int64) (dto.TaskDTO, error)
	CreateTask(ctx context.Context, userID int64, in dto.CreateTaskDTO) (dto.TaskDTO, error)
	UpdateTask(ctx context.Context, userID, id int64, in dto.UpdateTaskDTO) error
	DeleteTask(ctx context.Context, userID, id int64) error
}
