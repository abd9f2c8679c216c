package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Vaidehi-Hirani/ToDo/internal/adapters/transport/http/dto"
	customErrors "github.com/Vaidehi-Hirani/ToDo/internal/domain/errors"
	"github.com/Vaidehi-Hirani/ToDo/internal/domain/todo/model"
	repo "github.com/Vaidehi-Hirani/ToDo/internal/domain/todo/repo"
	"github.com/Vaidehi-Hirani/ToDo/internal/infra/validation"
)

type todoService struct {
	projects repo.ProjectRepo
	tasks    repo.TaskRepo
	v        *validator.Validate
	now      func() time.Time
}

type Option func(*todoService)

func WithClock(now func() time.Time) Option {
	return func(s *todoService) { s.now = now }
}

func New(pr repo.ProjectRepo, tr repo.TaskRepo, v *validator.Validate, opts ...Option) Service {
	s := &todoService{projects: pr, tasks: tr, v: v, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *todoService) ListProjects(ctx context.Context, userID int64) ([]dto.ProjectDTO, error) {
	projects, err := s.projects.ListProjects(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProjectDTO, 0, len(projects))
	for _, p := range projects {
		out = append(out, toProjectDTO(p))
	}
	return out, nil
}

func (s *todoService) GetProject(ctx context.Context, userID, id int64) (dto.ProjectDTO, error) {
	p, err := s.projects.GetProject(ctx, id, userID)
	if err != nil {
		return dto.ProjectDTO{}, err
	}
	return toProjectDTO(p), nil
}

func (s *todoService) CreateProject(ctx context.Context, userID int64, in dto.CreateProjectDTO) (dto.ProjectDTO, error) {
	if err := s.v.Struct(in); err != nil {
		return dto.ProjectDTO{}, customErrors.NewInvalidArgument(validation.Message(err))
	}

	p, err := s.projects.CreateProject(ctx, model.Project{
		Name:        in.Name,
		Description: in.Description,
		DueDate:     in.DueDate,
		CreatedAt:   s.now().UTC(),
		UserID:      userID,
	})
	if err != nil {
		return dto.ProjectDTO{}, err
	}
	return toProjectDTO(p), nil
}

func (s *todoService) UpdateProject(ctx context.Context, userID, id int64, in dto.UpdateProjectDTO) error {
	if err := s.v.Struct(in); err != nil {
		return customErrors.NewInvalidArgument(validation.Message(err))
	}

	p, err := s.projects.GetProject(ctx, id, userID)
	if err != nil {
		return err
	}
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = in.Description
	}
	if in.DueDate != nil {
		p.DueDate = in.DueDate
	}
	if in.IsCompleted != nil {
		p.IsCompleted = *in.IsCompleted
	}
	return s.projects.UpdateProject(ctx, p)
}

func (s *todoService) DeleteProject(ctx context.Context, userID, id int64) error {
	return s.projects.SoftDeleteProject(ctx, id, userID)
}

func (s *todoService) ListTasks(ctx context.Context, userID int64, projectID *int64) ([]dto.TaskDTO, error) {
	tasks, err := s.tasks.ListTasks(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TaskDTO, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskDTO(t))
	}
	return out, nil
}

func (s *todoService) GetTask(ctx context.Context, userID, id int64) (dto.TaskDTO, error) {
	t, err := s.tasks.GetTask(ctx, id, userID)
	if err != nil {
		return dto.TaskDTO{}, err
	}
	return toTaskDTO(t), nil
}

func (s *todoService) CreateTask(ctx context.Context, userID int64, in dto.CreateTaskDTO) (dto.TaskDTO, error) {
	if err := s.v.Struct(in); err != nil {
		return dto.TaskDTO{}, customErrors.NewInvalidArgument(validation.Message(err))
	}
	if err := s.checkProject(ctx, userID, in.ProjectID); err != nil {
		return dto.TaskDTO{}, err
	}

	priority := in.Priority
	if priority == nil {
		medium := model.PriorityMedium
		priority = &medium
	}

	t, err := s.tasks.CreateTask(ctx, model.TaskItem{
		Title:       in.Title,
		Description: in.Description,
		CreatedAt:   s.now().UTC(),
		DueDate:     in.DueDate,
		Priority:    priority,
		Category:    in.Category,
		RepeatType:  in.RepeatType,
		UserID:      userID,
		ProjectID:   in.ProjectID,
	})
	if err != nil {
		return dto.TaskDTO{}, err
	}

	// reload so projectName is populated
	created, err := s.tasks.GetTask(ctx, t.ID, userID)
	if err != nil {
		return toTaskDTO(t), nil
	}
	return toTaskDTO(created), nil
}

func (s *todoService) UpdateTask(ctx context.Context, userID, id int64, in dto.UpdateTaskDTO) error {
	if err := s.v.Struct(in); err != nil {
		return customErrors.NewInvalidArgument(validation.Message(err))
	}

	t, err := s.tasks.GetTask(ctx, id, userID)
	if err != nil {
		return err
	}
	if in.ProjectID != nil {
		if err := s.checkProject(ctx, userID, in.ProjectID); err != nil {
			return err
		}
		t.ProjectID = in.ProjectID
	}
	if in.Title != nil {
		t.Title = *in.Title
	}
	if in.Description != nil {
		t.Description = in.Description
	}
	if in.DueDate != nil {
		t.DueDate = in.DueDate
	}
	if in.Priority != nil {
		t.Priority = in.Priority
	}
	if in.Category != nil {
		t.Category = in.Category
	}
	if in.RepeatType != nil {
		t.RepeatType = in.RepeatType
	}
	if in.IsCompleted != nil && *in.IsCompleted != t.IsCompleted {
		t.IsCompleted = *in.IsCompleted
		if t.IsCompleted {
			now := s.now().UTC()
			t.CompletedAt = &now
		} else {
			t.CompletedAt = nil
		}
	}
	t.Project = nil
	return s.tasks.UpdateTask(ctx, t)
}

func (s *todoService) DeleteTask(ctx context.Context, userID, id int64) error {
	return s.tasks.SoftDeleteTask(ctx, id, userID)
}

// checkProject accepts a nil id; otherwise the project must belong to the
// caller and not be deleted.
func (s *todoService) checkProject(ctx context.Context, userID int64, projectID *int64) error {
	if projectID == nil {
		return nil
	}
	ok, err := s.projects.ProjectExists(ctx, *projectID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return customErrors.ErrInvalidProject
	}
	return nil
}

func toProjectDTO(p model.Project) dto.ProjectDTO {
	tasks := make([]dto.TaskDTO, 0, len(p.Tasks))
	for _, t := range p.Tasks {
		tasks = append(tasks, toTaskDTO(t))
	}
	return dto.ProjectDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		DueDate:     p.DueDate,
		IsCompleted: p.IsCompleted,
		UserID:      p.UserID,
		Tasks:       tasks,
	}
}

func toTaskDTO(t model.TaskItem) dto.TaskDTO {
	return dto.TaskDTO{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		IsCompleted: t.IsCompleted,
		CreatedAt:   t.CreatedAt,
		DueDate:     t.DueDate,
		CompletedAt: t.CompletedAt,
		Priority:    t.Priority,
		Category:    t.Category,
		RepeatType:  t.RepeatType,
		ProjectID:   t.ProjectID,
		ProjectName: t.ProjectName(),
		UserID:      t.UserID,
	}
}
