package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	customErrors "github.com/Vaidehi-Hirani/ToDo/internal/domain/errors"
	"github.com/Vaidehi-Hirani/ToDo/internal/domain/todo/model"
)

type PostgresTaskRepo struct {
	db *gorm.DB
}

func NewPostgresTaskRepo(db *gorm.DB) *PostgresTaskRepo {
	return &PostgresTaskRepo{db: db}
}

func (p *PostgresTaskRepo) ListTasks(ctx context.Context, userID int64, projectID *int64) ([]model.TaskItem, error) {
	q := p.db.WithContext(ctx).
		Preload("Project").
		Where("user_id = ? AND is_deleted = ?", userID, false)
	if projectID != nil {
		q = q.Where("project_id = ?", *projectID)
	}

	var tasks []model.TaskItem
	if err := q.Order("id").Find(&tasks).Error; err != nil {
		return nil, customErrors.WrapInternal(err, "ListTasks")
	}

	return tasks, nil
}

func (p *PostgresTaskRepo) GetTask(ctx context.Context, id, userID int64) (model.TaskItem, error) {
	var t model.TaskItem
	res := p.db.WithContext(ctx).
		Preload("Project").
		Where("id = ? AND user_id = ? AND is_deleted = ?", id, userID, false).
		First(&t)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.TaskItem{}, customErrors.ErrNotFound
	}
	if err := res.Error; err != nil {
		return model.TaskItem{}, customErrors.WrapInternal(err, "GetTask")
	}

	return t, nil
}

func (p *PostgresTaskRepo) CreateTask(ctx context.Context, t model.TaskItem) (model.TaskItem, error) {
	t.Project = nil
	res := p.db.WithContext(ctx).Omit(clause.Associations).Create(&t)
	if err := res.Error; err != nil {
		return model.TaskItem{}, customErrors.WrapInternal(err, "CreateTask")
	}

	return t, nil
}

func (p *PostgresTaskRepo) UpdateTask(ctx context.Context, t model.TaskItem) error {
	res := p.db.WithContext(ctx).
		Model(&model.TaskItem{}).
		Where("id = ? AND user_id = ? AND is_deleted = ?", t.ID, t.UserID, false).
		Select("title", "description", "is_completed", "due_date", "completed_at",
			"priority", "category", "repeat_type", "project_id").
		Omit(clause.Associations).
		Updates(&t)
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, "UpdateTask")
	}
	if res.RowsAffected == 0 {
		return customErrors.ErrNotFound
	}

	return nil
}

func (p *PostgresTaskRepo) SoftDeleteTask(ctx context.Context, id, userID int64) error {
	res := p.db.WithContext(ctx).
		Model(&model.TaskItem{}).
		Where("id = ? AND user_id = ? AND is_deleted = ?", id, userID, false).
		Update("is_deleted", true)
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, "SoftDeleteTask")
	}
	if res.RowsAffected == 0 {
		return customErrors.ErrNotFound
	}

	return nil
}
