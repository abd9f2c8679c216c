package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	customErrors "github.com/Vaidehi-Hirani/ToDo/internal/domain/errors"
	"github.com/Vaidehi-Hirani/ToDo/internal/domain/todo/model"
)

type PostgresProjectRepo struct {
	db *gorm.DB
}

func NewPostgresProjectRepo(db *gorm.DB) *PostgresProjectRepo {
	return &PostgresProjectRepo{db: db}
}

func (p *PostgresProjectRepo) owned(ctx context.Context, userID int64) *gorm.DB {
	return p.db.WithContext(ctx).
		Where("user_id = ? AND is_deleted = ?", userID, false)
}

func (p *PostgresProjectRepo) ListProjects(ctx context.Context, userID int64) ([]model.Project, error) {
	var projects []model.Project
	res := p.owned(ctx, userID).
		Preload("Tasks", "is_deleted = ?", false).
		Order("id").
		Find(&projects)
	if err := res.Error; err != nil {
		return nil, customErrors.WrapInternal(err, "ListProjects")
	}

	return projects, nil
}

func (p *PostgresProjectRepo) GetProject(ctx context.Context, id, userID int64) (model.Project, error) {
	var pr model.Project
	res := p.owned(ctx, userID).
		Preload("Tasks", "is_deleted = ?", false).
		Where("id = ?", id).
		First(&pr)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.Project{}, customErrors.ErrNotFound
	}
	if err := res.Error; err != nil {
		return model.Project{}, customErrors.WrapInternal(err, "GetProject")
	}

	return pr, nil
}

func (p *PostgresProjectRepo) ProjectExists(ctx context.Context, id, userID int64) (bool, error) {
	var n int64
	res := p.owned(ctx, userID).Model(&model.Project{}).Where("id = ?", id).Count(&n)
	if err := res.Error; err != nil {
		return false, customErrors.WrapInternal(err, "ProjectExists")
	}

	return n > 0, nil
}

func (p *PostgresProjectRepo) CreateProject(ctx context.Context, pr model.Project) (model.Project, error) {
	pr.Tasks = nil
	res := p.db.WithContext(ctx).Create(&pr)
	if err := res.Error; err != nil {
		return model.Project{}, customErrors.WrapInternal(err, "CreateProject")
	}

	return pr, nil
}

func (p *PostgresProjectRepo) UpdateProject(ctx context.Context, pr model.Project) error {
	res := p.db.WithContext(ctx).
		Model(&model.Project{}).
		Where("id = ? AND user_id = ? AND is_deleted = ?", pr.ID, pr.UserID, false).
		Select("name", "description", "due_date", "is_completed").
		Updates(&pr)
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, "UpdateProject")
	}
	if res.RowsAffected == 0 {
		return customErrors.ErrNotFound
	}

	return nil
}

func (p *PostgresProjectRepo) SoftDeleteProject(ctx context.Context, id, userID int64) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Project{}).
			Where("id = ? AND user_id = ? AND is_deleted = ?", id, userID, false).
			Update("is_deleted", true)
		if err := res.Error; err != nil {
			return customErrors.WrapInternal(err, "SoftDeleteProject")
		}
		if res.RowsAffected == 0 {
			return customErrors.ErrNotFound
		}

		res = tx.Model(&model.TaskItem{}).
			Where("project_id = ? AND user_id = ?", id, userID).
			Update("is_deleted", true)
		if err := res.Error; err != nil {
			return customErrors.WrapInternal(err, "SoftDeleteProject")
		}
		return nil
	})
}
