package model

import "time"

const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

type Project struct {
	ID          int64  `gorm:"primaryKey"`
	Name        string `gorm:"size:100;not null"`
	Description *string
	CreatedAt   time.Time
	DueDate     *time.Time
	IsCompleted bool  `gorm:"not null;default:false"`
	IsDeleted   bool  `gorm:"not null;default:false;index"`
	UserID      int64 `gorm:"not null;index"`
	Tasks       []TaskItem
}

type TaskItem struct {
	ID          int64  `gorm:"primaryKey"`
	Title       string `gorm:"size:200;not null"`
	Description *string
	IsCompleted bool `gorm:"not null;default:false"`
	CreatedAt   time.Time
	DueDate     *time.Time
	CompletedAt *time.Time
	Priority    *string
	Category    *string
	RepeatType  *string
	IsDeleted   bool  `gorm:"not null;default:false;index"`
	UserID      int64 `gorm:"not null;index"`
	ProjectID   *int64
	Project     *Project
}

// ProjectName returns the name of the loaded parent project, if any.
func (t TaskItem) ProjectName() *string {
	if t.Project == nil {
		return nil
	}
	name := t.Project.Name
	return &name
}
