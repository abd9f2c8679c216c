package dto

import "time"

type RegisterDTO struct {
	Name     string `json:"name"     validate:"required,max=100"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

type LoginDTO struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type GoogleAuthDTO struct {
	IDToken string `json:"idToken" validate:"required"`
}

// RefreshDTO carries the (possibly expired) access token together with the
// refresh token issued alongside it.
type RefreshDTO struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

type TokenResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	IsNewUser    *bool  `json:"isNewUser,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type CreateProjectDTO struct {
	Name        string     `json:"name"        validate:"required,max=100"`
	Description *string    `json:"description" validate:"omitempty,max=500"`
	DueDate     *time.Time `json:"dueDate"`
}

type UpdateProjectDTO struct {
	Name        *string    `json:"name"        validate:"omitempty,min=1,max=100"`
	Description *string    `json:"description" validate:"omitempty,max=500"`
	DueDate     *time.Time `json:"dueDate"`
	IsCompleted *bool      `json:"isCompleted"`
}

type ProjectDTO struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	CreatedAt   time.Time  `json:"createdAt"`
	DueDate     *time.Time `json:"dueDate"`
	IsCompleted bool       `json:"isCompleted"`
	UserID      int64      `json:"userId"`
	Tasks       []TaskDTO  `json:"tasks"`
}

type CreateTaskDTO struct {
	Title       string     `json:"title"       validate:"required,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=1000"`
	DueDate     *time.Time `json:"dueDate"`
	Priority    *string    `json:"priority"    validate:"omitempty,oneof=Low Medium High"`
	Category    *string    `json:"category"`
	RepeatType  *string    `json:"repeatType"`
	ProjectID   *int64     `json:"projectId"`
}

type UpdateTaskDTO struct {
	Title       *string    `json:"title"       validate:"omitempty,min=1,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=1000"`
	IsCompleted *bool      `json:"isCompleted"`
	DueDate     *time.Time `json:"dueDate"`
	Priority    *string    `json:"priority"    validate:"omitempty,oneof=Low Medium High"`
	Category    *string    `json:"category"`
	RepeatType  *string    `json:"repeatType"`
	ProjectID   *int64     `json:"projectId"`
}

type TaskDTO struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	IsCompleted bool       `json:"isCompleted"`
	CreatedAt   time.Time  `json:"createdAt"`
	DueDate     *time.Time `json:"dueDate"`
	CompletedAt *time.Time `json:"completedAt"`
	Priority    *string    `json:"priority"`
	Category    *string    `json:"category"`
	RepeatType  *string    `json:"repeatType"`
	ProjectID   *int64     `json:"projectId"`
	ProjectName *string    `json:"projectName,omitempty"`
	UserID      int64      `json:"userId"`
}
