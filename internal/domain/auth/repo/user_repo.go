package repo

import (
	"context"
	"time"

	"github.com/Vaidehi-Hirani/ToDo/internal/domain/auth/model"
)

type UserRepo interface {
	CreateUser(ctx context.Context, u model.User) (int64, error)

	GetUserByEmail(ctx context.Context, email string) (model.User, error)

	GetUserByID(ctx context.Context, id int64) (model.User, error)

	// SetRefreshToken overwrites whatever refresh token the user had.
	SetRefreshToken(ctx context.Context, id int64, token string, expiresAt time.Time) error

	// RotateRefreshToken replaces the stored token only while it still equals
	// presented. It returns ErrNotFound when nothing was replaced.
	RotateRefreshToken(ctx context.Context, id int64, presented, next string, expiresAt time.Time) error

	ClearRefreshToken(ctx context.Context, id int64) error
}
