package service

import (
	"context"

	"github.com/Vaidehi-Hirani/ToDo/internal/adapters/transport/http/dto"
	"github.com/Vaidehi-Hirani/ToDo/internal/domain/auth/model"
)

type Service interface {
	Register(context.Context, dto.RegisterDTO) (model.TokenPair, error)
	Login(context.Context, dto.LoginDTO) (model.TokenPair, error)
	GoogleSignIn(context.Context, dto.GoogleAuthDTO) (model.TokenPair, error)
	Refresh(context.Context, dto.RefreshDTO) (model.TokenPair, error)
	Logout(ctx context.Context, userID int64) error
	Authenticate(ctx context.Context, accessToken string) (model.Principal, error)
}

// Recorder receives auth outcomes for metrics.
type Recorder interface {
	AuthEvent(event, outcome string)
}

type nopRecorder struct{}

func (nopRecorder) AuthEvent(string, string) {}
