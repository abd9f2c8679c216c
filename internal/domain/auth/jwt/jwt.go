package jwt

import (
	"time"

	"github.com/Vaidehi-Hirani/ToDo/internal/domain/auth/model"
)

// SubjectClaimKeys lists the claim names that may carry the user id, in lookup
// order. The first one present in a token wins.
var SubjectClaimKeys = []string{"nameid", "sub"}

type AccessClaims struct {
	UserID    int64
	Email     string
	Name      string
	ID        string
	Issuer    string
	Audience  []string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type JWTUtil interface {
	GenerateAccessToken(user model.User) (token string, exp time.Time, jti string, err error)
	GenerateRefreshToken() (string, error)
	ValidateAccessToken(token string) (AccessClaims, error)
	ValidateForRenewal(token string) (AccessClaims, error)
	RefreshTTL() time.Duration
}
