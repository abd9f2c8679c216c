package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Vaidehi-Hirani/ToDo/internal/adapters/transport/http/dto"
	"github.com/Vaidehi-Hirani/ToDo/internal/app/auth/google"
	"github.com/Vaidehi-Hirani/ToDo/internal/app/auth/password"
	"github.com/Vaidehi-Hirani/ToDo/internal/domain/auth/jwt"
	"github.com/Vaidehi-Hirani/ToDo/internal/domain/auth/model"
	repo "github.com/Vaidehi-Hirani/ToDo/internal/domain/auth/repo"
	customErrors "github.com/Vaidehi-Hirani/ToDo/internal/domain/errors"
	lg "github.com/Vaidehi-Hirani/ToDo/internal/infra/log"
	"github.com/Vaidehi-Hirani/ToDo/internal/infra/validation"
)

type authService struct {
	userRepo repo.UserRepo
	jwtUtil  jwt.JWTUtil
	hasher   password.Hasher
	google   google.Verifier
	v        *validator.Validate
	log      *zap.Logger
	rec      Recorder
	now      func() time.Time
}

type Option func(*authService)

func WithLogger(l *zap.Logger) Option {
	return func(a *authService) { a.log = l }
}

func WithRecorder(r Recorder) Option {
	return func(a *authService) {
		if r != nil {
			a.rec = r
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(a *authService) { a.now = now }
}

func New(
	ur repo.UserRepo,
	jm jwt.JWTUtil,
	h password.Hasher,
	gv google.Verifier,
	v *validator.Validate,
	opts ...Option,
) Service {
	a := &authService{
		userRepo: ur, jwtUtil: jm, hasher: h, google: gv, v: v,
		log: zap.NewNop(), rec: nopRecorder{}, now: time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *authService) Register(ctx context.Context, in dto.RegisterDTO) (model.TokenPair, error) {
	if err := a.v.Struct(in); err != nil {
		return model.TokenPair{}, customErrors.NewInvalidArgument(validation.Message(err))
	}

	_, err := a.userRepo.GetUserByEmail(ctx, in.Email)
	switch {
	case err == nil:
		a.rec.AuthEvent("register", "email_taken")
		return model.TokenPair{}, customErrors.ErrAlreadyExists
	case !errors.Is(err, customErrors.ErrNotFound):
		return model.TokenPair{}, customErrors.WrapInternal(err, "Register")
	}

	passwordHash, err := a.hasher.Hash(in.Password)
	if err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "Register")
	}

	user := model.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: passwordHash,
	}
	if user.ID, err = a.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, customErrors.ErrAlreadyExists) {
			return model.TokenPair{}, customErrors.ErrAlreadyExists
		}
		return model.TokenPair{}, customErrors.WrapInternal(err, "Register")
	}

	a.log.Info("user registered", zap.Int64("user_id", user.ID), lg.Email(user.Email))
	a.rec.AuthEvent("register", "ok")
	return a.issueTokens(ctx, user)
}

func (a *authService) Login(ctx context.Context, in dto.LoginDTO) (model.TokenPair, error) {
	if err := a.v.Struct(in); err != nil {
		return model.TokenPair{}, customErrors.NewInvalidArgument(validation.Message(err))
	}

	user, err := a.userRepo.GetUserByEmail(ctx, in.Email)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		a.rec.AuthEvent("login", "invalid_credentials")
		return model.TokenPair{}, customErrors.ErrInvalidCredentials
	case err != nil:
		return model.TokenPair{}, customErrors.WrapInternal(err, "Login")
	}

	if !user.HasPassword() {
		a.rec.AuthEvent("login", "invalid_credentials")
		return model.TokenPair{}, customErrors.ErrInvalidCredentials
	}
	ok, err := a.hasher.Verify(user.PasswordHash, in.Password)
	if err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "Login")
	}
	if !ok {
		a.rec.AuthEvent("login", "invalid_credentials")
		return model.TokenPair{}, customErrors.ErrInvalidCredentials
	}

	a.rec.AuthEvent("login", "ok")
	return a.issueTokens(ctx, user)
}

func (a *authService) GoogleSignIn(ctx context.Context, in dto.GoogleAuthDTO) (model.TokenPair, error) {
	if err := a.v.Struct(in); err != nil {
		return model.TokenPair{}, customErrors.NewInvalidArgument(validation.Message(err))
	}

	identity, err := a.google.Verify(ctx, in.IDToken)
	if err != nil {
		a.log.Info("google assertion rejected", zap.Error(err))
		a.rec.AuthEvent("google_signin", "invalid_assertion")
		return model.TokenPair{}, customErrors.ErrInvalidAssertion
	}

	user, created, err := a.findOrProvision(ctx, identity)
	if err != nil {
		return model.TokenPair{}, err
	}

	pair, err := a.issueTokens(ctx, user)
	if err != nil {
		return model.TokenPair{}, err
	}
	pair.IsNewUser = created
	a.rec.AuthEvent("google_signin", "ok")
	return pair, nil
}

// findOrProvision looks the user up by verified email and creates an
// external-only account (empty digest) when none exists.
func (a *authService) findOrProvision(ctx context.Context, identity google.VerifiedIdentity) (model.User, bool, error) {
	user, err := a.userRepo.GetUserByEmail(ctx, identity.Email)
	switch {
	case err == nil:
		return user, false, nil
	case !errors.Is(err, customErrors.ErrNotFound):
		return model.User{}, false, customErrors.WrapInternal(err, "GetUserByEmail")
	}

	user = model.User{Name: identity.Name, Email: identity.Email}
	user.ID, err = a.userRepo.CreateUser(ctx, user)
	switch {
	case err == nil:
		a.log.Info("user provisioned from google", zap.Int64("user_id", user.ID), lg.Email(user.Email))
		return user, true, nil
	case errors.Is(err, customErrors.ErrAlreadyExists):
		// a parallel sign-in created the row first
		user, err = a.userRepo.GetUserByEmail(ctx, identity.Email)
		if err != nil {
			return model.User{}, false, customErrors.WrapInternal(err, "GetUserByEmail")
		}
		return user, false, nil
	default:
		return model.User{}, false, customErrors.WrapInternal(err, "CreateUser")
	}
}

// Refresh renews a session from an access token (expiry ignored) and the
// refresh token stored for its subject. Every failed check yields the same
// ErrRenewalRejected; the reason is only logged.
func (a *authService) Refresh(ctx context.Context, in dto.RefreshDTO) (model.TokenPair, error) {
	reject := func(reason string) (model.TokenPair, error) {
		a.log.Info("token renewal rejected", zap.String("reason", reason))
		a.rec.AuthEvent("refresh", "rejected")
		return model.TokenPair{}, customErrors.ErrRenewalRejected
	}

	if in.Token == "" || in.RefreshToken == "" {
		return reject("missing token")
	}

	claims, err := a.jwtUtil.ValidateForRenewal(in.Token)
	if err != nil {
		return reject("access token invalid")
	}

	user, err := a.userRepo.GetUserByID(ctx, claims.UserID)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		return reject("unknown subject")
	case err != nil:
		return model.TokenPair{}, customErrors.WrapInternal(err, "Refresh")
	}

	if user.RefreshToken == nil ||
		subtle.ConstantTimeCompare([]byte(*user.RefreshToken), []byte(in.RefreshToken)) != 1 {
		return reject("refresh token mismatch")
	}
	if user.RefreshTokenExpiry == nil || !a.now().Before(*user.RefreshTokenExpiry) {
		return reject("refresh token expired")
	}

	next, nextExp, err := a.newRefreshToken()
	if err != nil {
		return model.TokenPair{}, err
	}
	err = a.userRepo.RotateRefreshToken(ctx, user.ID, in.RefreshToken, next, nextExp)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		return reject("refresh token already rotated")
	case err != nil:
		return model.TokenPair{}, customErrors.WrapInternal(err, "RotateRefreshToken")
	}

	a.rec.AuthEvent("refresh", "ok")
	return a.pair(user, next, nextExp)
}

func (a *authService) Logout(ctx context.Context, userID int64) error {
	err := a.userRepo.ClearRefreshToken(ctx, userID)
	if err != nil && !errors.Is(err, customErrors.ErrNotFound) {
		return customErrors.WrapInternal(err, "Logout")
	}
	a.rec.AuthEvent("logout", "ok")
	return nil
}

func (a *authService) Authenticate(_ context.Context, accessToken string) (model.Principal, error) {
	if accessToken == "" {
		return model.Principal{}, customErrors.ErrInvalidToken
	}
	claims, err := a.jwtUtil.ValidateAccessToken(accessToken)
	if err != nil {
		return model.Principal{}, customErrors.ErrInvalidToken
	}
	return model.Principal{UserID: claims.UserID, Email: claims.Email, Name: claims.Name}, nil
}

// issueTokens mints a new pair and overwrites the stored refresh token.
func (a *authService) issueTokens(ctx context.Context, user model.User) (model.TokenPair, error) {
	rt, rtExp, err := a.newRefreshToken()
	if err != nil {
		return model.TokenPair{}, err
	}
	if err := a.userRepo.SetRefreshToken(ctx, user.ID, rt, rtExp); err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "SetRefreshToken")
	}
	return a.pair(user, rt, rtExp)
}

func (a *authService) newRefreshToken() (string, time.Time, error) {
	rt, err := a.jwtUtil.GenerateRefreshToken()
	if err != nil {
		return "", time.Time{}, customErrors.WrapInternal(err, "GenerateRefreshToken")
	}
	return rt, a.now().Add(a.jwtUtil.RefreshTTL()), nil
}

func (a *authService) pair(user model.User, rt string, rtExp time.Time) (model.TokenPair, error) {
	at, atExp, jti, err := a.jwtUtil.GenerateAccessToken(user)
	if err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "GenerateAccessToken")
	}
	a.log.Debug("tokens issued",
		zap.Int64("user_id", user.ID),
		zap.String("jti", jti),
		zap.Time("access_expires_at", atExp),
	)
	return model.TokenPair{
		AccessToken:      at,
		RefreshToken:     rt,
		AccessExpiresAt:  atExp,
		RefreshExpiresAt: rtExp,
		AccessTokenJTI:   jti,
		UserID:           user.ID,
		Name:             user.Name,
		Email:            user.Email,
	}, nil
}
