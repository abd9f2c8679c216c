package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Vaidehi-Hirani/ToDo/internal/adapters/db/postgres"
	"github.com/Vaidehi-Hirani/ToDo/internal/adapters/transport/http/dto"
	"github.com/Vaidehi-Hirani/ToDo/internal/adapters/transport/http/handler"
	"github.com/Vaidehi-Hirani/ToDo/internal/app/auth/google"
	"github.com/Vaidehi-Hirani/ToDo/internal/app/auth/jwt"
	"github.com/Vaidehi-Hirani/ToDo/internal/app/auth/password"
	authsvc "github.com/Vaidehi-Hirani/ToDo/internal/app/auth/service"
	todosvc "github.com/Vaidehi-Hirani/ToDo/internal/app/todo/service"
	authModel "github.com/Vaidehi-Hirani/ToDo/internal/domain/auth/model"
	customErrors "github.com/Vaidehi-Hirani/ToDo/internal/domain/errors"
	todoModel "github.com/Vaidehi-Hirani/ToDo/internal/domain/todo/model"
	"github.com/Vaidehi-Hirani/ToDo/internal/infra/config"
	"github.com/Vaidehi-Hirani/ToDo/internal/infra/metrics"
	"github.com/Vaidehi-Hirani/ToDo/internal/infra/validation"
)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

type googleStub struct{}

func (googleStub) Verify(_ context.Context, tok string) (google.VerifiedIdentity, error) {
	if tok != "valid-google" {
		return google.VerifiedIdentity{}, customErrors.ErrInvalidAssertion
	}
	return google.VerifiedIdentity{Email: "gina@x.com", Name: "Gina"}, nil
}

type server struct {
	t     *testing.T
	r     *gin.Engine
	db    *gorm.DB
	clock *clock
	reg   *prometheus.Registry
}

func newServer(t *testing.T, cfgMut ...func(*config.Config)) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Environment:     config.EnvProduction,
		JWTSecretKey:    "0123456789abcdef0123456789abcdef",
		Issuer:          "todo",
		Audience:        "todo-spa",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		AllowedOrigins:  []string{"http://localhost:4200"},
		RateLimitRPS:    1000,
		RateLimitBurst:  1000,
	}
	for _, m := range cfgMut {
		m(cfg)
	}

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&authModel.User{}, &todoModel.Project{}, &todoModel.TaskItem{}))

	clk := &clock{now: time.Now()}
	util, err := jwt.NewJWTUtil(cfg, jwt.WithClock(clk.Now))
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	fast := &argon2id.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}
	auth := authsvc.New(postgres.NewPostgresUserRepo(db), util, password.NewArgon2(fast, ""), googleStub{},
		validation.New(), authsvc.WithClock(clk.Now), authsvc.WithRecorder(m))
	todo := todosvc.New(postgres.NewPostgresProjectRepo(db), postgres.NewPostgresTaskRepo(db), validation.New())

	r := handler.NewRouter(handler.RouterDeps{
		Handler:  handler.New(auth, todo, nil, cfg.IsDevelopment()),
		Auth:     auth,
		Config:   cfg,
		Metrics:  m,
		Gatherer: reg,
	})
	return &server{t: t, r: r, db: db, clock: clk, reg: reg}
}

func (s *server) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (s *server) register(name, email string) dto.TokenResponse {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/users/register", "", dto.RegisterDTO{Name: name, Email: email, Password: "secret1"})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	return decode[dto.TokenResponse](s.t, w)
}

func TestRegisterLoginScenario(t *testing.T) {
	s := newServer(t)

	reg := s.register("Ann", "ann@x.com")
	require.NotEmpty(t, reg.Token)
	require.NotEmpty(t, reg.RefreshToken)
	require.Equal(t, "Ann", reg.Name)
	require.Equal(t, "ann@x.com", reg.Email)
	require.NotZero(t, reg.ID)
	require.Nil(t, reg.IsNewUser)

	w := s.do(http.MethodPost, "/api/users/login", "", dto.LoginDTO{Email: "ann@x.com", Password: "wrong"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/users/login", "", dto.LoginDTO{Email: "ann@x.com", Password: "secret1"})
	require.Equal(t, http.StatusOK, w.Code)
	login := decode[dto.TokenResponse](t, w)
	require.NotEqual(t, reg.RefreshToken, login.RefreshToken)

	// the registration refresh token was rotated away by the login
	w = s.do(http.MethodPost, "/api/users/refresh-token", "", dto.RefreshDTO{Token: reg.Token, RefreshToken: reg.RefreshToken})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterDuplicateAndInvalid(t *testing.T) {
	s := newServer(t)
	s.register("Ann", "ann@x.com")

	w := s.do(http.MethodPost, "/api/users/register", "", dto.RegisterDTO{Name: "A", Email: "ann@x.com", Password: "secret1"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Email already registered.", decode[dto.MessageResponse](t, w).Message)

	w = s.do(http.MethodPost, "/api/users/register", "", dto.RegisterDTO{Name: "A", Email: "bad", Password: "1"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/users/register", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	s.r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRenewTwiceScenario(t *testing.T) {
	s := newServer(t)
	reg := s.register("Ann", "ann@x.com")

	s.clock.now = s.clock.now.Add(20 * time.Minute)
	w := s.do(http.MethodGet, "/api/projects", reg.Token, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code, "access token must be expired")

	w = s.do(http.MethodPost, "/api/users/refresh-token", "", dto.RefreshDTO{Token: reg.Token, RefreshToken: reg.RefreshToken})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	renewed := decode[dto.TokenResponse](t, w)
	require.NotEqual(t, reg.RefreshToken, renewed.RefreshToken)

	w = s.do(http.MethodPost, "/api/users/refresh-token", "", dto.RefreshDTO{Token: reg.Token, RefreshToken: reg.RefreshToken})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, customErrors.ErrRenewalRejected.Error(), decode[dto.MessageResponse](t, w).Message)

	w = s.do(http.MethodGet, "/api/projects", renewed.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestGoogleSignIn(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodPost, "/api/users/google-signin", "", dto.GoogleAuthDTO{IDToken: "forged"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/users/google-signin", "", dto.GoogleAuthDTO{IDToken: "valid-google"})
	require.Equal(t, http.StatusOK, w.Code)
	first := decode[dto.TokenResponse](t, w)
	require.NotNil(t, first.IsNewUser)
	require.True(t, *first.IsNewUser)

	w = s.do(http.MethodPost, "/api/users/google-signin", "", dto.GoogleAuthDTO{IDToken: "valid-google"})
	second := decode[dto.TokenResponse](t, w)
	require.False(t, *second.IsNewUser)
	require.Equal(t, first.ID, second.ID)

	w = s.do(http.MethodPost, "/api/users/login", "", dto.LoginDTO{Email: "gina@x.com", Password: "whatever"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogout(t *testing.T) {
	s := newServer(t)
	reg := s.register("Ann", "ann@x.com")

	require.Equal(t, http.StatusUnauthorized, s.do(http.MethodPost, "/api/users/logout", "", nil).Code)
	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/users/logout", reg.Token, nil).Code)

	w := s.do(http.MethodPost, "/api/users/refresh-token", "", dto.RefreshDTO{Token: reg.Token, RefreshToken: reg.RefreshToken})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProjectsAndTasksCRUD(t *testing.T) {
	s := newServer(t)
	tok := s.register("Ann", "ann@x.com").Token

	require.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/projects", "", nil).Code)

	w := s.do(http.MethodPost, "/api/projects", tok, dto.CreateProjectDTO{Name: "Home"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	p := decode[dto.ProjectDTO](t, w)
	require.Equal(t, "/api/projects/"+itoa(p.ID), w.Header().Get("Location"))

	w = s.do(http.MethodPost, "/api/tasks", tok, dto.CreateTaskDTO{Title: "dishes", ProjectID: &p.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	task := decode[dto.TaskDTO](t, w)
	require.Equal(t, "Medium", *task.Priority)
	require.Equal(t, "Home", *task.ProjectName)
	require.Equal(t, "/api/tasks/"+itoa(task.ID), w.Header().Get("Location"))

	done := true
	w = s.do(http.MethodPut, "/api/tasks/"+itoa(task.ID), tok, dto.UpdateTaskDTO{IsCompleted: &done})
	require.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(http.MethodGet, "/api/tasks/"+itoa(task.ID), tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[dto.TaskDTO](t, w)
	require.True(t, got.IsCompleted)
	require.NotNil(t, got.CompletedAt)

	w = s.do(http.MethodGet, "/api/tasks?projectId="+itoa(p.ID), tok, nil)
	require.Len(t, decode[[]dto.TaskDTO](t, w), 1)
	require.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/tasks?projectId=abc", tok, nil).Code)

	w = s.do(http.MethodGet, "/api/projects/"+itoa(p.ID), tok, nil)
	require.Len(t, decode[dto.ProjectDTO](t, w).Tasks, 1)

	name := "House"
	require.Equal(t, http.StatusNoContent, s.do(http.MethodPut, "/api/projects/"+itoa(p.ID), tok, dto.UpdateProjectDTO{Name: &name}).Code)
	require.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, "/api/projects/"+itoa(p.ID), tok, nil).Code)
	require.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/projects/"+itoa(p.ID), tok, nil).Code)
	require.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/tasks/"+itoa(task.ID), tok, nil).Code)
	require.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/projects/xyz", tok, nil).Code)

	w = s.do(http.MethodGet, "/api/projects", tok, nil)
	require.Empty(t, decode[[]dto.ProjectDTO](t, w))
}

func TestTaskWithForeignProjectIsRejected(t *testing.T) {
	s := newServer(t)
	ann := s.register("Ann", "ann@x.com").Token
	bob := s.register("Bob", "bob@x.com").Token

	w := s.do(http.MethodPost, "/api/projects", bob, dto.CreateProjectDTO{Name: "Bob's"})
	bobs := decode[dto.ProjectDTO](t, w)

	w = s.do(http.MethodPost, "/api/tasks", ann, dto.CreateTaskDTO{Title: "sneaky", ProjectID: &bobs.ID})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Invalid ProjectId.", decode[dto.MessageResponse](t, w).Message)

	require.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/projects/"+itoa(bobs.ID), ann, nil).Code)
	require.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, "/api/projects/"+itoa(bobs.ID), ann, nil).Code)
}

func TestInternalErrorsAreRedacted(t *testing.T) {
	for _, env := range []string{config.EnvProduction, config.EnvDevelopment} {
		t.Run(env, func(t *testing.T) {
			s := newServer(t, func(c *config.Config) { c.Environment = env })
			tok := s.register("Ann", "ann@x.com").Token

			require.NoError(t, s.db.Migrator().DropTable(&todoModel.Project{}))
			w := s.do(http.MethodGet, "/api/projects", tok, nil)
			require.Equal(t, http.StatusInternalServerError, w.Code)

			msg := decode[dto.MessageResponse](t, w).Message
			if env == config.EnvDevelopment {
				require.Contains(t, msg, "ListProjects")
			} else {
				require.Equal(t, "An unexpected error occurred.", msg)
			}
		})
	}
}

func TestHealthMetricsAndCORS(t *testing.T) {
	s := newServer(t)

	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/health", "", nil).Code)

	s.register("Ann", "ann@x.com")
	w := s.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `todo_auth_events_total{event="register",outcome="ok"} 1`)
	require.Contains(t, w.Body.String(), `todo_http_requests_total{code="200",method="POST",route="/api/users/register"} 1`)

	req := httptest.NewRequest(http.MethodOptions, "/api/projects", nil)
	req.Header.Set("Origin", "http://localhost:4200")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec := httptest.NewRecorder()
	s.r.ServeHTTP(rec, req)
	require.Equal(t, "http://localhost:4200", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestAuthRoutesAreRateLimited(t *testing.T) {
	s := newServer(t, func(c *config.Config) { c.RateLimitRPS, c.RateLimitBurst = 1, 1 })

	body := dto.LoginDTO{Email: "x@x.com", Password: "p"}
	require.Equal(t, http.StatusUnauthorized, s.do(http.MethodPost, "/api/users/login", "", body).Code)
	require.Equal(t, http.StatusTooManyRequests, s.do(http.MethodPost, "/api/users/login", "", body).Code)
	// other groups are not limited
	require.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/projects", "", nil).Code)
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }
