package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Vaidehi-Hirani/ToDo/internal/adapters/transport/http/dto"
)

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api: status %d: %s", e.StatusCode, e.Message)
}

// Client is a typed API client. Outbound requests go through Transport, so
// expired sessions are renewed transparently.
type Client struct {
	baseURL string
	http    *http.Client
	store   SessionStore
}

type Option func(*options)

type options struct {
	base    http.RoundTripper
	timeout time.Duration
	logger  *zap.Logger
}

func WithBaseTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.base = rt }
}

func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New builds a client for the API mounted at baseURL, which may carry a path
// prefix such as https://host/todo.
func New(baseURL string, store SessionStore, notifier Notifier, opts ...Option) *Client {
	o := options{timeout: 30 * time.Second}
	for _, opt := range opts {
		opt(&o)
	}
	baseURL = strings.TrimRight(baseURL, "/")
	return &Client{
		baseURL: baseURL,
		store:   store,
		http: &http.Client{
			Timeout: o.timeout,
			Transport: &Transport{
				Base:     o.base,
				Store:    store,
				Notifier: notifier,
				Logger:   o.logger,
				RenewURL: baseURL + DefaultRenewPath,
			},
		},
	}
}

func (c *Client) Session() (Session, error) { return c.store.Load() }

func (c *Client) Register(ctx context.Context, name, email, password string) (Session, error) {
	return c.authenticate(ctx, "/api/users/register", dto.RegisterDTO{Name: name, Email: email, Password: password})
}

func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	return c.authenticate(ctx, "/api/users/login", dto.LoginDTO{Email: email, Password: password})
}

func (c *Client) GoogleSignIn(ctx context.Context, idToken string) (Session, error) {
	return c.authenticate(ctx, "/api/users/google-signin", dto.GoogleAuthDTO{IDToken: idToken})
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (Session, error) {
	var pair dto.TokenResponse
	if err := c.do(ctx, http.MethodPost, path, body, &pair, nil); err != nil {
		return Session{}, err
	}
	s := sessionFrom(pair)
	if err := c.store.Save(s); err != nil {
		return Session{}, err
	}
	return s, nil
}

// Logout invalidates the refresh token on the server and always discards the
// local session.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/users/logout", nil, nil, nil)
	if clearErr := c.store.Clear(); clearErr != nil && err == nil {
		err = clearErr
	}
	return err
}

func (c *Client) ListProjects(ctx context.Context) ([]dto.ProjectDTO, error) {
	var out []dto.ProjectDTO
	return out, c.do(ctx, http.MethodGet, "/api/projects", nil, &out, nil)
}

func (c *Client) GetProject(ctx context.Context, id int64) (dto.ProjectDTO, error) {
	var out dto.ProjectDTO
	return out, c.do(ctx, http.MethodGet, "/api/projects/"+strconv.FormatInt(id, 10), nil, &out, nil)
}

func (c *Client) CreateProject(ctx context.Context, in dto.CreateProjectDTO) (dto.ProjectDTO, error) {
	var out dto.ProjectDTO
	return out, c.do(ctx, http.MethodPost, "/api/projects", in, &out, nil)
}

func (c *Client) UpdateProject(ctx context.Context, id int64, in dto.UpdateProjectDTO) error {
	return c.do(ctx, http.MethodPut, "/api/projects/"+strconv.FormatInt(id, 10), in, nil, nil)
}

func (c *Client) DeleteProject(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/api/projects/"+strconv.FormatInt(id, 10), nil, nil, nil)
}

func (c *Client) ListTasks(ctx context.Context, projectID *int64) ([]dto.TaskDTO, error) {
	var q url.Values
	if projectID != nil {
		q = url.Values{"projectId": {strconv.FormatInt(*projectID, 10)}}
	}
	var out []dto.TaskDTO
	return out, c.do(ctx, http.MethodGet, "/api/tasks", nil, &out, q)
}

func (c *Client) GetTask(ctx context.Context, id int64) (dto.TaskDTO, error) {
	var out dto.TaskDTO
	return out, c.do(ctx, http.MethodGet, "/api/tasks/"+strconv.FormatInt(id, 10), nil, &out, nil)
}

func (c *Client) CreateTask(ctx context.Context, in dto.CreateTaskDTO) (dto.TaskDTO, error) {
	var out dto.TaskDTO
	return out, c.do(ctx, http.MethodPost, "/api/tasks", in, &out, nil)
}

func (c *Client) UpdateTask(ctx context.Context, id int64, in dto.UpdateTaskDTO) error {
	return c.do(ctx, http.MethodPut, "/api/tasks/"+strconv.FormatInt(id, 10), in, nil, nil)
}

func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/api/tasks/"+strconv.FormatInt(id, 10), nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any, query url.Values) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		// bytes.Reader lets net/http set GetBody, so the interceptor can replay it
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var msg dto.MessageResponse
		_ = json.NewDecoder(resp.Body).Decode(&msg)
		return &APIError{StatusCode: resp.StatusCode, Message: msg.Message}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
