package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Vaidehi-Hirani/ToDo/internal/adapters/transport/http/dto"
	"github.com/Vaidehi-Hirani/ToDo/internal/client"
)

func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/users/login", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(dto.TokenResponse{Token: "live", RefreshToken: "r", ID: 1, Name: "Ann", Email: "ann@x.com"})
	})
	mux.HandleFunc("POST /api/users/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})
	mux.HandleFunc("GET /api/projects", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer live" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode([]dto.ProjectDTO{{ID: 4, Name: "Home", Tasks: []dto.TaskDTO{{ID: 1}}}})
	})
	mux.HandleFunc("PUT /api/tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		var in dto.UpdateTaskDTO
		_ = json.NewDecoder(r.Body).Decode(&in)
		if r.PathValue("id") != "9" || in.IsCompleted == nil || !*in.IsCompleted {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCommand(&out, &errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestCLI_LoginThenListProjects(t *testing.T) {
	srv := fakeAPI(t)
	session := filepath.Join(t.TempDir(), "session.json")

	out, _, err := run(t, "--api", srv.URL, "--session", session, "login", "--email", "ann@x.com", "--password", "secret1")
	require.NoError(t, err)
	require.Contains(t, out, "logged in as Ann")

	s, err := client.NewFileStore(session).Load()
	require.NoError(t, err)
	require.Equal(t, "live", s.AccessToken)

	out, _, err = run(t, "--api", srv.URL, "--session", session, "projects", "list")
	require.NoError(t, err)
	require.Contains(t, out, "Home")
	require.Contains(t, out, "NAME")

	out, _, err = run(t, "--api", srv.URL, "--session", session, "tasks", "done", "9")
	require.NoError(t, err)
	require.Contains(t, out, "completed task 9")
}

func TestCLI_ExpiredSessionAsksToLogIn(t *testing.T) {
	srv := fakeAPI(t)
	session := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, client.NewFileStore(session).Save(client.Session{AccessToken: "stale", RefreshToken: "old"}))

	_, errOut, err := run(t, "--api", srv.URL, "--session", session, "projects", "list")
	require.Error(t, err)
	require.Contains(t, errOut, "session expired, please log in again")

	s, err := client.NewFileStore(session).Load()
	require.NoError(t, err)
	require.False(t, s.LoggedIn())
}

func TestCLI_ArgumentErrors(t *testing.T) {
	_, _, err := run(t, "tasks", "rm", "abc")
	require.Error(t, err)

	t.Setenv("TODO_PASSWORD", "")
	_, _, err = run(t, "--session", filepath.Join(t.TempDir(), "s.json"), "login", "--email", "a@b.c")
	require.ErrorContains(t, err, "password is required")
}
