package cli

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/Vaidehi-Hirani/ToDo/internal/client"
)

const defaultAPIURL = "http://localhost:8080"

type app struct {
	apiURL      string
	sessionPath string
	out         io.Writer
	errOut      io.Writer
}

// NewRootCommand builds the todoctl command tree writing to out and errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}

	cmd := &cobra.Command{
		Use:           "todoctl",
		Short:         "Command line client for the ToDo API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	apiDefault := os.Getenv("TODO_API_URL")
	if apiDefault == "" {
		apiDefault = defaultAPIURL
	}
	cmd.PersistentFlags().StringVar(&a.apiURL, "api", apiDefault, "Base URL of the ToDo API (env TODO_API_URL)")
	cmd.PersistentFlags().StringVar(&a.sessionPath, "session", "", "Session file (defaults to the user config dir)")

	cmd.AddCommand(a.newRegisterCommand())
	cmd.AddCommand(a.newLoginCommand())
	cmd.AddCommand(a.newLogoutCommand())
	cmd.AddCommand(a.newProjectsCommand())
	cmd.AddCommand(a.newTasksCommand())
	return cmd
}

func (a *app) client() (*client.Client, error) {
	path := a.sessionPath
	if path == "" {
		p, err := client.DefaultSessionPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	notifier := client.NotifierFuncs{
		OnLoggedOut: func() {
			fmt.Fprintln(a.errOut, "session expired, please log in again")
		},
		OnPermissionDenied: func(req *http.Request) {
			fmt.Fprintf(a.errOut, "permission denied: %s %s\n", req.Method, req.URL.Path)
		},
		OnUnreachable: func(err error) {
			fmt.Fprintf(a.errOut, "cannot reach %s: %v\n", a.apiURL, err)
		},
	}
	return client.New(a.apiURL, client.NewFileStore(path), notifier), nil
}
