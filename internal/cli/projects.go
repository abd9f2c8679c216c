package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Vaidehi-Hirani/ToDo/internal/adapters/transport/http/dto"
)

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

func (a *app) newProjectsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List and manage projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			projects, err := c.ListProjects(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tTASKS\tDONE")
			for _, p := range projects {
				fmt.Fprintf(w, "%d\t%s\t%d\t%t\n", p.ID, p.Name, len(p.Tasks), p.IsCompleted)
			}
			return w.Flush()
		},
	})

	var description string
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			in := dto.CreateProjectDTO{Name: args[0]}
			if description != "" {
				in.Description = &description
			}
			p, err := c.CreateProject(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "created project %d\n", p.ID)
			return nil
		},
	}
	add.Flags().StringVar(&description, "description", "", "Project description")
	cmd.AddCommand(add)

	cmd.AddCommand(&cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a project and its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			if err := c.DeleteProject(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "deleted project %d\n", id)
			return nil
		},
	})
	return cmd
}
