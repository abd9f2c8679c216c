package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Vaidehi-Hirani/ToDo/internal/adapters/transport/http/dto"
)

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func (a *app) newTasksCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List and manage tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	var listProject int64
	list := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			var filter *int64
			if listProject > 0 {
				filter = &listProject
			}
			tasks, err := c.ListTasks(cmd.Context(), filter)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tPRIORITY\tPROJECT\tDONE")
			for _, t := range tasks {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%t\n", t.ID, t.Title, deref(t.Priority), deref(t.ProjectName), t.IsCompleted)
			}
			return w.Flush()
		},
	}
	list.Flags().Int64Var(&listProject, "project", 0, "Only tasks of this project")
	cmd.AddCommand(list)

	var (
		addProject int64
		priority   string
	)
	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			in := dto.CreateTaskDTO{Title: args[0]}
			if addProject > 0 {
				in.ProjectID = &addProject
			}
			if priority != "" {
				in.Priority = &priority
			}
			t, err := c.CreateTask(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "created task %d\n", t.ID)
			return nil
		},
	}
	add.Flags().Int64Var(&addProject, "project", 0, "Project id")
	add.Flags().StringVar(&priority, "priority", "", "Low, Medium or High")
	cmd.AddCommand(add)

	cmd.AddCommand(&cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task as completed",
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
			done := true
			if err := c.UpdateTask(cmd.Context(), id, dto.UpdateTaskDTO{IsCompleted: &done}); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "completed task %d\n", id)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
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
			if err := c.DeleteTask(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "deleted task %d\n", id)
			return nil
		},
	})
	return cmd
}
