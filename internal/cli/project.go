package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/craftbase/projtrack/internal/service"
)

const dateLayout = "2006-01-02"

func NewCmdProject() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects and their folders.",
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
			os.Exit(1)
		},
	}
	cmd.AddCommand(NewCmdProjectCreate())
	cmd.AddCommand(NewCmdProjectList())
	cmd.AddCommand(NewCmdProjectDelete())
	return cmd
}

type ProjectCreateOptions struct {
	GlobalOptions

	Manager      string
	StartDate    string
	FinishDate   string
	DivisionCode string
	FactoryCode  string
	ProcessCode  string
	LineCode     string
}

func DefaultProjectCreateOptions() *ProjectCreateOptions {
	return &ProjectCreateOptions{
		GlobalOptions: DefaultGlobalOptions(),
	}
}

func NewCmdProjectCreate() *cobra.Command {
	o := DefaultProjectCreateOptions()
	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a project row and its templated folder.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			if err := o.Validate(args); err != nil {
				return err
			}
			return o.Run(cmd.Context(), args)
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *ProjectCreateOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVar(&o.Manager, "manager", "", "Responsible staff member.")
	fs.StringVar(&o.StartDate, "start", "", "Planned start date (YYYY-MM-DD).")
	fs.StringVar(&o.FinishDate, "finish", "", "Planned finish date (YYYY-MM-DD).")
	fs.StringVar(&o.DivisionCode, "division", "", "Division code.")
	fs.StringVar(&o.FactoryCode, "factory", "", "Factory code.")
	fs.StringVar(&o.ProcessCode, "process", "", "Process code.")
	fs.StringVar(&o.LineCode, "line", "", "Line code.")
}

func (o *ProjectCreateOptions) Validate(args []string) error {
	for _, date := range []string{o.StartDate, o.FinishDate} {
		if date == "" {
			continue
		}
		if _, err := time.Parse(dateLayout, date); err != nil {
			return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
		}
	}
	return nil
}

func (o *ProjectCreateOptions) Run(ctx context.Context, args []string) error {
	s, err := openStore(o.Config())
	if err != nil {
		return err
	}
	defer s.Close()

	form := service.ProjectCreateForm{
		Name:         args[0],
		Manager:      o.Manager,
		DivisionCode: o.DivisionCode,
		FactoryCode:  o.FactoryCode,
		ProcessCode:  o.ProcessCode,
		LineCode:     o.LineCode,
	}
	if o.StartDate != "" {
		start, _ := time.Parse(dateLayout, o.StartDate)
		form.StartDate = &start
	}
	if o.FinishDate != "" {
		finish, _ := time.Parse(dateLayout, o.FinishDate)
		form.FinishDate = &finish
	}

	project, err := service.NewProjectService(s, o.Config().App.DataDir).CreateProject(ctx, form)
	if err != nil {
		return err
	}
	fmt.Printf("Created project %q with folder %s\n", project.Name, project.FolderPath)
	return nil
}

type ProjectListOptions struct {
	GlobalOptions
}

func DefaultProjectListOptions() *ProjectListOptions {
	return &ProjectListOptions{
		GlobalOptions: DefaultGlobalOptions(),
	}
}

func NewCmdProjectList() *cobra.Command {
	o := DefaultProjectListOptions()
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects with their task counts.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			return o.Run(cmd.Context(), args)
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *ProjectListOptions) Run(ctx context.Context, args []string) error {
	s, err := openStore(o.Config())
	if err != nil {
		return err
	}
	defer s.Close()

	projects, err := service.NewProjectService(s, o.Config().App.DataDir).ListProjects(ctx)
	if err != nil {
		return err
	}
	counts, err := service.NewTaskService(s).CountByProject(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tMANAGER\tDIVISION\tFACTORY\tPROCESS\tLINE\tTASKS\tFOLDER")
	for _, project := range projects {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			project.Name, project.Manager,
			project.DivisionCode, project.FactoryCode, project.ProcessCode, project.LineCode,
			counts[project.Name], project.FolderPath)
	}
	return w.Flush()
}

type ProjectDeleteOptions struct {
	GlobalOptions
}

func DefaultProjectDeleteOptions() *ProjectDeleteOptions {
	return &ProjectDeleteOptions{
		GlobalOptions: DefaultGlobalOptions(),
	}
}

func NewCmdProjectDelete() *cobra.Command {
	o := DefaultProjectDeleteOptions()
	cmd := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a project row. The folder is left on disk.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			return o.Run(cmd.Context(), args)
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *ProjectDeleteOptions) Run(ctx context.Context, args []string) error {
	s, err := openStore(o.Config())
	if err != nil {
		return err
	}
	defer s.Close()

	if err := service.NewProjectService(s, o.Config().App.DataDir).DeleteProject(ctx, args[0]); err != nil {
		return err
	}
	fmt.Printf("Deleted project %q\n", args[0])
	return nil
}
