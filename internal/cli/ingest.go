package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/craftbase/projtrack/internal/service"
)

type IngestOptions struct {
	GlobalOptions
}

func DefaultIngestOptions() *IngestOptions {
	return &IngestOptions{
		GlobalOptions: DefaultGlobalOptions(),
	}
}

func NewCmdIngest() *cobra.Command {
	o := DefaultIngestOptions()
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Rebuild the task table from every project's CSV metadata.",
		Args:  cobra.NoArgs,
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

func (o *IngestOptions) Run(ctx context.Context, args []string) error {
	s, err := openStore(o.Config())
	if err != nil {
		return err
	}
	defer s.Close()

	report, err := service.NewTaskService(s).Rebuild(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Projects processed: %d/%d\n", report.ProcessedProjects, report.TotalProjects)
	fmt.Printf("Tasks ingested:     %d\n", report.TaskCount)
	fmt.Printf("Errors:             %d\n", report.ErrorCount)
	return nil
}
