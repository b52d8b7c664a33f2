package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/craftbase/projtrack/internal/bootstrap"
	"github.com/craftbase/projtrack/internal/locator"
)

type ResetOptions struct {
	GlobalOptions
}

func DefaultResetOptions() *ResetOptions {
	return &ResetOptions{
		GlobalOptions: DefaultGlobalOptions(),
	}
}

func NewCmdReset() *cobra.Command {
	o := DefaultResetOptions()
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear the seeding state so init runs again next time.",
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

func (o *ResetOptions) Run(ctx context.Context, args []string) error {
	cfg := o.Config()
	svc := bootstrap.NewService(cfg.App.DataDir, cfg.App.SearchRoots, cfg.App.SeedFolderName, locator.New())
	if err := svc.Reset(); err != nil {
		return err
	}
	fmt.Println("Seeding state cleared.")
	return nil
}
