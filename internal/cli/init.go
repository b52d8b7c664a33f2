package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/craftbase/projtrack/internal/bootstrap"
	"github.com/craftbase/projtrack/internal/locator"
)

type InitOptions struct {
	GlobalOptions

	Force bool
}

func DefaultInitOptions() *InitOptions {
	return &InitOptions{
		GlobalOptions: DefaultGlobalOptions(),
	}
}

func NewCmdInit() *cobra.Command {
	o := DefaultInitOptions()
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Run the first-launch data seeding step.",
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

func (o *InitOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.BoolVar(&o.Force, "force", false, "Clear the seeding state and run it again.")
}

func (o *InitOptions) Run(ctx context.Context, args []string) error {
	cfg := o.Config()
	svc := bootstrap.NewService(cfg.App.DataDir, cfg.App.SearchRoots, cfg.App.SeedFolderName, locator.New())

	var (
		result bootstrap.Result
		err    error
	)
	if o.Force {
		result, err = svc.ForceReinit()
	} else {
		result, err = svc.Bootstrap()
	}
	if err != nil {
		return err
	}

	switch {
	case result.NoOp:
		fmt.Printf("Seeding already %s, nothing to do.\n", result.Status)
	case result.IsDefault:
		fmt.Println("No seed folder found, starting with empty data.")
	default:
		fmt.Printf("Seeded from %s: %d copied, %d already present, %d failed.\n",
			result.SourcePath, result.Copied, result.Skipped, result.Failed)
	}
	return nil
}
