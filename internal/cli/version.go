package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// overridden at build time with -ldflags "-X .../internal/cli.version=..."
var version = "dev"

type VersionOptions struct{}

func DefaultVersionOptions() *VersionOptions {
	return &VersionOptions{}
}

func NewCmdVersion() *cobra.Command {
	o := DefaultVersionOptions()
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print projtrack version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.Run(cmd.Context(), args)
		},
	}
	return cmd
}

func (o *VersionOptions) Run(ctx context.Context, args []string) error {
	fmt.Printf("projtrack version: %s\n", version)
	return nil
}
