package cli

import (
	"os"

	"github.com/spf13/cobra"
)

func NewCmdRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projtrack [flags] [options]",
		Short: "projtrack tracks manufacturing projects and their CSV-sourced tasks.",
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
			os.Exit(1)
		},
	}
	cmd.AddCommand(NewCmdInit())
	cmd.AddCommand(NewCmdReset())
	cmd.AddCommand(NewCmdProject())
	cmd.AddCommand(NewCmdIngest())
	cmd.AddCommand(NewCmdExport())
	cmd.AddCommand(NewCmdVersion())

	return cmd
}
