package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/thoas/go-funk"

	"github.com/craftbase/projtrack/internal/service"
)

var legalExportFormats = []string{service.FormatCSV, service.FormatXLSX}

type ExportOptions struct {
	GlobalOptions

	Format string
	Output string
}

func DefaultExportOptions() *ExportOptions {
	return &ExportOptions{
		GlobalOptions: DefaultGlobalOptions(),
		Format:        service.FormatCSV,
	}
}

func NewCmdExport() *cobra.Command {
	o := DefaultExportOptions()
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the consolidated project and task view.",
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

func (o *ExportOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVarP(&o.Format, "format", "f", o.Format, fmt.Sprintf("Output format. One of: (%s).", strings.Join(legalExportFormats, ", ")))
	fs.StringVarP(&o.Output, "output", "o", o.Output, "Output file. Defaults to stdout.")
}

func (o *ExportOptions) Validate(args []string) error {
	if !funk.ContainsString(legalExportFormats, o.Format) {
		return fmt.Errorf("unsupported format %q, expected one of: %s", o.Format, strings.Join(legalExportFormats, ", "))
	}
	return nil
}

func (o *ExportOptions) Run(ctx context.Context, args []string) error {
	s, err := openStore(o.Config())
	if err != nil {
		return err
	}
	defer s.Close()

	data, err := service.NewExportService(s).Export(ctx, o.Format)
	if err != nil {
		return err
	}

	if o.Output == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(o.Output, data, 0644)
}
