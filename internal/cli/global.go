package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/craftbase/projtrack/internal/config"
	"github.com/craftbase/projtrack/pkg/log"
)

type GlobalOptions struct {
	ConfigFile string

	cfg *config.Config
}

func DefaultGlobalOptions() GlobalOptions {
	return GlobalOptions{}
}

func (o *GlobalOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVarP(&o.ConfigFile, "config", "c", o.ConfigFile, "Path to an optional YAML config file.")
}

func (o *GlobalOptions) Complete(cmd *cobra.Command, args []string) error {
	cfg, err := config.New()
	if err != nil {
		return err
	}
	if o.ConfigFile != "" {
		if err := cfg.ParseConfigFile(o.ConfigFile); err != nil {
			return err
		}
	}
	o.cfg = cfg
	log.Setup(cfg.App.LogLevel)
	return nil
}

func (o *GlobalOptions) Validate(args []string) error {
	return nil
}

func (o *GlobalOptions) Config() *config.Config {
	return o.cfg
}
