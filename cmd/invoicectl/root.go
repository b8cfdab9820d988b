package main

import (
	"github.com/guidebooker/invoice-service/internal/infrastructure/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootOptions struct {
	configFile string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "invoicectl",
		Short:         "Render Guide Booker invoices to PDF",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "service config file supplying render settings")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log at debug level")

	cmd.AddCommand(newRenderCmd(opts), newVersionCmd())
	return cmd
}

// newLogger logs to stderr so stdout stays free for command output
func (o *rootOptions) newLogger() (*zap.Logger, error) {
	cfg := logger.DefaultConfig()
	cfg.Output = "stderr"
	cfg.Level = "warn"
	if o.verbose {
		cfg.Level = "debug"
	}
	return logger.New(cfg)
}
