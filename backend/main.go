package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"clinicdesk/m/internal/config"
	"clinicdesk/m/internal/logging"
)

type app struct {
	cfg *config.Config
	log *zap.Logger
}

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:          "clinicdesk",
		Short:        "Clinic records backend: patients, cases, visits and billing",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = logging.New(logging.Options{
				Level:   cfg.LogLevel,
				Format:  cfg.LogEncoding(),
				File:    cfg.LogFile,
				Service: cfg.ServiceName,
			})
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}

	root.AddCommand(newServeCommand(a), newMigrateCommand(a), newSeedCommand(a))
	return root
}
