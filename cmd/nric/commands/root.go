// Package commands implements the nric command line.
package commands

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/nric/internal/adapters/singstat"
	app "github.com/okian/nric/internal/app"
	"github.com/okian/nric/internal/config"
	"github.com/okian/nric/pkg/logger"
)

// ErrInvalid is returned by validate when any identifier fails the check.
var ErrInvalid = errors.New("one or more identifiers are invalid")

// state is shared by every subcommand of one root.
type state struct {
	logLevel string
	statsURL string
	timeout  time.Duration

	log logger.Logger
	svc *app.Service
}

// Execute runs the root command against os.Args.
func Execute() error {
	return NewRoot().Execute()
}

// NewRoot builds the command tree.
func NewRoot() *cobra.Command {
	st := &state{}
	root := &cobra.Command{
		Use:           "nric",
		Short:         "Validate and resolve Singapore NRIC/FIN identifiers",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Context())
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("stats-url") {
				cfg.StatsURL = st.statsURL
			}
			if cmd.Flags().Changed("timeout") {
				cfg.StatsTimeoutMS = int(st.timeout / time.Millisecond)
			}
			if st.logLevel != "" {
				cfg.LogLevel = st.logLevel
			}

			if err := logger.Init(logger.WithWriter(cmd.ErrOrStderr()), logger.WithFormat(cfg.LogFormat), logger.WithSource(false)); err != nil {
				return err
			}
			if err := logger.SetLevelString(cfg.LogLevel); err != nil {
				return err
			}
			st.log = logger.Get()

			stats := singstat.New(
				singstat.WithURL(cfg.StatsURL),
				singstat.WithReferer(cfg.StatsReferer),
				singstat.WithUserAgent(cfg.StatsUserAgent),
				singstat.WithTimeout(cfg.StatsTimeout()),
				singstat.WithLogger(st.log.Named("singstat")),
			)
			st.svc = app.New(stats,
				app.WithLogger(st.log.Named("service")),
				app.WithBatchWorkers(cfg.BatchWorkers),
				app.WithMaxBatchSize(cfg.MaxBatchSize),
			)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&st.logLevel, "log-level", "", "log level (debug, info, warn, error); overrides NRIC_LOG_LEVEL")
	root.PersistentFlags().StringVar(&st.statsURL, "stats-url", config.DefaultStatsURL, "birth statistics table URL")
	root.PersistentFlags().DurationVar(&st.timeout, "timeout", 10*time.Second, "statistics fetch timeout")

	root.AddCommand(validateCmd(st), checksumCmd(st), resolveCmd(st))
	return root
}
