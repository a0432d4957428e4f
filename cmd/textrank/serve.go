package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/oarkflow/supervisor"
	"github.com/spf13/cobra"

	"github.com/oarkflow/textrank/server"
)

var (
	supervise        bool
	supervisorConfig string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the summarization HTTP API",
	Long: `Starts the HTTP API. With --supervise the server runs under the process
supervisor, which restarts it on crashes and on .env changes.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if supervise {
			supervisor.Run(supervisorConfig, serve)
			return nil
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&supervise, "supervise", false, "run under the process supervisor")
	serveCmd.Flags().StringVar(&supervisorConfig, "supervisor-config", "supervisor.json", "supervisor config file")
}

func serve(ctx context.Context) error {
	cfg, log, err := setup(false)
	if err != nil {
		return err
	}
	defer log.Sync()

	srv, err := server.Open(cfg, log)
	if err != nil {
		return err
	}
	defer srv.Close()
	return srv.Run(ctx)
}
