package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/hance08/kbank/internal/api"
	"github.com/hance08/kbank/internal/service"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type serveFlags struct {
	Addr string
}

type serveRunner struct {
	svc   *service.Service
	log   *zerolog.Logger
	flags *serveFlags
}

func NewServeCmd(svc *service.Service, log *zerolog.Logger) *cobra.Command {
	flags := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the bank over HTTP",
		Long: `Expose accounts, transactions and transfers as a JSON API.
The server stops on SIGINT or SIGTERM after in-flight requests finish.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &serveRunner{
				svc:   svc,
				log:   log,
				flags: flags,
			}
			return runner.Run(cmd)
		},
	}

	cmd.Flags().StringVar(&flags.Addr, "addr", "", "listen address (default from server.addr)")

	return cmd
}

func (r *serveRunner) Run(cmd *cobra.Command) error {
	srvCfg := r.svc.Config.Server
	if r.flags.Addr != "" {
		srvCfg.Addr = r.flags.Addr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler := api.NewHandler(r.svc, srvCfg, r.log)
	srv := api.NewServer(srvCfg.Addr, handler)

	pterm.Info.Printfln("Listening on %s, press Ctrl+C to stop", srvCfg.Addr)
	return api.Serve(ctx, srv, r.log)
}
