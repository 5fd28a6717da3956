package cmd

import (
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/hance08/kbank/cmd/account"
	"github.com/hance08/kbank/cmd/transaction"
	"github.com/hance08/kbank/internal/app"
	"github.com/hance08/kbank/internal/config"
	"github.com/hance08/kbank/internal/errhandler"
	"github.com/hance08/kbank/internal/logging"
	"github.com/hance08/kbank/internal/store"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	cfgFile string
	verbose bool
)

func Execute(migrations fs.FS) {
	os.Exit(run(migrations, os.Args[1:]))
}

func run(migrations fs.FS, args []string) int {
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " ERROR ",
		Style: pterm.NewStyle(pterm.BgLightRed, pterm.FgBlack),
	}

	// --config and --verbose are needed before the store is opened,
	// i.e. before cobra parses anything.
	rest := preParse(args)

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return errhandler.HandleError(err)
	}

	logPath, err := cfg.LogPath()
	if err != nil {
		return errhandler.HandleError(err)
	}
	log, closeLog, err := logging.New(cfg.Logging.Level, logPath, verbose)
	if err != nil {
		return errhandler.HandleError(err)
	}
	defer func() {
		_ = closeLog()
	}()

	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)

	// doctor has to work on a store that does not open
	if len(rest) > 0 && rest[0] == "doctor" {
		rootCmd.AddCommand(NewDoctorCmd(cfg, log))
		return errhandler.HandleError(rootCmd.Execute())
	}

	application, cleanup, err := app.NewApp(cfg, migrations, log)
	if err != nil {
		if errors.Is(err, store.ErrCorruptRecord) || errors.Is(err, store.ErrUnsupportedVersion) {
			pterm.Info.Println("Run 'kbank doctor' to inspect the store file, or 'kbank doctor --repair' to quarantine damaged records.")
		}
		return errhandler.HandleError(err)
	}
	defer cleanup()

	if application.Recovered > 0 {
		pterm.Warning.Printfln("Dropped %d incomplete record(s) left by an interrupted write, see %s",
			application.Recovered, store.DamagedPath(application.StoragePath))
	}

	svc := application.Service
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		runner := &menuRunner{svc: svc}
		return runner.Run(cmd.Context())
	}

	rootCmd.AddCommand(account.NewAccountCmd(svc))
	rootCmd.AddCommand(transaction.NewTransactionCmd(svc))

	rootCmd.AddCommand(NewStatementCmd(svc))
	rootCmd.AddCommand(NewInfoCmd(svc, application.StoragePath, logPath))
	rootCmd.AddCommand(NewDoctorCmd(cfg, log))
	rootCmd.AddCommand(NewServeCmd(svc, log))

	return errhandler.HandleError(rootCmd.Execute())
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "kbank",
		Short: "kbank is a small banking console",
		Long: `kbank registers customer accounts and records deposits, withdrawals
and transfers between them. Run it without a command for the interactive menu.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "set the config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "also write logs to stderr")

	return rootCmd
}

// preParse reads the global flags and returns the remaining positional args.
// Unknown flags are left for cobra.
func preParse(args []string) []string {
	flags := pflag.NewFlagSet("kbank", pflag.ContinueOnError)
	flags.ParseErrorsWhitelist.UnknownFlags = true
	flags.SetOutput(io.Discard)
	flags.Usage = func() {}

	flags.StringVarP(&cfgFile, "config", "c", "", "")
	flags.BoolVarP(&verbose, "verbose", "v", false, "")

	_ = flags.Parse(args)
	return flags.Args()
}
