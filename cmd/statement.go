package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/hance08/kbank/internal/report"
	"github.com/hance08/kbank/internal/service"
	"github.com/hance08/kbank/internal/ui/views"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

type statementFlags struct {
	PDF string
}

type statementRunner struct {
	svc   *service.Service
	flags *statementFlags
}

func NewStatementCmd(svc *service.Service) *cobra.Command {
	flags := &statementFlags{}

	cmd := &cobra.Command{
		Use:   "statement <account-number>",
		Short: "Print an account statement",
		Long: `Print every transaction of an account with its running balance.
With --pdf the statement is written to a PDF file instead.

Example: kbank statement 4821930571 --pdf statement.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &statementRunner{
				svc:   svc,
				flags: flags,
			}
			return runner.Run(cmd, strings.TrimSpace(args[0]))
		},
	}

	cmd.Flags().StringVar(&flags.PDF, "pdf", "", "write the statement to this PDF file")

	return cmd
}

func (r *statementRunner) Run(cmd *cobra.Command, number string) error {
	stmt, err := r.svc.Transaction.GetStatement(cmd.Context(), number)
	if err != nil {
		return err
	}

	if r.flags.PDF == "" {
		return views.RenderStatement(stmt)
	}

	f, err := os.Create(r.flags.PDF)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", r.flags.PDF, err)
	}

	w := bufio.NewWriter(f)
	if err := report.WriteStatementPDF(w, stmt); err != nil {
		_ = f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", r.flags.PDF, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", r.flags.PDF, err)
	}

	pterm.Success.Printfln("Statement for %s written to %s", number, r.flags.PDF)
	return nil
}
