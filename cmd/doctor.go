package cmd

import (
	"fmt"

	"github.com/hance08/kbank/internal/config"
	"github.com/hance08/kbank/internal/constants"
	"github.com/hance08/kbank/internal/store"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type doctorFlags struct {
	Repair bool
}

type doctorRunner struct {
	cfg   *config.Config
	log   *zerolog.Logger
	flags *doctorFlags
}

// NewDoctorCmd takes the config instead of the service: it has to run
// when the store can not be opened.
func NewDoctorCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	flags := &doctorFlags{}

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the store file for damaged records",
		Long: `Read the file store without opening it and report records that can not
be decoded. With --repair, damaged records are moved to the .damaged file
next to the store and the store is rewritten without them.

Only the file storage driver keeps its own log; sqlite databases are
checked by sqlite itself.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &doctorRunner{
				cfg:   cfg,
				log:   log,
				flags: flags,
			}
			return runner.Run()
		},
	}

	cmd.Flags().BoolVar(&flags.Repair, "repair", false, "quarantine damaged records and rewrite the store")

	return cmd
}

func (r *doctorRunner) Run() error {
	if r.cfg.Storage.Driver != constants.DriverFile {
		pterm.Info.Printfln("Storage driver is '%s', nothing to check", r.cfg.Storage.Driver)
		return nil
	}

	path, err := r.cfg.StoragePath()
	if err != nil {
		return fmt.Errorf("failed to resolve storage path: %w", err)
	}

	health, err := store.InspectFile(path)
	if err != nil {
		return err
	}
	if err := renderHealth(health); err != nil {
		return err
	}

	if len(health.Damaged) == 0 {
		pterm.Success.Println("Store file is healthy")
		return nil
	}

	if !r.flags.Repair {
		pterm.Warning.Printfln("%d damaged record(s) found, run 'kbank doctor --repair' to quarantine them", len(health.Damaged))
		return nil
	}

	report, err := store.RepairFile(path, r.log)
	if err != nil {
		return err
	}

	pterm.Success.Printfln("Kept %d record(s), moved %d to %s", report.Kept, report.Quarantined, report.DamagedFile)
	return nil
}

func renderHealth(h *store.FileHealth) error {
	status := pterm.Green("Found")
	if !h.Exists {
		status = pterm.Gray("Not Found")
	}
	quarantine := "None"
	if h.HasQuarantine {
		quarantine = h.DamagedFile
	}

	tableData := pterm.TableData{
		{pterm.Blue("Store File"), h.Path},
		{pterm.Blue("Status"), status},
		{pterm.Blue("Records"), fmt.Sprintf("%d", h.Records)},
		{pterm.Blue("Damaged"), fmt.Sprintf("%d", len(h.Damaged))},
		{pterm.Blue("Quarantine"), quarantine},
	}
	if err := pterm.DefaultTable.WithData(tableData).Render(); err != nil {
		return err
	}

	if len(h.Damaged) == 0 {
		return nil
	}

	rows := pterm.TableData{{"Line", "Reason"}}
	for _, d := range h.Damaged {
		rows = append(rows, []string{fmt.Sprintf("%d", d.Line), d.Reason})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}
