package cmd

import (
	"os"

	"github.com/hance08/kbank/internal/config"
	"github.com/hance08/kbank/internal/service"
	"github.com/hance08/kbank/internal/ui/views"
	"github.com/spf13/cobra"
)

type infoRunner struct {
	svc         *service.Service
	storagePath string
	logPath     string
}

func NewInfoCmd(svc *service.Service, storagePath, logPath string) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Display application information",
		Long:  `Display current configuration, storage location, log file and system details.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &infoRunner{
				svc:         svc,
				storagePath: storagePath,
				logPath:     logPath,
			}

			return runner.Run()
		},
	}
}

func (r *infoRunner) Run() error {
	cfg := r.svc.Config

	configPath := cfg.ConfigPath
	if configPath == "" {
		configPath = "(None, using defaults)"
	}

	storageExists := false
	if _, err := os.Stat(r.storagePath); err == nil {
		storageExists = true
	}

	items := views.SystemInfoItem{
		ConfigPath:    configPath,
		Driver:        cfg.Storage.Driver,
		StoragePath:   r.storagePath,
		StorageExists: storageExists,
		LogPath:       r.logPath,
		AppDataDir:    appDataDirOrUnknown(),
		MinimumAge:    cfg.Bank.MinimumAge,
	}

	return views.RenderSystemInfo(items)
}

func appDataDirOrUnknown() string {
	dir, err := config.AppDataDir()
	if err != nil {
		return "Unknown"
	}
	return dir
}
