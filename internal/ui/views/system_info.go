package views

import "github.com/pterm/pterm"

type SystemInfoItem struct {
	ConfigPath    string
	Driver        string
	StoragePath   string
	StorageExists bool
	LogPath       string
	AppDataDir    string
	MinimumAge    int
}

func RenderSystemInfo(data SystemInfoItem) error {
	status := pterm.Green("Found")
	if !data.StorageExists {
		status = pterm.Red("Not Found (Will be created)")
	}

	tableData := pterm.TableData{
		{"Configuration File", data.ConfigPath},
		{"Storage Driver", data.Driver},
		{"Storage Path", data.StoragePath},
		{"Storage Status", status},
		{"Log File", data.LogPath},
		{"Minimum Age", pterm.Sprint(data.MinimumAge)},
		{"AppData Directory", data.AppDataDir},
	}

	return pterm.DefaultTable.WithData(tableData).Render()
}
