package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/cyclehud/internal/archive"
	"github.com/mesh-intelligence/cyclehud/internal/layout"
	"github.com/mesh-intelligence/cyclehud/internal/paths"
	"github.com/mesh-intelligence/cyclehud/internal/settings"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize cyclehud configuration and storage",
		Long: "Create the configuration and data directories, write default settings\n" +
			"and layout files where missing, then initialize the save archive.",
		RunE: runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	dirs, err := paths.Resolve(flags.configDir, flags.dataDir)
	if err != nil {
		return sysError("resolve directories: %s", err)
	}
	if err := dirs.Ensure(); err != nil {
		return sysError("create directories: %s", err)
	}
	if err := settings.EnsureDefaultFile(dirs.Config); err != nil {
		return sysError("write settings: %s", err)
	}
	if err := layout.EnsureDefaultFile(dirs.LayoutPath()); err != nil {
		return sysError("write layout: %s", err)
	}

	arc := archive.New()
	if err := arc.Attach(archiveConfig(dirs)); err != nil {
		return sysError("initialize archive: %s", err)
	}
	if err := arc.Detach(); err != nil {
		return sysError("finalize archive: %s", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "cyclehud initialized\nconfig: %s\ndata: %s\n", dirs.Config, dirs.Data)
	return nil
}
