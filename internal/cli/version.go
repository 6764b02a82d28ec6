package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/cyclehud/internal/codec"
)

// Version is the cyclehud release.
const Version = "0.3.0"

const modulePath = "github.com/mesh-intelligence/cyclehud"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the cyclehud version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "cyclehud v%s\nmodule: %s\nsave format: %d\n", Version, modulePath, codec.Version())
			return nil
		},
	}
}
