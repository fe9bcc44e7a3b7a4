package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/timeboard/pkg/timeboard"
)

const modulePath = "github.com/mesh-intelligence/timeboard"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the timeboard version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "timeboard v%s\nmodule: %s\n", timeboard.Version, modulePath)
			return nil
		},
	}
}
