package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/richlist/internal/input"
)

const inputSourceCLI = input.SourceCLI

// VersionInfo is stamped into the binary via ldflags.
type VersionInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewVersionCmd prints build information.
func NewVersionCmd(info VersionInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// No configuration needed.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "richlist %s\n", info.Version)
			fmt.Fprintf(out, "Commit: %s\n", info.Commit)
			fmt.Fprintf(out, "Built: %s\n", info.Date)
		},
	}
}
