package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dshills/richlist/internal/config"
)

// NewConfigCmd prints the effective configuration as TOML, or the named
// settings with the layer each value came from.
func NewConfigCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "config [SETTING...]",
		Short: "Print the effective configuration",
		Long: `Print the effective configuration.

With no arguments the whole configuration is printed as TOML. Otherwise
each named setting is printed with its value and the layer that supplied
it: defaults, file, environment or flags.

Examples:
  richlist config
  richlist config logging.level lists.maxDepth`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				data, err := env.Config.Encode()
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, path := range args {
				val, from, ok := env.Config.Origin(path)
				if !ok {
					return fmt.Errorf("%w: %s", config.ErrUnknownSetting, path)
				}
				fmt.Fprintf(w, "%s\t%v\t%s\n", path, val, from)
			}
			return w.Flush()
		},
	}
}
