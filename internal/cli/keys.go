package cli

import (
	"fmt"
	"runtime"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dshills/richlist/internal/input/keymap"
)

// NewKeysCmd lists the active key bindings by category.
func NewKeysCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List key bindings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := keymap.Load(env.Config.Keymap.File)
			if err != nil {
				return err
			}
			reg.SetMac(env.Config.Mac(runtime.GOOS == "darwin"))

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for i, group := range keymap.GroupByCategory(reg.Bindings()) {
				if i > 0 {
					fmt.Fprintln(w)
				}
				fmt.Fprintf(w, "%s:\n", group.Name)
				for _, b := range group.Bindings {
					fmt.Fprintf(w, "  %s\t%s\t%s\n", b.Keys, b.Action, b.Description)
				}
			}
			return w.Flush()
		},
	}
}
