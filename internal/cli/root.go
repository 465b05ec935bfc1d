// Package cli implements the richlist command line.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/richlist/internal/app"
	"github.com/dshills/richlist/internal/config"
)

// Env is shared by every subcommand. It is filled in by the root
// command's PersistentPreRunE.
type Env struct {
	ConfigPath string
	LogLevel   string
	LogFormat  string

	Config *config.Config
	Logger *app.Logger
}

// NewSession opens a session configured from the environment.
func (e *Env) NewSession() (*app.Session, error) {
	return app.New(app.Options{
		Config: e.Config,
		Logger: e.Logger,
		Source: inputSourceCLI,
	})
}

// NewRootCmd builds the richlist command tree.
func NewRootCmd(info VersionInfo) *cobra.Command {
	env := &Env{}

	root := &cobra.Command{
		Use:   "richlist",
		Short: "Edit bullet, ordered and todo lists in rich-text documents",
		Long: `richlist applies list editing commands to markdown and JSON documents.

Examples:
  richlist apply --in notes.md --find milk list.indent
  richlist apply --in doc.json --select 12:20 --out json list.toggleTodoList
  richlist run tidy.lua --in notes.md --watch
  richlist keys`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&env.ConfigPath, "config", "c", config.DefaultPath(), "configuration file")
	flags.StringVar(&env.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&env.LogFormat, "log-format", "", "log format (text, json)")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(env.ConfigPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		overrides := []struct{ path, value string }{
			{"logging.level", env.LogLevel},
			{"logging.format", env.LogFormat},
		}
		for _, o := range overrides {
			if o.value == "" {
				continue
			}
			if err := cfg.Override(o.path, o.value); err != nil {
				return err
			}
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		env.Config = cfg
		env.Logger = app.NewLogger(app.LoggerConfig{
			Level:  cfg.LogLevel(),
			Format: cfg.Logging.Format,
			Output: cmd.ErrOrStderr(),
		})
		if cfg.Source != "" {
			env.Logger.WithField("path", cfg.Source).Debug("loaded configuration")
		}
		return nil
	}

	root.AddCommand(NewApplyCmd(env))
	root.AddCommand(NewRunCmd(env))
	root.AddCommand(NewKeysCmd(env))
	root.AddCommand(NewConfigCmd(env))
	root.AddCommand(NewVersionCmd(info))
	return root
}

// Execute runs the root command and returns the process exit code.
func Execute(info VersionInfo) int {
	root := NewRootCmd(info)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
