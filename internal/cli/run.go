package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/richlist/internal/app"
	"github.com/dshills/richlist/internal/config"
	"github.com/dshills/richlist/internal/config/notify"
	"github.com/dshills/richlist/internal/config/watcher"
	"github.com/dshills/richlist/internal/script"
)

type runOptions struct {
	in      string
	print   bool
	write   bool
	watch   bool
	timeout time.Duration
}

// NewRunCmd runs a Lua script against a document.
func NewRunCmd(env *Env) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run SCRIPT",
		Short: "Run a Lua script against a document",
		Long: `Run a Lua script against a document.

The script drives an edit session through the run, press, select and find
globals. Each run starts from the document as stored on disk. With --watch
the script is run again whenever it (or the document, unless --write is
set) changes. A change to the configuration file is reloaded before the
next run.

Examples:
  richlist run tidy.lua --in notes.md --print
  richlist run tidy.lua --in notes.md --write --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if !opts.watch {
				return runScript(cmd.Context(), env, path, opts, cmd.OutOrStdout())
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return watchScript(ctx, env, path, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.in, "in", "i", "", "input document (.md or .json)")
	cmd.Flags().BoolVarP(&opts.print, "print", "p", false, "print the resulting document as markdown")
	cmd.Flags().BoolVarP(&opts.write, "write", "w", false, "save the result back to the input file")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "re-run when the script changes")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", script.DefaultTimeout, "per-run time limit (0 disables)")
	_ = cmd.MarkFlagRequired("in")

	return cmd
}

// runScript runs the script once in a fresh session.
func runScript(ctx context.Context, env *Env, path string, opts runOptions, out io.Writer) error {
	s, err := env.NewSession()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Open(opts.in); err != nil {
		return err
	}

	r := script.New(s, script.WithOutput(out), script.WithTimeout(opts.timeout))
	defer r.Close()

	if err := r.RunFile(ctx, path); err != nil {
		return err
	}

	if opts.write && s.Document().IsModified() {
		if err := s.Save(); err != nil {
			return err
		}
	}
	if opts.print {
		_, err = io.WriteString(out, s.Markdown())
	}
	return err
}

// watchScript runs the script, then again on every change until ctx ends.
// Script errors are logged rather than returned so that a typo does not end
// the session.
func watchScript(ctx context.Context, env *Env, path string, opts runOptions, out io.Writer) error {
	log := env.Logger.WithComponent("watch").WithField("script", path)

	w, err := watcher.New(watcher.WithErrorHandler(func(err error) {
		log.Warn("watch error: %v", err)
	}))
	if err != nil {
		return err
	}
	defer w.Stop()

	if err := w.Watch(path); err != nil {
		return err
	}
	if !opts.write {
		if err := w.Watch(opts.in); err != nil {
			return err
		}
	}
	// The configuration file may not exist yet; a missing directory only
	// disables reloading.
	var cfgPath string
	if env.ConfigPath != "" {
		abs, err := filepath.Abs(env.ConfigPath)
		if err == nil {
			err = w.Watch(abs)
		}
		if err != nil {
			log.Debug("not watching config: %v", err)
		} else {
			cfgPath = abs
		}
	}

	notifier := configNotifier(env, log)

	changes := make(chan watcher.Event, 1)
	w.OnChange(func(ev watcher.Event) {
		select {
		case changes <- ev:
		default:
		}
	})
	w.Start()

	rerun := func() {
		if err := runScript(ctx, env, path, opts, out); err != nil {
			log.Error("%v", err)
			return
		}
		log.Debug("run complete")
	}

	rerun()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-changes:
			if ev.Op == watcher.OpRemove {
				continue
			}
			if ev.Path == cfgPath {
				reloadConfig(env, notifier, log)
			}
			log.WithField("file", ev.Path).Info("%s, running again", ev.Op)
			rerun()
		}
	}
}

// configNotifier applies reloaded logging settings to the running logger
// and records every changed setting.
func configNotifier(env *Env, log *app.Logger) *notify.Notifier {
	n := notify.New()
	n.SubscribePath("logging.level", func(notify.Change) {
		env.Logger.SetLevel(env.Config.LogLevel())
	})
	n.Subscribe(func(c notify.Change) {
		log.WithField("setting", c.Path).Info("%s: %v -> %v", c.Type, c.OldValue, c.NewValue)
	})
	return n
}

// reloadConfig replaces env.Config with a fresh read of its sources. An
// invalid file is logged and the previous configuration kept.
func reloadConfig(env *Env, n *notify.Notifier, log *app.Logger) {
	next, err := env.Config.Reload()
	if err != nil {
		log.Error("reload config: %v", err)
		return
	}
	changes := config.Changes(env.Config, next)
	env.Config = next
	n.NotifyAll(changes)
}
