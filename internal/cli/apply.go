package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/richlist/internal/app"
	"github.com/dshills/richlist/internal/dispatcher/handler"
)

// ErrNotApplied is returned by apply --strict when an action was a no-op.
var ErrNotApplied = errors.New("action not applied")

// placement selects where actions start.
type placement struct {
	sel  string
	node int
	find string
}

func (p placement) apply(s *app.Session) error {
	switch {
	case p.find != "":
		pos, err := s.Find(p.find)
		if err != nil {
			return err
		}
		return s.Select(pos, pos)
	case p.node >= 0:
		return s.SelectNode(p.node)
	case p.sel != "":
		anchor, head, err := parseRange(p.sel)
		if err != nil {
			return err
		}
		return s.Select(anchor, head)
	}
	return nil
}

// parseRange parses "a" or "a:h".
func parseRange(s string) (int, int, error) {
	from, to, isRange := strings.Cut(s, ":")
	anchor, err := strconv.Atoi(from)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid selection %q: %w", s, err)
	}
	if !isRange {
		return anchor, anchor, nil
	}
	head, err := strconv.Atoi(to)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid selection %q: %w", s, err)
	}
	return anchor, head, nil
}

// actionName adds the list namespace to bare action names.
func actionName(name string) string {
	if strings.Contains(name, ".") {
		return name
	}
	return "list." + name
}

// NewApplyCmd runs actions against a document and prints the result.
func NewApplyCmd(env *Env) *cobra.Command {
	var (
		in     string
		out    string
		place  placement
		count  int
		write  bool
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "apply ACTION...",
		Short: "Apply list actions to a document",
		Long: `Apply list actions to a document, in order, and print the result.

Actions are dispatcher names such as list.indent; the "list." prefix may be
omitted. An action that does not apply to the selection leaves the document
unchanged and is reported on stderr.

Examples:
  richlist apply --in notes.md --find eggs indent
  richlist apply --in notes.md --select 3:20 toggleBulletList
  richlist apply --in doc.json --node 0 --out json toggleOrderedList`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := env.NewSession()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Open(in); err != nil {
				return err
			}
			if err := place.apply(s); err != nil {
				return err
			}

			format := s.Document().Format
			if out != "" {
				if format, err = app.ParseFormat(out); err != nil {
					return err
				}
			}

			log := env.Logger.WithComponent("apply")
			for _, arg := range args {
				name := actionName(arg)
				result, err := s.Run(name, count)
				if err != nil {
					return err
				}
				if result.Status == handler.StatusNoOp {
					log.WithField("action", name).Warn("%s", result)
					if strict {
						return fmt.Errorf("%s: %w", name, ErrNotApplied)
					}
				}
			}

			if write {
				if err := s.Save(); err != nil {
					return err
				}
			}

			data, err := s.Encode(format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&in, "in", "i", "", "input document (.md or .json)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output format (markdown, json); defaults to the input format")
	cmd.Flags().StringVarP(&place.sel, "select", "s", "", "text selection as ANCHOR[:HEAD]")
	cmd.Flags().IntVar(&place.node, "node", -1, "select the node starting at this position")
	cmd.Flags().StringVarP(&place.find, "find", "f", "", "place the cursor before the first occurrence of text")
	cmd.Flags().IntVarP(&count, "count", "n", 1, "repeat each action this many times")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "save the result back to the input file")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when an action does not apply")
	_ = cmd.MarkFlagRequired("in")
	cmd.MarkFlagsMutuallyExclusive("select", "node", "find")

	return cmd
}
