// Package app wires the list engine into an edit session: configuration,
// logging, the key binding table and the action dispatcher around a
// single document.
//
// A Session is used from one goroutine. Keys are resolved through the
// keymap, actions run through the dispatcher and every committed
// transaction is stamped with an id before it reaches the editor state.
package app

import (
	"fmt"
	"runtime"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dshills/richlist/internal/config"
	"github.com/dshills/richlist/internal/dispatcher"
	"github.com/dshills/richlist/internal/dispatcher/handler"
	"github.com/dshills/richlist/internal/engine/list"
	"github.com/dshills/richlist/internal/engine/model"
	"github.com/dshills/richlist/internal/engine/selection"
	"github.com/dshills/richlist/internal/engine/transform"
	"github.com/dshills/richlist/internal/input"
	"github.com/dshills/richlist/internal/input/keymap"
)

// Session is an editable document with everything needed to drive it
// from key chords or action names.
type Session struct {
	config *config.Config
	schema *model.Schema
	roles  *list.Roles

	editor  *sessionEditor
	system  *dispatcher.System
	keys    *keymap.Registry
	logger  *Logger
	metrics *Metrics

	document *Document
	source   input.ActionSource
}

// Options configures a session. Zero fields take defaults.
type Options struct {
	// Config defaults to config.Default().
	Config *config.Config

	// Schema defaults to model.DefaultSchema().
	Schema *model.Schema

	// Keymap defaults to the built-in bindings layered with the file
	// named by Config.Keymap.File.
	Keymap *keymap.Registry

	// Logger defaults to a logger built from Config.Logging.
	Logger *Logger

	// Source tags actions dispatched by name. Press always uses
	// input.SourceKeyboard.
	Source input.ActionSource
}

// New creates a session holding an empty document.
func New(opts Options) (*Session, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	schema := opts.Schema
	if schema == nil {
		schema = model.DefaultSchema()
	}
	logger := opts.Logger
	if logger == nil {
		logger = NewLogger(LoggerConfig{Level: cfg.LogLevel(), Format: cfg.Logging.Format})
	}

	roles, err := cfg.Roles(schema)
	if err != nil {
		return nil, &InitError{Component: "roles", Err: err}
	}

	keys := opts.Keymap
	if keys == nil {
		keys, err = keymap.Load(cfg.Keymap.File)
		if err != nil {
			return nil, &InitError{Component: "keymap", Err: err}
		}
	}
	keys.SetMac(cfg.Mac(runtime.GOOS == "darwin"))

	s := &Session{
		config:   cfg,
		schema:   schema,
		roles:    roles,
		keys:     keys,
		logger:   logger,
		metrics:  NewMetrics(),
		document: NewScratchDocument(FormatMarkdown),
		source:   opts.Source,
	}

	empty := schema.TopNodeType().Create(nil, roles.Paragraph.Create(nil))
	s.editor = newSessionEditor(list.State{Doc: empty, Selection: selection.Cursor(1)}, logger)
	s.editor.onCommit = func(*transform.Transaction) {
		s.document.SetModified(true)
		s.document.IncrementVersion()
	}

	sc := systemConfig(cfg)
	sc.OnTiming = s.metrics.RecordAction
	s.system = dispatcher.NewSystem(sc)
	s.system.SetEditor(s.editor)
	s.system.SetRoles(roles)
	s.system.SetLogger(logger.WithComponent("dispatcher"))

	logger.WithComponent("session").Debug("session ready (max depth %d, %d bindings)", roles.MaxDepth, len(keys.Bindings()))
	return s, nil
}

func systemConfig(cfg *config.Config) dispatcher.SystemConfig {
	dc := dispatcher.DefaultConfig().
		WithMaxRepeatCount(cfg.Dispatcher.MaxRepeatCount).
		WithSlowActionThreshold(cfg.SlowActionThreshold())
	if cfg.Dispatcher.Metrics {
		dc = dc.WithMetrics()
	}

	sc := dispatcher.DefaultSystemConfig()
	sc.DispatcherConfig = dc
	sc.ChangeLogSize = cfg.Dispatcher.ChangeLogSize
	sc.EnableAudit = cfg.Dispatcher.Audit
	sc.DisabledActions = cfg.Dispatcher.DisabledActions
	return sc
}

// Config returns the session configuration.
func (s *Session) Config() *config.Config { return s.config }

// Schema returns the document schema.
func (s *Session) Schema() *model.Schema { return s.schema }

// Roles returns the list roles actions run with.
func (s *Session) Roles() *list.Roles { return s.roles }

// Logger returns the session logger.
func (s *Session) Logger() *Logger { return s.logger }

// System returns the dispatcher system.
func (s *Session) System() *dispatcher.System { return s.system }

// Keymap returns the key binding registry.
func (s *Session) Keymap() *keymap.Registry { return s.keys }

// Metrics returns the session metrics.
func (s *Session) Metrics() *Metrics { return s.metrics }

// Document returns the document being edited.
func (s *Session) Document() *Document { return s.document }

// State returns the current document and selection.
func (s *Session) State() list.State { return s.editor.State() }

// Doc returns the current document.
func (s *Session) Doc() *model.Node { return s.editor.State().Doc }

// Selection returns the current selection.
func (s *Session) Selection() selection.Selection { return s.editor.State().Selection }

// SetState replaces the document and selection without a transaction.
func (s *Session) SetState(state list.State) error {
	if err := state.Doc.Check(); err != nil {
		return err
	}
	if err := state.Validate(); err != nil {
		return err
	}
	s.editor.SetState(state)
	return nil
}

// Select places a text selection.
func (s *Session) Select(anchor, head int) error {
	sel := selection.NewTextSelection(anchor, head)
	if err := selection.Validate(sel, s.Doc()); err != nil {
		return NewOperationError("select", fmt.Sprintf("%d:%d", anchor, head), err)
	}
	s.editor.SetState(list.State{Doc: s.Doc(), Selection: sel})
	return nil
}

// SelectNode selects the node that starts at pos.
func (s *Session) SelectNode(pos int) error {
	sel, err := selection.NewNodeSelection(s.Doc(), pos)
	if err != nil {
		return NewOperationError("select node", fmt.Sprint(pos), err)
	}
	s.editor.SetState(list.State{Doc: s.Doc(), Selection: sel})
	return nil
}

// Press runs the action bound to a key chord such as "Mod-Shift-8".
func (s *Session) Press(keys string) (handler.Result, error) {
	binding, err := s.keys.Lookup(keys)
	if err != nil {
		s.metrics.RecordKey(false)
		return handler.Result{}, NewOperationError("press", keys, err)
	}
	if binding == nil {
		s.metrics.RecordKey(false)
		return handler.Result{}, NewOperationError("press", keys, ErrUnboundKey)
	}
	s.metrics.RecordKey(true)

	action := input.NewAction(binding.Action, input.SourceKeyboard).WithKey(binding.Keys)
	return s.Dispatch(action)
}

// Run dispatches an action by name, repeated count times when count > 1.
func (s *Session) Run(name string, count int) (handler.Result, error) {
	action := input.NewAction(name, s.source)
	if count > 1 {
		action = action.WithCount(count)
	}
	return s.Dispatch(action)
}

// DryRun reports what an action would do without committing it.
func (s *Session) DryRun(name string) handler.Result {
	return s.system.DryRun(input.NewAction(name, s.source))
}

// Repeat runs the last applied action again.
func (s *Session) Repeat() (handler.Result, error) {
	return s.finish("repeat", time.Now(), s.system.RepeatLastAction())
}

// Dispatch runs an action through the dispatcher. Error and cancelled
// results are returned as errors as well; a no-op is not an error.
func (s *Session) Dispatch(action input.Action) (handler.Result, error) {
	return s.finish(action.Name, time.Now(), s.system.Dispatch(action))
}

func (s *Session) finish(name string, start time.Time, result handler.Result) (handler.Result, error) {
	log := s.logger.WithComponent("session").WithField("action", name)

	switch result.Status {
	case handler.StatusOK:
		s.metrics.RecordRun(time.Since(start), OutcomeCommitted)
		if result.Transaction != nil {
			log = log.WithField("tx", result.Transaction.ID())
		}
		log.Debug("applied")
		return result, nil

	case handler.StatusNoOp:
		s.metrics.RecordRun(time.Since(start), OutcomeNoOp)
		log.Debug("not applicable: %s", result.Reason)
		return result, nil

	default:
		s.metrics.RecordRun(time.Since(start), OutcomeError)
		err := result.Error
		if err == nil {
			err = fmt.Errorf("%w: %s", ErrActionFailed, result.Message)
		}
		log.Warn("%s: %v", result.Status, err)
		return result, NewOperationError("run", name, err)
	}
}

// Open reads a markdown or JSON file into the session.
func (s *Session) Open(path string) error {
	doc, err := NewDocument(path)
	if err != nil {
		return NewOperationError("open", path, err)
	}
	state, err := doc.Read(s.schema)
	if err != nil {
		return err
	}
	if err := s.SetState(state); err != nil {
		return NewOperationError("open", path, err)
	}
	s.document = doc
	s.logger.WithComponent("session").WithField("path", path).Debug("opened %s document", doc.Format)
	return nil
}

// Load replaces the session state with data in format. The document
// becomes a scratch document.
func (s *Session) Load(data []byte, format Format) error {
	state, err := Decode(s.schema, data, format)
	if err != nil {
		return NewOperationError("load", string(format), err)
	}
	if err := s.SetState(state); err != nil {
		return NewOperationError("load", string(format), err)
	}
	s.document = NewScratchDocument(format)
	return nil
}

// Save writes the state back to the document's file.
func (s *Session) Save() error {
	return s.document.Write(s.State())
}

// SaveAs writes the state to path and makes it the document's file.
func (s *Session) SaveAs(path string) error {
	doc, err := NewDocument(path)
	if err != nil {
		return NewOperationError("save", path, err)
	}
	if err := doc.Write(s.State()); err != nil {
		return err
	}
	s.document = doc
	return nil
}

// Encode writes the current state in format.
func (s *Session) Encode(format Format) ([]byte, error) {
	return Encode(s.State(), format)
}

// Markdown renders the current document.
func (s *Session) Markdown() string {
	out, _ := s.Encode(FormatMarkdown)
	return string(out)
}

// Find returns the position of the first occurrence of text inside a
// textblock. Inline leaves such as hard breaks never match.
func (s *Session) Find(text string) (int, error) {
	if text == "" {
		return 0, NewOperationError("find", text, ErrNotFound)
	}
	found := -1
	s.Doc().Descendants(func(n *model.Node, pos int, _ *model.Node, _ int) bool {
		if found >= 0 {
			return false
		}
		if !n.IsTextblock() {
			return true
		}
		content := inlineRunes(n)
		if idx := strings.Index(content, text); idx >= 0 {
			found = pos + 1 + utf8.RuneCountInString(content[:idx])
		}
		return false
	})
	if found < 0 {
		return 0, NewOperationError("find", text, ErrNotFound)
	}
	return found, nil
}

// inlineRunes spells out a textblock one rune per position, with U+FFFC
// standing in for inline leaves.
func inlineRunes(block *model.Node) string {
	var b strings.Builder
	for _, child := range block.Children() {
		if child.IsText() {
			b.WriteString(child.Text())
			continue
		}
		for i := 0; i < child.Size(); i++ {
			b.WriteRune('\uFFFC')
		}
	}
	return b.String()
}

// Close stops the dispatcher.
func (s *Session) Close() {
	s.system.Stop()
}
