package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/fsm-draw/internal/config"
	"github.com/ha1tch/fsm-draw/pkg/diagram"
	"github.com/ha1tch/fsm-draw/pkg/fsm"
	"github.com/ha1tch/fsm-draw/pkg/fsmfile"
	"github.com/ha1tch/fsm-draw/pkg/textfit"
)

// Mode represents editor mode
type Mode int

const (
	ModeCanvas Mode = iota
	ModeInput
	ModeHelp
)

// MessageType for status messages
type MessageType int

const (
	MsgInfo    MessageType = iota // Informative, no flash
	MsgError                      // Errors, flash
	MsgSuccess                    // State changes, flash
	MsgWarning                    // Warnings, flash
)

// flashPhase is the length of one normal or inverted flash phase.
const flashPhase = 125 * time.Millisecond

// configReload carries a reloaded config to the event loop.
type configReload struct {
	cfg *config.Config
}

// Editor holds all terminal editor state. Diagram state lives in doc; the
// terminal layer only translates input and paints views.
type Editor struct {
	screen  tcell.Screen
	doc     *diagram.Editor
	cfg     *config.Config
	cfgPath string
	log     *slog.Logger

	view viewport
	ptr  *pointer

	filename string
	saved    diagram.Document

	mode        Mode
	message     string
	messageType MessageType

	// Message flash state
	messageFlashStart int64 // Unix milliseconds when message was shown

	// Input state
	inputBuffer string
	inputPrompt string
	inputAction func(string)

	quitPending bool
}

func newEditor(screen tcell.Screen, cfg *config.Config, cfgPath string, log *slog.Logger) *Editor {
	fitter := textfit.New(textfit.CellMeasurer{CellWidth: cfg.Terminal.CellWidth})
	opts := append(cfg.EditorOptions(), diagram.WithLogger(log), diagram.WithFitter(fitter))
	doc := diagram.New(opts...)
	doc.AttachViews()

	ed := &Editor{
		screen:  screen,
		doc:     doc,
		cfg:     cfg,
		cfgPath: cfgPath,
		log:     log,
		view:    viewport{cellW: cfg.Terminal.CellWidth, cellH: cfg.Terminal.CellHeight},
	}
	ed.ptr = newPointer(doc, &ed.view)
	ed.saved = doc.Document()
	return ed
}

func (ed *Editor) modified() bool {
	return !reflect.DeepEqual(ed.doc.Document(), ed.saved)
}

func (ed *Editor) run() {
	for {
		ed.draw()
		ed.screen.Show()

		ev := ed.screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			return
		case *tcell.EventResize:
			ed.screen.Sync()
		case *tcell.EventKey:
			if ed.handleKey(ev) {
				return
			}
		case *tcell.EventMouse:
			ed.handleMouse(ev)
		case *tcell.EventInterrupt:
			if r, ok := ev.Data().(configReload); ok {
				ed.applyConfig(r.cfg)
			}
		}
	}
}

// applyConfig takes over a reloaded config. Cell size changes apply to the
// viewport and label metrics immediately; engine settings go through
// ApplyLive.
func (ed *Editor) applyConfig(cfg *config.Config) {
	cfg.ApplyLive(ed.doc)
	if cfg.Terminal.CellWidth != ed.view.cellW {
		ed.doc.SetFitter(textfit.New(textfit.CellMeasurer{CellWidth: cfg.Terminal.CellWidth}))
	}
	ed.view.cellW = cfg.Terminal.CellWidth
	ed.view.cellH = cfg.Terminal.CellHeight
	ed.cfg = cfg
	ed.showMessage("Config reloaded", MsgInfo)
}

func (ed *Editor) handleMouse(ev *tcell.EventMouse) {
	if ed.mode != ModeCanvas {
		return
	}
	x, y := ev.Position()
	_, h := ed.screen.Size()
	// The bottom two rows belong to the help and status bars.
	if y >= h-2 && !ed.ptr.busy() {
		return
	}
	ed.ptr.handle(x, y, ev.Buttons(), ev.Modifiers())
}

func (ed *Editor) handleKey(ev *tcell.EventKey) bool {
	switch ed.mode {
	case ModeInput:
		ed.handleInputKey(ev)
		return false
	case ModeHelp:
		ed.mode = ModeCanvas
		return false
	}

	// tcell maps Cmd to Ctrl on macOS in most terminals; some report
	// Meta or Alt with the rune instead.
	mod := ev.Modifiers()
	isCtrlOrCmd := func(key tcell.Key, r rune) bool {
		if ev.Key() == key {
			return true
		}
		return mod&(tcell.ModMeta|tcell.ModAlt) != 0 && ev.Rune() == r
	}

	if isCtrlOrCmd(tcell.KeyCtrlC, 'c') || (ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
		return ed.requestQuit()
	}
	ed.quitPending = false

	switch {
	case isCtrlOrCmd(tcell.KeyCtrlS, 's'):
		ed.save()
		return false
	case isCtrlOrCmd(tcell.KeyCtrlZ, 'z'):
		ed.undo()
		return false
	case isCtrlOrCmd(tcell.KeyCtrlY, 'y'):
		ed.redo()
		return false
	case isCtrlOrCmd(tcell.KeyCtrlO, 'o'):
		ed.promptOpen()
		return false
	}

	switch ev.Key() {
	case tcell.KeyEscape:
		ed.doc.Selection().DeselectAll()
	case tcell.KeyDelete, tcell.KeyBackspace, tcell.KeyBackspace2:
		ed.deleteSelection()
	case tcell.KeyUp:
		ed.view.pan(0, -1)
	case tcell.KeyDown:
		ed.view.pan(0, 1)
	case tcell.KeyLeft:
		ed.view.pan(-2, 0)
	case tcell.KeyRight:
		ed.view.pan(2, 0)
	case tcell.KeyRune:
		ed.handleRune(ev.Rune())
	}
	return false
}

func (ed *Editor) handleRune(r rune) {
	switch r {
	case 'v':
		ed.setTool(diagram.ToolSelect)
	case 's':
		ed.setTool(diagram.ToolStates)
	case 't':
		ed.setTool(diagram.ToolTransitions)
	case 'g':
		ed.doc.SetSnap(!ed.doc.Snap())
		if ed.doc.Snap() {
			ed.showMessage("Snap on", MsgInfo)
		} else {
			ed.showMessage("Snap off", MsgInfo)
		}
	case 'G':
		ed.doc.SnapAll()
		ed.showMessage("Snapped all states to grid", MsgSuccess)
	case 'a':
		ed.toggleAccept()
	case 'i':
		ed.setStart()
	case 'r':
		ed.promptRename()
	case 'l':
		ed.promptSymbol(true)
	case 'x':
		ed.promptSymbol(false)
	case 'u':
		ed.undo()
	case 'U':
		ed.redo()
	case 'e':
		ed.runAnalysis()
	case 'E':
		ed.doc.ClearErrors()
		ed.showMessage("Error marks cleared", MsgInfo)
	case 'p':
		ed.promptExport()
	case '0':
		ed.view.offX, ed.view.offY = 0, 0
	case '?':
		ed.mode = ModeHelp
	}
}

// requestQuit returns true when the editor may exit. Unsaved changes need
// a second request.
func (ed *Editor) requestQuit() bool {
	if !ed.modified() || ed.quitPending {
		return true
	}
	ed.quitPending = true
	ed.showMessage("Unsaved changes, press q again to quit", MsgWarning)
	return false
}

func (ed *Editor) setTool(t diagram.Tool) {
	ed.doc.SetTool(t)
	ed.showMessage("Tool: "+t.String(), MsgInfo)
}

func (ed *Editor) deleteSelection() {
	n := ed.doc.Selection().Len()
	if n == 0 {
		return
	}
	ed.doc.DeleteSelection()
	ed.showMessage(fmt.Sprintf("Deleted %d object(s)", n), MsgSuccess)
}

func (ed *Editor) toggleAccept() {
	nodes := ed.doc.Selection().Nodes()
	if len(nodes) == 0 {
		ed.showMessage("Select a state first", MsgWarning)
		return
	}
	for _, n := range nodes {
		ed.doc.ToggleAccept(n)
	}
	ed.showMessage("Accepting toggled", MsgSuccess)
}

func (ed *Editor) setStart() {
	nodes := ed.doc.Selection().Nodes()
	if len(nodes) != 1 {
		ed.showMessage("Select exactly one state", MsgWarning)
		return
	}
	ed.doc.SetStartNode(nodes[0])
	ed.showMessage("Start state: "+nodes[0].Label(), MsgSuccess)
}

func (ed *Editor) undo() {
	if err := ed.doc.Undo(); err != nil {
		ed.showMessage("Nothing to undo", MsgInfo)
		return
	}
	ed.ptr.reset()
	ed.showMessage("Undo", MsgSuccess)
}

func (ed *Editor) redo() {
	if err := ed.doc.Redo(); err != nil {
		ed.showMessage("Nothing to redo", MsgInfo)
		return
	}
	ed.ptr.reset()
	ed.showMessage("Redo", MsgSuccess)
}

func (ed *Editor) runAnalysis() {
	warnings := ed.doc.Analyse()
	if len(warnings) == 0 {
		ed.showMessage("✓ No issues found", MsgInfo)
		return
	}

	var issues []string
	for _, w := range warnings {
		switch w.Type {
		case fsm.WarnUnreachable:
			issues = append(issues, fmt.Sprintf("%d unreachable", len(w.States)))
		case fsm.WarnDead:
			issues = append(issues, fmt.Sprintf("%d dead", len(w.States)))
		case fsm.WarnNondeterministic:
			issues = append(issues, fmt.Sprintf("%d nondet", len(w.States)))
		case fsm.WarnIncomplete:
			issues = append(issues, fmt.Sprintf("%d incomplete", len(w.States)))
		case fsm.WarnUnusedInput:
			issues = append(issues, fmt.Sprintf("%d unused inputs", len(w.Inputs)))
		case fsm.WarnNoAccepting:
			issues = append(issues, "no accepting")
		}
	}
	ed.showMessage("⚠ "+strings.Join(issues, ", "), MsgWarning)
}

// Input prompts

func (ed *Editor) prompt(label, initial string, action func(string)) {
	ed.mode = ModeInput
	ed.inputPrompt = label
	ed.inputBuffer = initial
	ed.inputAction = action
}

func (ed *Editor) handleInputKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		ed.mode = ModeCanvas
	case tcell.KeyEnter:
		ed.mode = ModeCanvas
		if ed.inputAction != nil {
			ed.inputAction(ed.inputBuffer)
		}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if r := []rune(ed.inputBuffer); len(r) > 0 {
			ed.inputBuffer = string(r[:len(r)-1])
		}
	case tcell.KeyRune:
		ed.inputBuffer += string(ev.Rune())
	}
}

func (ed *Editor) promptRename() {
	nodes := ed.doc.Selection().Nodes()
	if len(nodes) != 1 {
		ed.showMessage("Select exactly one state", MsgWarning)
		return
	}
	n := nodes[0]
	ed.prompt("Label: ", n.Label(), func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			ed.showMessage("Label cannot be empty", MsgError)
			return
		}
		ed.doc.RenameNode(n, s)
	})
}

func (ed *Editor) promptSymbol(add bool) {
	ts := ed.doc.Selection().Transitions()
	if len(ts) == 0 {
		ed.showMessage("Select a transition first", MsgWarning)
		return
	}
	label := "Add symbol: "
	if !add {
		label = "Remove symbol: "
	}
	ed.prompt(label, "", func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		for _, t := range ts {
			if add {
				ed.doc.AddSymbol(t, s)
			} else {
				ed.doc.RemoveSymbol(t, s)
			}
		}
	})
}

func (ed *Editor) promptOpen() {
	ed.prompt("Open: ", ed.startDir(), func(s string) {
		if err := ed.loadFile(strings.TrimSpace(s)); err != nil {
			ed.showMessage("Open failed: "+err.Error(), MsgError)
		}
	})
}

func (ed *Editor) promptExport() {
	ed.prompt("Export (.svg/.dot): ", ed.startDir(), func(s string) {
		if err := ed.export(strings.TrimSpace(s)); err != nil {
			ed.showMessage("Export failed: "+err.Error(), MsgError)
			return
		}
		ed.showMessage("Exported "+filepath.Base(s), MsgSuccess)
	})
}

func (ed *Editor) startDir() string {
	if ed.filename != "" {
		return filepath.Dir(ed.filename) + string(filepath.Separator)
	}
	if ed.cfg.LastDir != "" {
		return ed.cfg.LastDir + string(filepath.Separator)
	}
	return ""
}

// File operations

func (ed *Editor) loadFile(path string) error {
	d, err := fsmfile.ReadFile(path)
	if err != nil {
		return err
	}
	if err := ed.doc.LoadDocument(d); err != nil {
		return err
	}
	ed.ptr.reset()
	ed.filename = path
	ed.saved = ed.doc.Document()
	ed.rememberDir(path)
	ed.showMessage("Opened "+filepath.Base(path), MsgSuccess)
	return nil
}

func (ed *Editor) save() {
	if ed.filename == "" {
		ed.prompt("Save as: ", ed.startDir(), func(s string) {
			ed.saveAs(strings.TrimSpace(s))
		})
		return
	}
	ed.saveAs(ed.filename)
}

func (ed *Editor) saveAs(path string) {
	if path == "" {
		return
	}
	d := ed.doc.Document()
	if err := fsmfile.WriteFile(path, d); err != nil {
		ed.log.Error("save failed", "path", path, "error", err)
		ed.showMessage("Save failed: "+err.Error(), MsgError)
		return
	}
	ed.filename = path
	ed.saved = d
	ed.rememberDir(path)
	ed.showMessage("Saved "+filepath.Base(path), MsgSuccess)
}

func (ed *Editor) export(path string) (err error) {
	d := ed.doc.Document()
	var write func(io.Writer) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		opts := fsmfile.DefaultSVGOptions()
		opts.MarkErrors = true
		write = func(w io.Writer) error { return fsmfile.RenderSVG(w, d, opts) }
	case ".dot", ".gv":
		write = func(w io.Writer) error {
			_, err := io.WriteString(w, fsmfile.GenerateDOT(d))
			return err
		}
	default:
		return errors.New("unknown export extension " + filepath.Ext(path))
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return write(f)
}

// rememberDir records the directory of path as last_dir.
func (ed *Editor) rememberDir(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	dir := filepath.Dir(abs)
	if dir == ed.cfg.LastDir || ed.cfgPath == "" {
		return
	}
	ed.cfg.LastDir = dir
	if err := config.Save(ed.cfgPath, ed.cfg); err != nil {
		ed.log.Warn("save config", "error", err)
	}
}

func (ed *Editor) showMessage(msg string, msgType MessageType) {
	ed.message = msg
	ed.messageType = msgType
	ed.messageFlashStart = nowMilli()
	if ed.screen == nil || !shouldFlashForType(msgType) {
		return
	}
	// One redraw per phase boundary drives the flash.
	for i := 1; i <= 4; i++ {
		time.AfterFunc(time.Duration(i)*flashPhase, func() {
			ed.screen.PostEvent(tcell.NewEventInterrupt(nil))
		})
	}
}

func nowMilli() int64 { return time.Now().UnixMilli() }

// shouldFlashForType reports whether a message type flashes when shown.
func shouldFlashForType(msgType MessageType) bool {
	switch msgType {
	case MsgError, MsgSuccess, MsgWarning:
		return true
	}
	return false
}

// shouldBeInverted reports whether a flashing message is drawn inverted
// elapsed milliseconds after it was shown: normal, inverted, normal,
// inverted, then normal for good.
func shouldBeInverted(elapsed int64) bool {
	phase := flashPhase.Milliseconds()
	if elapsed < 0 || elapsed >= 4*phase {
		return false
	}
	n := elapsed / phase
	return n == 1 || n == 3
}
