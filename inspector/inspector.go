// Package inspector is a read-only terminal viewer over a built Layout: a
// scrollable memory table on the left, a label list sorted by address on
// the right. It is grounded on the teacher's debugger TUI (debugger/tui.go),
// keeping the same tview.Flex panel layout and tcell key-binding style, but
// drops every panel tied to a running machine (registers, stack,
// disassembly, breakpoints) since this module has no execution engine of
// its own to inspect.
package inspector

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/lookbusy1344/z33-asm/layout"
	"github.com/lookbusy1344/z33-asm/parser"
)

// Inspector is the text user interface for browsing a Layout.
type Inspector struct {
	App   *tview.Application
	Pages *tview.Pages

	MainLayout *tview.Flex
	MemoryView *tview.TextView
	LabelView  *tview.TextView
	StatusView *tview.TextView

	prog *parser.Program
	lay  *layout.Layout

	entries   []layout.ReportEntry
	selection int
}

// New builds an Inspector over prog's layout lay.
func New(prog *parser.Program, lay *layout.Layout) *Inspector {
	insp := &Inspector{
		App:  tview.NewApplication(),
		prog: prog,
		lay:  lay,
	}
	insp.entries = lay.Report()

	insp.initializeViews()
	insp.buildLayout()
	insp.setupKeyBindings()
	insp.refresh()

	return insp
}

func (i *Inspector) initializeViews() {
	i.MemoryView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	i.MemoryView.SetBorder(true).SetTitle(" Memory ")

	i.LabelView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	i.LabelView.SetBorder(true).SetTitle(" Labels ")

	i.StatusView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(false)
	i.StatusView.SetBorder(true).SetTitle(" Status ")
}

func (i *Inspector) buildLayout() {
	mainContent := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(i.MemoryView, 0, 2, true).
		AddItem(i.LabelView, 0, 1, false)

	i.MainLayout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(mainContent, 0, 4, true).
		AddItem(i.StatusView, 3, 0, false)

	i.Pages = tview.NewPages().
		AddPage("main", i.MainLayout, true, true)
}

func (i *Inspector) setupKeyBindings() {
	i.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyDown:
			i.move(1)
			return nil
		case tcell.KeyUp:
			i.move(-1)
			return nil
		case tcell.KeyCtrlC, tcell.KeyEscape:
			i.App.Stop()
			return nil
		}
		switch event.Rune() {
		case 'q':
			i.App.Stop()
			return nil
		case 'j':
			i.move(1)
			return nil
		case 'k':
			i.move(-1)
			return nil
		}
		return event
	})
}

func (i *Inspector) move(delta int) {
	if len(i.entries) == 0 {
		return
	}
	i.selection += delta
	if i.selection < 0 {
		i.selection = 0
	}
	if i.selection >= len(i.entries) {
		i.selection = len(i.entries) - 1
	}
	i.refresh()
}

// refresh redraws every panel from the current selection.
func (i *Inspector) refresh() {
	i.updateMemoryView()
	i.updateLabelView()
	i.updateStatusView()
}

func (i *Inspector) updateMemoryView() {
	var lines []string
	for idx, e := range i.entries {
		marker := "  "
		if idx == i.selection {
			marker = "->"
		}
		lines = append(lines, fmt.Sprintf("%s 0x%08x: %s", marker, e.Address, describePlacement(e.Placement, i.prog)))
	}
	if len(lines) == 0 {
		lines = append(lines, "[yellow]no memory placed[white]")
	}
	i.MemoryView.SetText(strings.Join(lines, "\n"))
}

func (i *Inspector) updateLabelView() {
	names := make([]string, 0, len(i.lay.Labels))
	for name := range i.lay.Labels {
		names = append(names, name)
	}
	sort.Slice(names, func(a, b int) bool { return i.lay.Labels[names[a]] < i.lay.Labels[names[b]] })

	var lines []string
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("0x%08x  %s", i.lay.Labels[name], name))
	}
	if len(lines) == 0 {
		lines = append(lines, "[yellow]no labels[white]")
	}
	i.LabelView.SetText(strings.Join(lines, "\n"))
}

func (i *Inspector) updateStatusView() {
	i.StatusView.SetText(fmt.Sprintf("%d cells, %d labels -- arrows/j/k to scroll, q to quit",
		len(i.entries), len(i.lay.Labels)))
}

func describePlacement(p layout.Placement, prog *parser.Program) string {
	switch p.Kind {
	case layout.PlacementReserved:
		return "reserved"
	case layout.PlacementChar:
		return fmt.Sprintf("char %q", p.Char)
	case layout.PlacementLine:
		if p.LineIndex < 0 || p.LineIndex >= len(prog.Lines) {
			return "line"
		}
		line := prog.Lines[p.LineIndex]
		switch line.ContentKind {
		case parser.ContentInstruction:
			return line.Instruction.Mnemonic
		case parser.ContentDirective:
			return line.Directive.Kind.String()
		default:
			return "line"
		}
	default:
		return "?"
	}
}

// Run starts the Inspector application, blocking until the user quits.
func (i *Inspector) Run() error {
	return i.App.SetRoot(i.Pages, true).SetFocus(i.MemoryView).Run()
}

// Stop stops the Inspector application.
func (i *Inspector) Stop() {
	i.App.Stop()
}
