package layout_test

import (
	"testing"

	"github.com/lookbusy1344/z33-asm/layout"
	"github.com/lookbusy1344/z33-asm/parser"
)

func build(t *testing.T, text string) (*layout.Layout, error) {
	t.Helper()
	prog, err := parser.ParseProgram(text)
	if err != nil {
		t.Fatalf("ParseProgram(%q) failed: %v", text, err)
	}
	return layout.Build(prog, layout.ProgramStart)
}

func mustBuild(t *testing.T, text string) *layout.Layout {
	t.Helper()
	l, err := build(t, text)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return l
}

func TestPlaceLabelsSimple(t *testing.T) {
	l := mustBuild(t, "main: add %a, %b\nloop: jmp main\n")
	want := map[string]uint64{"main": 0, "loop": 1}
	for k, v := range want {
		if l.Labels[k] != v {
			t.Errorf("label %s = %d, want %d", k, l.Labels[k], v)
		}
	}
}

func TestPlaceLabelsAddr(t *testing.T) {
	l := mustBuild(t, ".addr 10\nmain: jmp main\n")
	if l.Labels["main"] != 10 {
		t.Errorf("main = %d, want 10", l.Labels["main"])
	}
}

func TestPlaceLabelsSpace(t *testing.T) {
	l := mustBuild(t, "first: .space 10\nsecond: .space 5\nmain: jmp main\n")
	if l.Labels["first"] != 0 || l.Labels["second"] != 10 || l.Labels["main"] != 15 {
		t.Errorf("got %+v", l.Labels)
	}
}

func TestPlaceLabelsWord(t *testing.T) {
	l := mustBuild(t, "first: .word 123\nsecond: .word 456\nmain: jmp main\n")
	if l.Labels["first"] != 0 || l.Labels["second"] != 1 || l.Labels["main"] != 2 {
		t.Errorf("got %+v", l.Labels)
	}
}

func TestPlaceLabelsString(t *testing.T) {
	l := mustBuild(t, "first: .string \"hello\"\nsecond: .string \"world!\"\nmain: jmp main\n")
	if l.Labels["first"] != 0 || l.Labels["second"] != 5 || l.Labels["main"] != 11 {
		t.Errorf("got %+v", l.Labels)
	}
}

// TestPlaceLabelsStringUnicodeScalars checks the .string width law against a
// string containing both a combined accented letter and an emoji: the cell
// count must equal the number of Unicode scalar values, not UTF-16 units and
// not bytes.
func TestPlaceLabelsStringUnicodeScalars(t *testing.T) {
	l := mustBuild(t, "first: .string \"hello\"\nsecond: .string \"Émoticône: 🚙\"\nmain: jmp main\n")
	if l.Labels["first"] != 0 {
		t.Errorf("first = %d, want 0", l.Labels["first"])
	}
	if l.Labels["second"] != 5 {
		t.Errorf("second = %d, want 5", l.Labels["second"])
	}
	if l.Labels["main"] != 17 {
		t.Errorf("main = %d, want 17 (5 + 12 scalars)", l.Labels["main"])
	}
}

func TestDuplicateLabel(t *testing.T) {
	_, err := build(t, "hello: nop\nhello: nop\n")
	if _, ok := err.(*layout.DuplicateLabelError); !ok {
		t.Errorf("expected DuplicateLabelError, got %T: %v", err, err)
	}
}

func TestNegativeSpaceIsInvalid(t *testing.T) {
	_, err := build(t, ".space 0-5\n")
	if _, ok := err.(*layout.InvalidDirectiveArgumentError); !ok {
		t.Errorf("expected InvalidDirectiveArgumentError, got %T: %v", err, err)
	}
}

func TestNegativeAddrIsInvalid(t *testing.T) {
	_, err := build(t, ".addr 0-1\n")
	if _, ok := err.(*layout.InvalidDirectiveArgumentError); !ok {
		t.Errorf("expected InvalidDirectiveArgumentError, got %T: %v", err, err)
	}
}

func TestSpaceArgumentCannotReferenceALabel(t *testing.T) {
	_, err := build(t, "n: .word 1\n.space n\n")
	if _, ok := err.(*layout.DirectiveArgumentEvaluationError); !ok {
		t.Errorf("expected DirectiveArgumentEvaluationError, got %T: %v", err, err)
	}
}

func TestMemoryOverlap(t *testing.T) {
	_, err := build(t, ".addr 10\n.string \"hello\"\n.addr 14\n.word 0\n")
	overlap, ok := err.(*layout.MemoryOverlapError)
	if !ok {
		t.Fatalf("expected MemoryOverlapError, got %T: %v", err, err)
	}
	if overlap.Address != 14 {
		t.Errorf("overlap at %d, want 14", overlap.Address)
	}
}

func TestReportSortedByAddress(t *testing.T) {
	l := mustBuild(t, ".addr 5\n.word 1\n.addr 2\n.word 2\n")
	report := l.Report()
	if len(report) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(report))
	}
	if report[0].Address != 2 || report[1].Address != 5 {
		t.Errorf("expected addresses in order [2, 5], got [%d, %d]", report[0].Address, report[1].Address)
	}
}
