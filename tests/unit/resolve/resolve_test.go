package resolve_test

import (
	"testing"

	"github.com/lookbusy1344/z33-asm/layout"
	"github.com/lookbusy1344/z33-asm/parser"
	"github.com/lookbusy1344/z33-asm/resolve"
)

func buildLayout(t *testing.T, text string) (*parser.Program, *layout.Layout) {
	t.Helper()
	prog, err := parser.ParseProgram(text)
	if err != nil {
		t.Fatalf("ParseProgram failed: %v", err)
	}
	l, err := layout.Build(prog, layout.ProgramStart)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return prog, l
}

func TestResolveJumpTargetAddress(t *testing.T) {
	prog, l := buildLayout(t, "main: nop\nloop: jmp main\n")

	resolutions, err := resolve.ResolveLabelArguments(prog, l)
	if err != nil {
		t.Fatalf("ResolveLabelArguments failed: %v", err)
	}
	if len(resolutions) != 1 {
		t.Fatalf("expected 1 resolution, got %d", len(resolutions))
	}
	if resolutions[0].Value.Uint64() != l.Labels["main"] {
		t.Errorf("resolved %d, want %d", resolutions[0].Value.Uint64(), l.Labels["main"])
	}
}

func TestResolveSkipsNonLabelableArguments(t *testing.T) {
	prog, l := buildLayout(t, "add %a, %b\n")

	resolutions, err := resolve.ResolveLabelArguments(prog, l)
	if err != nil {
		t.Fatalf("ResolveLabelArguments failed: %v", err)
	}
	if len(resolutions) != 0 {
		t.Errorf("expected no resolutions for a non-labelable instruction, got %d", len(resolutions))
	}
}

func TestResolveUndefinedLabelFails(t *testing.T) {
	prog, l := buildLayout(t, "jmp nowhere\n")

	_, err := resolve.ResolveLabelArguments(prog, l)
	if _, ok := err.(*resolve.LabelResolutionError); !ok {
		t.Errorf("expected LabelResolutionError, got %T: %v", err, err)
	}
}

func TestResolveArithmeticOverLabel(t *testing.T) {
	prog, l := buildLayout(t, "main: nop\njmp main+1\n")

	resolutions, err := resolve.ResolveLabelArguments(prog, l)
	if err != nil {
		t.Fatalf("ResolveLabelArguments failed: %v", err)
	}
	if len(resolutions) != 1 || resolutions[0].Value.Uint64() != l.Labels["main"]+1 {
		t.Errorf("got %+v", resolutions)
	}
}
