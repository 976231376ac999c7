package integration_test

import (
	"testing"

	"github.com/lookbusy1344/z33-asm/diagnostics"
	"github.com/lookbusy1344/z33-asm/fsys"
	"github.com/lookbusy1344/z33-asm/layout"
	"github.com/lookbusy1344/z33-asm/parser"
	"github.com/lookbusy1344/z33-asm/resolve"
)

// run drives the complete front-end pipeline over an in-memory filesystem,
// the same shape cmd/z33asm uses against a real one.
func run(t *testing.T, files map[string]string, root string, start uint64) (*parser.Program, *layout.Layout, error) {
	t.Helper()
	fs := fsys.MapFilesystem(files)

	prog, _, err := parser.ParseFile(fs, root)
	if err != nil {
		return nil, nil, err
	}

	lay, err := layout.Build(prog, start)
	if err != nil {
		return prog, nil, err
	}

	if _, err := resolve.ResolveLabelArguments(prog, lay); err != nil {
		return prog, lay, err
	}

	return prog, lay, nil
}

func TestProgram_LabelsAndJump(t *testing.T) {
	files := map[string]string{
		"main.s": "main: nop\nloop: jmp main\n",
	}
	_, lay, err := run(t, files, "main.s", layout.ProgramStart)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lay.Labels["main"] != 0 || lay.Labels["loop"] != 1 {
		t.Errorf("unexpected label addresses: %+v", lay.Labels)
	}
}

func TestProgram_IncludeRelativeToIncludingFile(t *testing.T) {
	files := map[string]string{
		"main.s":       "#include \"lib/helper.s\"\nmain: jmp helper\n",
		"lib/helper.s": "helper: nop\n",
	}
	_, lay, err := run(t, files, "main.s", layout.ProgramStart)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := lay.Labels["helper"]; !ok {
		t.Errorf("expected label helper to be defined, got %+v", lay.Labels)
	}
}

func TestProgram_DefineSubstitution(t *testing.T) {
	files := map[string]string{
		"main.s": "#define SIZE 4\nmain: .space SIZE\n",
	}
	_, lay, err := run(t, files, "main.s", layout.ProgramStart)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lay.Memory) != 4 {
		t.Errorf("expected 4 reserved cells, got %d", len(lay.Memory))
	}
}

func TestProgram_ConditionalInclusion(t *testing.T) {
	files := map[string]string{
		"main.s": "#define DEBUG 1\n#if DEBUG\nmain: nop\n#else\nmain: halt\n#endif\n",
	}
	prog, _, err := run(t, files, "main.s", layout.ProgramStart)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var mnemonics []string
	for _, line := range prog.Lines {
		if line.Instruction != nil {
			mnemonics = append(mnemonics, line.Instruction.Mnemonic)
		}
	}
	if len(mnemonics) != 1 || mnemonics[0] != "nop" {
		t.Errorf("expected only the DEBUG branch's nop to survive, got %v", mnemonics)
	}
}

func TestProgram_DuplicateLabelFails(t *testing.T) {
	files := map[string]string{
		"main.s": "a: nop\na: nop\n",
	}
	_, _, err := run(t, files, "main.s", layout.ProgramStart)
	if err == nil {
		t.Fatal("expected a duplicate label error")
	}
	if diagnostics.ExitCode(err) != diagnostics.ExitLayout {
		t.Errorf("expected ExitLayout, got %d", diagnostics.ExitCode(err))
	}
}

func TestProgram_UndefinedLabelFails(t *testing.T) {
	files := map[string]string{
		"main.s": "jmp nowhere\n",
	}
	_, _, err := run(t, files, "main.s", layout.ProgramStart)
	if err == nil {
		t.Fatal("expected an undefined-label resolution error")
	}
	if diagnostics.ExitCode(err) != diagnostics.ExitResolve {
		t.Errorf("expected ExitResolve, got %d", diagnostics.ExitCode(err))
	}
}

func TestProgram_StringDirectiveArgumentShapeRejected(t *testing.T) {
	files := map[string]string{
		"main.s": ".string 3\n",
	}
	_, _, err := run(t, files, "main.s", layout.ProgramStart)
	if err == nil {
		t.Fatal("expected a directive argument shape error")
	}
	if diagnostics.ExitCode(err) != diagnostics.ExitParse {
		t.Errorf("expected ExitParse, got %d", diagnostics.ExitCode(err))
	}
}

func TestProgram_IncludeCycleFails(t *testing.T) {
	files := map[string]string{
		"a.s": "#include \"b.s\"\n",
		"b.s": "#include \"a.s\"\n",
	}
	_, _, err := run(t, files, "a.s", layout.ProgramStart)
	if err == nil {
		t.Fatal("expected an include cycle error")
	}
	if diagnostics.ExitCode(err) != diagnostics.ExitPreprocessor {
		t.Errorf("expected ExitPreprocessor, got %d", diagnostics.ExitCode(err))
	}
}
