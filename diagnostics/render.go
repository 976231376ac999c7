// Package diagnostics turns a pipeline error into a one-line message plus a
// caret-annotated source snippet, and maps error categories to process exit
// codes, in the manner of the teacher's parser.Error/ErrorList rendering.
package diagnostics

import (
	"fmt"
	"strings"

	"github.com/lookbusy1344/z33-asm/layout"
	"github.com/lookbusy1344/z33-asm/parser"
	"github.com/lookbusy1344/z33-asm/preprocess"
	"github.com/lookbusy1344/z33-asm/resolve"
)

// locate finds the (file, file-offset) a pipeline error points at, if any.
// Preprocessor errors already carry an AbsoluteLocation; every later stage
// (parser, layout, resolve) carries a RelativeLocation measured from the
// start of the flattened preprocessor output, so it's run back through
// Provenance.Locate.
func locate(err error, prov *preprocess.Provenance) (file string, fileOffset int, ok bool) {
	switch e := err.(type) {
	case *preprocess.DirectiveError:
		return e.Loc.File, e.Loc.Offset, true
	case *preprocess.IncludeCycleError:
		return e.Loc.File, e.Loc.Offset, true
	case *preprocess.UndefinedConditionalNameError:
		return e.Loc.File, e.Loc.Offset, true
	case *preprocess.MalformedDirectiveError:
		return e.Loc.File, e.Loc.Offset, true
	case *preprocess.UnterminatedIfError:
		return e.Loc.File, e.Loc.Offset, true
	case *preprocess.DanglingDirectiveError:
		return e.Loc.File, e.Loc.Offset, true

	case *parser.SyntaxError:
		return prov.Locate(e.Loc.Offset)
	case *parser.UnknownMnemonicError:
		return prov.Locate(e.Loc.Offset)
	case *parser.ArityError:
		return prov.Locate(e.Loc.Offset)
	case *parser.UnterminatedStringError:
		return prov.Locate(e.Loc.Offset)
	case *parser.DirectiveArgumentShapeError:
		return prov.Locate(e.Loc.Offset)
	case *parser.UnknownDirectiveError:
		return prov.Locate(e.Loc.Offset)

	case *layout.DuplicateLabelError:
		return prov.Locate(e.Loc.Offset)
	case *layout.InvalidDirectiveArgumentError:
		return prov.Locate(e.Loc.Offset)
	case *layout.DirectiveArgumentEvaluationError:
		return prov.Locate(e.Loc.Offset)
	case *layout.MemoryOverlapError:
		return prov.Locate(e.Loc.Offset)

	case *resolve.LabelResolutionError:
		return prov.Locate(e.Loc.Offset)

	default:
		return "", 0, false
	}
}

// extractLine returns the full line of content containing fileOffset.
func extractLine(content string, fileOffset int) string {
	if fileOffset > len(content) {
		fileOffset = len(content)
	}
	start := strings.LastIndexByte(content[:fileOffset], '\n') + 1
	end := strings.IndexByte(content[fileOffset:], '\n')
	if end == -1 {
		return content[start:]
	}
	return content[start : fileOffset+end]
}

// Render produces a one-line "file:line:col: message" diagnostic followed
// by the offending source line and a caret pointing at the exact column.
// If err carries no locatable position (or prov has no record of the
// relevant file), Render falls back to err.Error() alone.
func Render(err error, prov *preprocess.Provenance) string {
	file, fileOffset, ok := locate(err, prov)
	if !ok {
		return err.Error()
	}

	pos, ok := prov.PositionInFile(file, fileOffset)
	if !ok {
		return err.Error()
	}

	content, ok := prov.Sources[file]
	if !ok {
		return fmt.Sprintf("%s: %s", pos, err.Error())
	}

	line := extractLine(content, fileOffset)
	caret := strings.Repeat(" ", max(pos.Column-1, 0)) + "^"
	return fmt.Sprintf("%s: %s\n    %s\n    %s", pos, err.Error(), line, caret)
}
