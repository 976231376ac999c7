package diagnostics

import (
	"errors"

	"github.com/lookbusy1344/z33-asm/expr"
	"github.com/lookbusy1344/z33-asm/fsys"
	"github.com/lookbusy1344/z33-asm/layout"
	"github.com/lookbusy1344/z33-asm/parser"
	"github.com/lookbusy1344/z33-asm/preprocess"
	"github.com/lookbusy1344/z33-asm/resolve"
)

// Exit codes, one per failure category, so a caller can distinguish a
// filesystem problem from a syntax error from an unresolved label without
// parsing the message text.
const (
	ExitOK = 0

	// ExitFilesystem covers an #include that names a path the Filesystem
	// can't open: missing file, permission error, or other I/O failure.
	ExitFilesystem = 10

	// ExitPreprocessor covers a user error in directive use: #error,
	// circular #include, a malformed directive, an unterminated #if, a
	// dangling #elif/#else/#endif, or an undefined name in a condition.
	ExitPreprocessor = 11

	// ExitParse covers a line/program grammar failure: bad syntax, an
	// unknown mnemonic or directive, an arity mismatch, an unterminated
	// string, or a directive argument that doesn't match its kind's shape.
	ExitParse = 12

	// ExitExpression covers a bare expression-evaluation failure that
	// reached the CLI without being wrapped by layout or resolve.
	ExitExpression = 13

	// ExitLayout covers a memory layout failure: a duplicate label, an
	// invalid or unevaluable directive argument, or a memory overlap.
	ExitLayout = 14

	// ExitResolve covers a failure resolving a labelable instruction
	// argument against the label table (most commonly an undefined label).
	ExitResolve = 15

	// ExitUnknown is used for any error outside the taxonomy above.
	ExitUnknown = 1
)

// ExitCode maps a pipeline error to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var ioErr *fsys.IoError
	if errors.As(err, &ioErr) || errors.Is(err, fsys.ErrNotFound) {
		return ExitFilesystem
	}

	switch err.(type) {
	case *preprocess.DirectiveError, *preprocess.IncludeCycleError,
		*preprocess.UndefinedConditionalNameError, *preprocess.MalformedDirectiveError,
		*preprocess.UnterminatedIfError, *preprocess.DanglingDirectiveError:
		return ExitPreprocessor

	case *parser.SyntaxError, *parser.UnknownMnemonicError, *parser.ArityError,
		*parser.UnterminatedStringError, *parser.DirectiveArgumentShapeError,
		*parser.UnknownDirectiveError, *expr.ParseError:
		return ExitParse

	case *expr.EvaluationError:
		return ExitExpression

	case *layout.DuplicateLabelError, *layout.InvalidDirectiveArgumentError,
		*layout.DirectiveArgumentEvaluationError, *layout.MemoryOverlapError:
		return ExitLayout

	case *resolve.LabelResolutionError:
		return ExitResolve

	default:
		return ExitUnknown
	}
}
