// Package preprocess implements the textual preprocessing stage: #define /
// #undefine object-like macros, #include, and #if/#elif/#else/#endif
// conditional inclusion, flattening a tree of files down to a single string
// plus a provenance mapping back to (file, offset) for every byte of it.
package preprocess

import (
	"math/big"
	"path"
	"strings"

	"github.com/lookbusy1344/z33-asm/expr"
	"github.com/lookbusy1344/z33-asm/fsys"
	"github.com/lookbusy1344/z33-asm/source"
)

// Preprocessor walks a parsed file tree, resolving #include through fs and
// evaluating conditions against a live #define environment, grounded on the
// teacher's Preprocessor (parser/preprocessor.go), which tracked the same
// includeStack/defines pair directly against os.ReadFile.
type Preprocessor struct {
	fs fsys.Filesystem

	includeStack []string
	defines      map[string]string

	output strings.Builder
	prov   Provenance
}

// New builds a Preprocessor that resolves #include paths through fs.
func New(fs fsys.Filesystem) *Preprocessor {
	return &Preprocessor{
		fs:      fs,
		defines: map[string]string{},
		prov:    Provenance{Sources: map[string]string{}},
	}
}

// Run preprocesses the file at root and everything it transitively
// #includes, returning the flattened output and a Provenance that maps any
// offset in that output back to its origin.
func (pp *Preprocessor) Run(root string) (string, *Provenance, error) {
	content, err := pp.fs.Open(root)
	if err != nil {
		return "", nil, err
	}
	pp.prov.Sources[root] = content
	pp.includeStack = append(pp.includeStack, root)

	nodes, err := Parse(root, content)
	if err != nil {
		return "", nil, err
	}
	if err := pp.walk(nodes, root); err != nil {
		return "", nil, err
	}

	return pp.output.String(), &pp.prov, nil
}

func (pp *Preprocessor) walk(nodes []Node, file string) error {
	for i := range nodes {
		n := &nodes[i]
		switch n.Kind {
		case NodeRaw:
			pp.emitSubstituted(file, n.Loc.Offset, n.RawText)

		case NodeError:
			return &DirectiveError{
				Message: n.Message,
				Loc:     source.AbsoluteLocation{File: file, Offset: n.MessageLoc.Offset, Length: n.MessageLoc.Length},
			}

		case NodeDefine:
			if n.DefineBody != nil {
				pp.defines[n.Key] = *n.DefineBody
			} else {
				pp.defines[n.Key] = ""
			}

		case NodeUndefine:
			delete(pp.defines, n.Key)

		case NodeInclude:
			if err := pp.include(n, file); err != nil {
				return err
			}

		case NodeIf:
			if err := pp.walkIf(n, file); err != nil {
				return err
			}
		}
	}
	return nil
}

// resolveIncludePath resolves an #include argument relative to the
// including file's directory: a path with no directory component is
// file-local, matching "path without directory components" in the
// inclusion rule. Paths are joined with "/" regardless of host OS, since
// both OSFilesystem and MapFilesystem address files by virtual path.
func resolveIncludePath(fromFile, includePath string) string {
	if path.IsAbs(includePath) {
		return path.Clean(includePath)
	}
	return path.Join(path.Dir(fromFile), includePath)
}

func (pp *Preprocessor) include(n *Node, file string) error {
	loc := source.AbsoluteLocation{File: file, Offset: n.PathLoc.Offset, Length: n.PathLoc.Length}
	resolved := resolveIncludePath(file, n.Path)

	for _, seen := range pp.includeStack {
		if seen == resolved {
			return &IncludeCycleError{Path: resolved, Stack: append([]string(nil), pp.includeStack...), Loc: loc}
		}
	}

	content, err := pp.fs.Open(resolved)
	if err != nil {
		return err
	}
	pp.prov.Sources[resolved] = content

	childNodes, err := Parse(resolved, content)
	if err != nil {
		return err
	}

	pp.includeStack = append(pp.includeStack, resolved)
	err = pp.walk(childNodes, resolved)
	pp.includeStack = pp.includeStack[:len(pp.includeStack)-1]
	return err
}

func (pp *Preprocessor) walkIf(n *Node, file string) error {
	ctx := definesContext(pp.defines)

	for _, b := range n.Branches {
		node, rest, err := expr.Parse(b.Condition)
		if err != nil || strings.TrimSpace(rest) != "" {
			detail := "malformed conditional expression"
			if err != nil {
				detail += ": " + err.Error()
			} else {
				detail += ": unexpected trailing text " + rest
			}
			return &MalformedDirectiveError{
				Detail: detail,
				Loc:    source.AbsoluteLocation{File: file, Offset: b.ConditionLoc.Offset, Length: b.ConditionLoc.Length},
			}
		}
		v, err := expr.Eval(node, ctx, expr.WidthFull)
		if err != nil {
			if evalErr, ok := err.(*expr.EvaluationError); ok && evalErr.Kind == expr.ErrUndefinedVariable {
				return &UndefinedConditionalNameError{
					Name: evalErr.Variable,
					Loc:  source.AbsoluteLocation{File: file, Offset: b.ConditionLoc.Offset, Length: b.ConditionLoc.Length},
				}
			}
			return err
		}
		if v.Sign() != 0 {
			return pp.walk(b.Body, file)
		}
	}

	if n.HasElse {
		return pp.walk(n.Fallback, file)
	}
	return nil
}

// emitSubstituted appends raw text to the output, replacing whole-word
// occurrences of currently #define'd names with their bodies. Expansion is a
// single non-recursive pass: a replacement's own text is never re-scanned
// for further macro references
func (pp *Preprocessor) emitSubstituted(file string, fileOffset int, text string) {
	i := 0
	for i < len(text) {
		if isIdentStart(text[i]) {
			start := i
			for i < len(text) && isIdentChar(text[i]) {
				i++
			}
			word := text[start:i]
			if body, ok := pp.defines[word]; ok {
				pp.emit(file, fileOffset+start, body)
				continue
			}
			pp.emit(file, fileOffset+start, word)
			continue
		}
		start := i
		for i < len(text) && !isIdentStart(text[i]) {
			i++
		}
		pp.emit(file, fileOffset+start, text[start:i])
	}
}

func (pp *Preprocessor) emit(file string, fileOffset int, text string) {
	if text == "" {
		return
	}
	pp.prov.Entries = append(pp.prov.Entries, ProvenanceEntry{
		OutputOffset: pp.output.Len(),
		File:         file,
		FileOffset:   fileOffset,
	})
	pp.output.WriteString(text)
}

// definesContext adapts the live #define map to expr.Context so #if/#elif
// conditions can reference defined names directly. A name defined with no
// body (bare "#define NAME") resolves to 1, matching #ifdef-style truthiness;
// a name with a body is evaluated as a constant expression in the same
// environment.
type definesContext map[string]string

func (d definesContext) ResolveVariable(name string) (*big.Int, bool) {
	body, ok := d[name]
	if !ok {
		return nil, false
	}
	if strings.TrimSpace(body) == "" {
		return big.NewInt(1), true
	}
	node, _, err := expr.Parse(body)
	if err != nil {
		return big.NewInt(1), true
	}
	v, err := expr.Eval(node, d, expr.WidthFull)
	if err != nil {
		return big.NewInt(1), true
	}
	return v, true
}
