package preprocess

import (
	"strings"

	"github.com/lookbusy1344/z33-asm/source"
)

// parser walks a single file's content one byte at a time, in the same
// cursor style as expr's scanner, recognizing directive lines (first
// non-space character on the line is '#') and accumulating everything else
// as Raw text.
type parser struct {
	file  string
	input string
	pos   int
}

func (p *parser) eof() bool { return p.pos >= len(p.input) }

func (p *parser) loc(start int) source.AbsoluteLocation {
	return source.AbsoluteLocation{File: p.file, Offset: start, Length: p.pos - start}
}

func (p *parser) skipSpace() {
	for !p.eof() && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}

// atLineStart reports whether pos begins a new line: either it's byte 0, or
// the previous byte is '\n'.
func (p *parser) atLineStart(pos int) bool {
	return pos == 0 || p.input[pos-1] == '\n'
}

// eatEndOfLine skips trailing spaces and an optional "// ..." comment, then
// requires a newline or EOF, mirroring the original grammar's
// eat_end_of_line.
func (p *parser) eatEndOfLine() error {
	p.skipSpace()
	if strings.HasPrefix(p.input[p.pos:], "//") {
		for !p.eof() && p.input[p.pos] != '\n' {
			p.pos++
		}
	}
	if p.eof() {
		return nil
	}
	if p.input[p.pos] != '\n' {
		return &MalformedDirectiveError{Detail: "expected end of line", Loc: p.loc(p.pos)}
	}
	p.pos++
	return nil
}

// parseDirectiveArgument consumes one or more whitespace-separated words up
// to (but not including) a trailing "//" comment or newline, matching the
// original grammar's parse_directive_argument: internal single spaces are
// part of the argument, but a comment or line end terminates it.
func (p *parser) parseDirectiveArgument() string {
	start := p.pos
	for {
		mark := p.pos
		p.skipSpace()
		if p.eof() {
			p.pos = mark
			break
		}
		if strings.HasPrefix(p.input[p.pos:], "//") {
			p.pos = mark
			break
		}
		if p.input[p.pos] == '\n' {
			p.pos = mark
			break
		}
		wordStart := p.pos
		for !p.eof() && p.input[p.pos] != ' ' && p.input[p.pos] != '\t' &&
			p.input[p.pos] != '\n' && p.input[p.pos] != '\r' && !strings.HasPrefix(p.input[p.pos:], "//") {
			p.pos++
		}
		if p.pos == wordStart {
			p.pos = mark
			break
		}
	}
	return strings.TrimSpace(p.input[start:p.pos])
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentChar(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}

func (p *parser) parseIdentifier() (string, bool) {
	if p.eof() || !isIdentStart(p.input[p.pos]) {
		return "", false
	}
	start := p.pos
	for !p.eof() && isIdentChar(p.input[p.pos]) {
		p.pos++
	}
	return p.input[start:p.pos], true
}

// stripPathDelimiters removes a leading/trailing quote pair or angle-bracket
// pair from an #include argument, if present.
func stripPathDelimiters(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '<' && s[len(s)-1] == '>') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// Parse builds the preprocessor node tree for one file's content. file is
// used only to attribute locations in parse errors and in the resulting
// tree; Parse does not touch the filesystem itself (see Preprocessor.Run for
// #include resolution).
func Parse(file, input string) ([]Node, error) {
	p := &parser{file: file, input: input}
	nodes, term, _, termLoc, err := p.parseNodeList()
	if err != nil {
		return nil, err
	}
	if term != "" {
		return nil, &DanglingDirectiveError{Keyword: term, Loc: termLoc}
	}
	return nodes, nil
}

// parseNodeList parses nodes until EOF or a #elif/#else/#endif directive
// line is reached. It returns that terminator ("" at EOF), plus the
// terminator's location, and its condition text when the terminator is
// "elif".
func (p *parser) parseNodeList() (nodes []Node, terminator, condition string, condLoc source.AbsoluteLocation, err error) {
	rawStart := p.pos

	flushRaw := func(end int) {
		if end > rawStart {
			nodes = append(nodes, Node{
				Kind:    NodeRaw,
				RawText: p.input[rawStart:end],
				Loc:     source.RelativeLocation{Offset: rawStart, Length: end - rawStart},
			})
		}
	}

	for {
		if p.eof() {
			flushRaw(p.pos)
			return nodes, "", "", source.AbsoluteLocation{}, nil
		}

		if !p.atLineStart(p.pos) {
			p.pos++
			continue
		}

		lineStart := p.pos
		p.skipSpace()
		if p.eof() || p.input[p.pos] != '#' {
			p.pos = lineStart
			p.pos++
			continue
		}

		flushRaw(lineStart)

		hashPos := p.pos
		p.pos++ // consume '#'
		p.skipSpace()
		keyword, ok := p.parseIdentifier()
		if !ok {
			return nil, "", "", source.AbsoluteLocation{}, &MalformedDirectiveError{
				Detail: "expected a directive keyword after '#'",
				Loc:    p.loc(hashPos),
			}
		}

		switch keyword {
		case "elif", "else", "endif":
			termLoc := p.loc(hashPos)
			if keyword == "elif" {
				cond := p.parseDirectiveArgument()
				if err := p.eatEndOfLine(); err != nil {
					return nil, "", "", source.AbsoluteLocation{}, err
				}
				return nodes, "elif", cond, termLoc, nil
			}
			if err := p.eatEndOfLine(); err != nil {
				return nil, "", "", source.AbsoluteLocation{}, err
			}
			return nodes, keyword, "", termLoc, nil

		case "define":
			p.skipSpace()
			key, ok := p.parseIdentifier()
			if !ok {
				return nil, "", "", source.AbsoluteLocation{}, &MalformedDirectiveError{
					Detail: "#define requires a name", Loc: p.loc(hashPos),
				}
			}
			bodyStart := p.pos
			body := p.parseDirectiveArgument()
			if err := p.eatEndOfLine(); err != nil {
				return nil, "", "", source.AbsoluteLocation{}, err
			}
			n := Node{
				Kind:   NodeDefine,
				Key:    key,
				KeyLoc: source.RelativeLocation{Offset: hashPos, Length: p.pos - hashPos},
				Loc:    source.RelativeLocation{Offset: hashPos, Length: p.pos - hashPos},
			}
			if body != "" {
				n.DefineBody = &body
				n.DefineBodyLoc = source.RelativeLocation{Offset: bodyStart, Length: len(body)}
			}
			nodes = append(nodes, n)

		case "undefine", "undef":
			p.skipSpace()
			key, ok := p.parseIdentifier()
			if !ok {
				return nil, "", "", source.AbsoluteLocation{}, &MalformedDirectiveError{
					Detail: "#undefine requires a name", Loc: p.loc(hashPos),
				}
			}
			if err := p.eatEndOfLine(); err != nil {
				return nil, "", "", source.AbsoluteLocation{}, err
			}
			nodes = append(nodes, Node{
				Kind: NodeUndefine, Key: key,
				Loc: source.RelativeLocation{Offset: hashPos, Length: p.pos - hashPos},
			})

		case "include":
			pathStart := p.pos
			raw := p.parseDirectiveArgument()
			if raw == "" {
				return nil, "", "", source.AbsoluteLocation{}, &MalformedDirectiveError{
					Detail: "#include requires a path", Loc: p.loc(hashPos),
				}
			}
			if err := p.eatEndOfLine(); err != nil {
				return nil, "", "", source.AbsoluteLocation{}, err
			}
			nodes = append(nodes, Node{
				Kind:    NodeInclude,
				Path:    stripPathDelimiters(raw),
				PathLoc: source.RelativeLocation{Offset: pathStart, Length: len(raw)},
				Loc:     source.RelativeLocation{Offset: hashPos, Length: p.pos - hashPos},
			})

		case "error":
			msgStart := p.pos
			msg := p.parseDirectiveArgument()
			if err := p.eatEndOfLine(); err != nil {
				return nil, "", "", source.AbsoluteLocation{}, err
			}
			nodes = append(nodes, Node{
				Kind:       NodeError,
				Message:    msg,
				MessageLoc: source.RelativeLocation{Offset: msgStart, Length: len(msg)},
				Loc:        source.RelativeLocation{Offset: hashPos, Length: p.pos - hashPos},
			})

		case "if":
			cond := p.parseDirectiveArgument()
			condLoc0 := p.loc(hashPos)
			if err := p.eatEndOfLine(); err != nil {
				return nil, "", "", source.AbsoluteLocation{}, err
			}

			ifNode, err := p.parseIf(cond, condLoc0)
			if err != nil {
				return nil, "", "", source.AbsoluteLocation{}, err
			}
			nodes = append(nodes, *ifNode)

		default:
			return nil, "", "", source.AbsoluteLocation{}, &MalformedDirectiveError{
				Detail: "unknown directive #" + keyword, Loc: p.loc(hashPos),
			}
		}

		rawStart = p.pos
	}
}

// parseIf parses the body of a #if whose own condition/location have
// already been consumed, following through however many #elif branches and
// an optional #else down to the matching #endif.
func (p *parser) parseIf(firstCond string, firstCondLoc source.AbsoluteLocation) (*Node, error) {
	ifLoc := firstCondLoc

	body, term, nextCond, termLoc, err := p.parseNodeList()
	if err != nil {
		return nil, err
	}

	n := &Node{Kind: NodeIf, Loc: source.RelativeLocation{Offset: ifLoc.Offset, Length: 0}}
	n.Branches = append(n.Branches, Branch{
		Condition:    firstCond,
		ConditionLoc: source.RelativeLocation{Offset: firstCondLoc.Offset, Length: firstCondLoc.Length},
		Body:         body,
	})

	for term == "elif" {
		cond := nextCond
		condLoc := termLoc
		body, nextTerm, nc, tl, err := p.parseNodeList()
		if err != nil {
			return nil, err
		}
		n.Branches = append(n.Branches, Branch{
			Condition:    cond,
			ConditionLoc: source.RelativeLocation{Offset: condLoc.Offset, Length: condLoc.Length},
			Body:         body,
		})
		term, nextCond, termLoc = nextTerm, nc, tl
	}

	switch term {
	case "else":
		fallback, nextTerm, _, tl, err := p.parseNodeList()
		if err != nil {
			return nil, err
		}
		if nextTerm != "endif" {
			return nil, &UnterminatedIfError{Loc: tl}
		}
		n.Fallback = fallback
		n.HasElse = true
	case "endif":
		// no else branch
	case "":
		return nil, &UnterminatedIfError{Loc: ifLoc}
	}

	return n, nil
}
