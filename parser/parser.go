package parser

import (
	"strings"

	"github.com/lookbusy1344/z33-asm/expr"
	"github.com/lookbusy1344/z33-asm/source"
)

func relLoc(offset, length int) source.RelativeLocation {
	return source.RelativeLocation{Offset: offset, Length: length}
}

// ParseProgram parses preprocessed program text into a Program, per the
// line grammar `( identifier ':' )* content? comment?`: one Line per
// logical line (a backslash-newline keeps a line logical across a
// physical line break; see scanner.skipJoins).
func ParseProgram(text string) (*Program, error) {
	s := newScanner(text)
	var lines []Line

	for !s.eof() {
		line, err := parseLine(s)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	return &Program{Lines: lines}, nil
}

func parseLine(s *scanner) (Line, error) {
	lineStart := s.pos
	line := Line{}

	for {
		s.skipSpace()
		b := s.peek()
		if b == 0 || b == '\n' || b == '#' || b == '.' {
			break
		}
		if !isIdentStart(b) {
			return Line{}, &SyntaxError{Detail: "unexpected character " + string(rune(b)), Loc: relLoc(s.pos, 1)}
		}

		mark := s.pos
		name, _ := s.parseIdentifier()
		afterIdent := s.pos
		s.skipSpace()
		if s.peek() == ':' {
			s.advance()
			line.Symbols = append(line.Symbols, name)
			line.SymbolLocs = append(line.SymbolLocs, relLoc(mark, afterIdent-mark))
			continue
		}
		// Not a label after all: this identifier is the mnemonic. Rewind.
		s.pos = mark
		break
	}

	s.skipSpace()
	switch s.peek() {
	case 0, '\n', '#':
		// no content
	case '.':
		d, err := parseDirective(s)
		if err != nil {
			return Line{}, err
		}
		line.ContentKind = ContentDirective
		line.Directive = d
	default:
		inst, err := parseInstruction(s)
		if err != nil {
			return Line{}, err
		}
		line.ContentKind = ContentInstruction
		line.Instruction = inst
	}

	s.skipSpace()
	if s.peek() == '#' {
		start := s.pos
		s.advance()
		for !s.eof() && s.peek() != '\n' {
			s.advance()
		}
		line.Comment = s.input[start:s.pos]
		line.HasComment = true
	}

	s.skipSpace()
	if !s.eof() && s.peek() != '\n' {
		return Line{}, &SyntaxError{Detail: "expected end of line", Loc: relLoc(s.pos, 1)}
	}
	if !s.eof() {
		s.advance() // consume '\n'
	}

	line.Loc = relLoc(lineStart, s.pos-lineStart)
	return line, nil
}

var directiveKinds = map[string]DirectiveKind{
	"word":   DirWord,
	"space":  DirSpace,
	"addr":   DirAddr,
	"string": DirString,
}

func parseDirective(s *scanner) (*Directive, error) {
	start := s.pos
	s.advance() // '.'
	keyword, ok := s.parseIdentifier()
	if !ok {
		return nil, &SyntaxError{Detail: "expected directive name after '.'", Loc: relLoc(start, s.pos-start)}
	}
	kind, ok := directiveKinds[keyword]
	if !ok {
		return nil, &UnknownDirectiveError{Keyword: keyword, Loc: relLoc(start, s.pos-start)}
	}

	s.skipSpace()
	d := &Directive{Kind: kind}

	if kind == DirString {
		if s.peek() != '"' {
			return nil, &DirectiveArgumentShapeError{Kind: kind, Loc: relLoc(start, s.pos-start)}
		}
		lit, err := s.parseStringLiteral()
		if err != nil {
			return nil, err
		}
		d.StringLit = lit
	} else {
		node, err := parseExpressionArgument(s)
		if err != nil {
			return nil, &DirectiveArgumentShapeError{Kind: kind, Loc: relLoc(start, s.pos-start)}
		}
		d.Expr = node
	}

	d.Loc = relLoc(start, s.pos-start)
	return d, nil
}

func parseInstruction(s *scanner) (*Instruction, error) {
	start := s.pos
	mnemonic, ok := s.parseIdentifier()
	if !ok {
		return nil, &SyntaxError{Detail: "expected an instruction mnemonic", Loc: relLoc(start, 1)}
	}
	lower := toLower(mnemonic)
	schema, ok := LookupSchema(lower)
	if !ok {
		return nil, &UnknownMnemonicError{Mnemonic: mnemonic, Loc: relLoc(start, s.pos-start)}
	}

	var args []InstructionArgument
	s.skipSpace()
	if schema.ArgCount > 0 && !atLineEnd(s) {
		for {
			arg, err := parseOperand(s)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			s.skipSpace()
			if s.peek() != ',' {
				break
			}
			s.advance()
			s.skipSpace()
		}
	}

	if len(args) != schema.ArgCount {
		return nil, &ArityError{Mnemonic: lower, Want: schema.ArgCount, Got: len(args), Loc: relLoc(start, s.pos-start)}
	}

	return &Instruction{Mnemonic: lower, Arguments: args, Loc: relLoc(start, s.pos-start)}, nil
}

func atLineEnd(s *scanner) bool {
	b := s.peek()
	return b == 0 || b == '\n' || b == '#'
}

func parseOperand(s *scanner) (InstructionArgument, error) {
	start := s.pos

	if s.peek() == '%' {
		s.advance()
		name, ok := s.parseIdentifier()
		if !ok {
			return InstructionArgument{}, &SyntaxError{Detail: "expected a register name after '%'", Loc: relLoc(start, s.pos-start)}
		}
		name = toLower(name)
		if !IsRegisterName(name) {
			return InstructionArgument{}, &SyntaxError{Detail: "unknown register %" + name, Loc: relLoc(start, s.pos-start)}
		}
		return InstructionArgument{Kind: ArgRegister, Register: name, Loc: relLoc(start, s.pos-start)}, nil
	}

	if s.peek() == '(' {
		reg, err := parseParenthesizedRegister(s)
		if err != nil {
			return InstructionArgument{}, err
		}
		return InstructionArgument{Kind: ArgIndirect, Register: reg, Loc: relLoc(start, s.pos-start)}, nil
	}

	node, err := parseExpressionArgument(s)
	if err != nil {
		return InstructionArgument{}, err
	}

	s.skipSpace()
	if s.peek() == '(' {
		reg, err := parseParenthesizedRegister(s)
		if err != nil {
			return InstructionArgument{}, err
		}
		return InstructionArgument{Kind: ArgIndexed, Register: reg, Expr: node, Loc: relLoc(start, s.pos-start)}, nil
	}

	return InstructionArgument{Kind: ArgImmediate, Expr: node, Loc: relLoc(start, s.pos-start)}, nil
}

func parseParenthesizedRegister(s *scanner) (string, error) {
	start := s.pos
	s.advance() // '('
	s.skipSpace()
	if s.peek() != '%' {
		return "", &SyntaxError{Detail: "expected a register reference in parentheses", Loc: relLoc(start, s.pos-start)}
	}
	s.advance()
	name, ok := s.parseIdentifier()
	if !ok {
		return "", &SyntaxError{Detail: "expected a register name after '%'", Loc: relLoc(start, s.pos-start)}
	}
	name = toLower(name)
	if !IsRegisterName(name) {
		return "", &SyntaxError{Detail: "unknown register %" + name, Loc: relLoc(start, s.pos-start)}
	}
	s.skipSpace()
	if s.peek() != ')' {
		return "", &SyntaxError{Detail: "expected closing ')'", Loc: relLoc(start, s.pos-start)}
	}
	s.advance()
	return name, nil
}

// parseExpressionArgument delegates to expr.Parse for the constant-
// expression sub-language. expr.Parse itself stops at the
// first character that doesn't extend the grammar (a comma separating
// operands, a '(' opening an indexed-addressing suffix, an unmatched ')'),
// so it's handed the rest of the logical line and left to find its own
// boundary; the scanner is then advanced by exactly what it consumed.
func parseExpressionArgument(s *scanner) (*expr.RelativeNode, error) {
	tmp := scanner{input: s.input, pos: s.pos}
	var text strings.Builder
	for {
		b := tmp.peek()
		if b == 0 || b == '\n' || b == '#' {
			break
		}
		text.WriteByte(tmp.advance())
	}

	node, rest, err := expr.Parse(text.String())
	if err != nil {
		return nil, err
	}
	for consumed := text.Len() - len(rest); consumed > 0; consumed-- {
		s.advance()
	}
	return node, nil
}

func toLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c - 'A' + 'a'
		}
	}
	return string(b)
}
