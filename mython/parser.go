package mython

// Parser is a recursive-descent reader turning the Lexer's token stream
// into a Node tree. Its precedence-climbing structure is a chain of parseX
// functions, one per precedence level, each falling through to the next
// tighter-binding one.
type Parser struct {
	lex    *Lexer
	source string
}

// NewParser lexes the first token of source and returns a Parser
// positioned to read a program.
func NewParser(source string) (*Parser, error) {
	lex, err := NewLexer(source)
	if err != nil {
		return nil, err
	}
	return &Parser{lex: lex, source: source}, nil
}

// Parse lexes and parses source into a top-level Compound.
func Parse(source string) (*Compound, error) {
	p, err := NewParser(source)
	if err != nil {
		return nil, err
	}
	stmts, err := p.parseStatements(tokenEOF)
	if err != nil {
		return nil, err
	}
	return &Compound{Stmts: stmts}, nil
}

func (p *Parser) cur() Token { return p.lex.Current() }

func (p *Parser) advance() error {
	_, err := p.lex.Next()
	return err
}

func (p *Parser) expect(tt TokenType) (Token, error) {
	return p.lex.Expect(tt)
}

func (p *Parser) isChar(lit string) bool {
	t := p.cur()
	return t.Type == tokenChar && t.Literal == lit
}

func (p *Parser) expectChar(lit string) error {
	return p.lex.ExpectLiteral(tokenChar, lit)
}

func (p *Parser) errf(format string, args ...any) error {
	return newParseError(p.source, p.cur().Pos, format, args...)
}

// parseStatements parses statements until the current token has type stop
// (tokenDedent for a suite, tokenEOF for the top-level program).
func (p *Parser) parseStatements(stop TokenType) ([]Node, error) {
	var stmts []Node
	for p.cur().Type != stop {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func (p *Parser) parseStatement() (Node, error) {
	switch p.cur().Type {
	case tokenPrint:
		return p.parsePrint()
	case tokenReturn:
		return p.parseReturn()
	case tokenIf:
		return p.parseIf()
	case tokenClass:
		return p.parseClass()
	default:
		return p.parseAssignOrExprStatement()
	}
}

// parseSuite consumes ':' NEWLINE INDENT stmt* DEDENT and returns the
// statement list, matching the off-side block delimiting a `class`,
// `def`, `if`, or `else` header line.
func (p *Parser) parseSuite() ([]Node, error) {
	if err := p.expectChar(":"); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if _, err := p.expect(tokenNewline); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if _, err := p.expect(tokenIndent); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	stmts, err := p.parseStatements(tokenDedent)
	if err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil { // consume Dedent
		return nil, err
	}
	return stmts, nil
}

func (p *Parser) parsePrint() (Node, error) {
	pos := p.cur().Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	args := []Node{first}
	for p.isChar(",") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	if _, err := p.expect(tokenNewline); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return &Print{base{pos}, args}, nil
}

func (p *Parser) parseReturn() (Node, error) {
	pos := p.cur().Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokenNewline); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return &Return{base{pos}, expr}, nil
}

func (p *Parser) parseIf() (Node, error) {
	pos := p.cur().Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	thenStmts, err := p.parseSuite()
	if err != nil {
		return nil, err
	}
	node := &IfElse{base{pos}, cond, &Compound{base{pos}, thenStmts}, nil}
	if p.cur().Type == tokenElse {
		if err := p.advance(); err != nil {
			return nil, err
		}
		elseStmts, err := p.parseSuite()
		if err != nil {
			return nil, err
		}
		node.Else = &Compound{base{pos}, elseStmts}
	}
	return node, nil
}

func (p *Parser) parseClass() (Node, error) {
	pos := p.cur().Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(tokenId)
	if err != nil {
		return nil, err
	}
	name := nameTok.Literal
	if err := p.advance(); err != nil {
		return nil, err
	}

	var parentName string
	if p.isChar("(") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		parentTok, err := p.expect(tokenId)
		if err != nil {
			return nil, err
		}
		parentName = parentTok.Literal
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.expectChar(")"); err != nil {
			return nil, err
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	if err := p.expectChar(":"); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if _, err := p.expect(tokenNewline); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if _, err := p.expect(tokenIndent); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	class := NewClass(name, nil)
	for p.cur().Type != tokenDedent {
		if p.cur().Type == tokenDef {
			m, err := p.parseMethodDef()
			if err != nil {
				return nil, err
			}
			class.AddMethod(m)
			continue
		}
		// "pass" is not a reserved keyword — the lexer treats it as a plain
		// identifier — but `class C(B): pass` is how a body-less subclass is
		// written, so it is recognized here as a soft keyword meaning "no
		// methods of its own".
		if p.cur().Type == tokenId && p.cur().Literal == "pass" {
			if err := p.advance(); err != nil {
				return nil, err
			}
			if _, err := p.expect(tokenNewline); err != nil {
				return nil, err
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		return nil, p.errf("expected method definition or pass, got %s", p.cur().Type)
	}
	if err := p.advance(); err != nil { // consume Dedent
		return nil, err
	}

	return &ClassDefinition{base{pos}, class, parentName}, nil
}

func (p *Parser) parseMethodDef() (*Method, error) {
	if err := p.advance(); err != nil { // consume 'def'
		return nil, err
	}
	nameTok, err := p.expect(tokenId)
	if err != nil {
		return nil, err
	}
	name := nameTok.Literal
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.expectChar("("); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	var params []string
	if !p.isChar(")") {
		pTok, err := p.expect(tokenId)
		if err != nil {
			return nil, err
		}
		params = append(params, pTok.Literal)
		if err := p.advance(); err != nil {
			return nil, err
		}
		for p.isChar(",") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			pTok, err := p.expect(tokenId)
			if err != nil {
				return nil, err
			}
			params = append(params, pTok.Literal)
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	if err := p.expectChar(")"); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	pos := p.cur().Pos
	bodyStmts, err := p.parseSuite()
	if err != nil {
		return nil, err
	}
	body := &MethodBody{base{pos}, &Compound{base{pos}, bodyStmts}}
	return &Method{Name: name, Params: params, Body: body}, nil
}

func (p *Parser) parseAssignOrExprStatement() (Node, error) {
	pos := p.cur().Pos
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.isChar("=") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokenNewline); err != nil {
			return nil, err
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		vv, ok := expr.(*VariableValue)
		if !ok {
			return nil, newParseError(p.source, pos, "invalid assignment target")
		}
		if len(vv.Path) == 1 {
			return &Assignment{base{pos}, vv.Path[0], rhs}, nil
		}
		return &FieldAssignment{base{pos}, vv.Path[:len(vv.Path)-1], vv.Path[len(vv.Path)-1], rhs}, nil
	}
	if _, err := p.expect(tokenNewline); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return expr, nil
}

// --- expressions, in ascending precedence ---

func (p *Parser) parseExpr() (Node, error) { return p.parseOr() }

func (p *Parser) parseOr() (Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.cur().Type == tokenOr {
		pos := p.cur().Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &Or{base{pos}, left, right}
	}
	return left, nil
}

func (p *Parser) parseAnd() (Node, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.cur().Type == tokenAnd {
		pos := p.cur().Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &And{base{pos}, left, right}
	}
	return left, nil
}

func (p *Parser) parseNot() (Node, error) {
	if p.cur().Type == tokenNot {
		pos := p.cur().Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		x, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &Not{base{pos}, x}, nil
	}
	return p.parseComparison()
}

func (p *Parser) parseComparison() (Node, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	tok := p.cur()
	var op CompareOp
	switch {
	case tok.Type == tokenEq:
		op = CompareEqual
	case tok.Type == tokenNotEq:
		op = CompareNotEqual
	case tok.Type == tokenLessOrEq:
		op = CompareLessOrEqual
	case tok.Type == tokenGreaterOrEq:
		op = CompareGreaterOrEqual
	case tok.Type == tokenChar && tok.Literal == "<":
		op = CompareLess
	case tok.Type == tokenChar && tok.Literal == ">":
		op = CompareGreater
	default:
		return left, nil
	}
	pos := tok.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	right, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	return &Comparison{base{pos}, op, left, right}, nil
}

func (p *Parser) parseAdditive() (Node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.isChar("+") || p.isChar("-") {
		op := p.cur().Literal
		pos := p.cur().Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		if op == "+" {
			left = &Add{base{pos}, left, right}
		} else {
			left = &Sub{base{pos}, left, right}
		}
	}
	return left, nil
}

func (p *Parser) parseTerm() (Node, error) {
	left, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	for p.isChar("*") || p.isChar("/") {
		op := p.cur().Literal
		pos := p.cur().Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parsePostfix()
		if err != nil {
			return nil, err
		}
		if op == "*" {
			left = &Mult{base{pos}, left, right}
		} else {
			left = &Div{base{pos}, left, right}
		}
	}
	return left, nil
}

// parsePostfix parses an atom (literal, grouping, str(x), unary minus as
// 0 - operand, or an identifier chain possibly ending in a call) and then
// any trailing .method(args) chain, producing MethodCall, NewInstanceExpr,
// or VariableValue nodes.
func (p *Parser) parsePostfix() (Node, error) {
	tok := p.cur()
	pos := tok.Pos
	var node Node

	switch {
	case tok.Type == tokenNumber:
		node = &NumericConst{base{pos}, tok.IntValue}
		if err := p.advance(); err != nil {
			return nil, err
		}
	case tok.Type == tokenString:
		node = &StringConst{base{pos}, tok.Literal}
		if err := p.advance(); err != nil {
			return nil, err
		}
	case tok.Type == tokenTrue:
		node = &BoolConst{base{pos}, true}
		if err := p.advance(); err != nil {
			return nil, err
		}
	case tok.Type == tokenFalse:
		node = &BoolConst{base{pos}, false}
		if err := p.advance(); err != nil {
			return nil, err
		}
	case tok.Type == tokenNone:
		node = &NoneLiteral{base{pos}}
		if err := p.advance(); err != nil {
			return nil, err
		}
	case tok.Type == tokenChar && tok.Literal == "(":
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectChar(")"); err != nil {
			return nil, err
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		node = inner
	case tok.Type == tokenId && tok.Literal == "str":
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.expectChar("("); err != nil {
			return nil, err
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectChar(")"); err != nil {
			return nil, err
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		node = &Stringify{base{pos}, arg}
	case tok.Type == tokenChar && tok.Literal == "-":
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parsePostfix()
		if err != nil {
			return nil, err
		}
		node = &Sub{base{pos}, &NumericConst{base{pos}, 0}, operand}
	case tok.Type == tokenId:
		n, err := p.parseIdentifierChain(pos)
		if err != nil {
			return nil, err
		}
		node = n
	default:
		return nil, p.errf("unexpected token %s", tok.Type)
	}

	for p.isChar(".") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		nameTok, err := p.expect(tokenId)
		if err != nil {
			return nil, err
		}
		name := nameTok.Literal
		if err := p.advance(); err != nil {
			return nil, err
		}
		if !p.isChar("(") {
			return nil, p.errf("cannot access field %q on a call result", name)
		}
		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}
		node = &MethodCall{base{pos}, node, name, args}
	}
	return node, nil
}

func (p *Parser) parseIdentifierChain(pos Position) (Node, error) {
	path := []string{p.cur().Literal}
	if err := p.advance(); err != nil {
		return nil, err
	}
	for p.isChar(".") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		idTok, err := p.expect(tokenId)
		if err != nil {
			return nil, err
		}
		path = append(path, idTok.Literal)
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if p.isChar("(") {
		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}
		if len(path) == 1 {
			return &NewInstanceExpr{base{pos}, &VariableValue{base{pos}, path}, args}, nil
		}
		object := &VariableValue{base{pos}, path[:len(path)-1]}
		return &MethodCall{base{pos}, object, path[len(path)-1], args}, nil
	}
	return &VariableValue{base{pos}, path}, nil
}

func (p *Parser) parseArgs() ([]Node, error) {
	if err := p.expectChar("("); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	var args []Node
	if !p.isChar(")") {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		for p.isChar(",") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
	}
	if err := p.expectChar(")"); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return args, nil
}
