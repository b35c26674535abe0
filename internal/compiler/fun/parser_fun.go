package fun

import (
	"context"

	"gopkg.funfront.dev/compiler.go/internal/exc"
	"gopkg.funfront.dev/compiler.go/internal/iter"
	"gopkg.funfront.dev/compiler.go/internal/lang"
)

// the parser needs to see one token past an identifier to tell a call from a
// variable.
const parserFunLookahead = 1

var (
	typeStart    = []lang.TokenType{lang.TokenTypeKeywordInt, lang.TokenTypeKeywordBool}
	paramsStart  = []lang.TokenType{lang.TokenTypeKeywordInt, lang.TokenTypeKeywordBool, lang.TokenTypeParenClose}
	operandStart = []lang.TokenType{
		lang.TokenTypeNumber,
		lang.TokenTypeKeywordTrue,
		lang.TokenTypeKeywordFalse,
		lang.TokenTypeIdentifier,
		lang.TokenTypeKeywordIf,
		lang.TokenTypeKeywordLet,
	}
)

type parserOptions struct {
	emptyCalls bool
}

type ParserOption func(*parserOptions)

// WithEmptyCalls enables calls with no arguments, such as f(). The base
// grammar only allows empty parameter lists in definitions.
func WithEmptyCalls() ParserOption {
	return func(o *parserOptions) {
		o.emptyCalls = true
	}
}

// ParserFun is a recursive descent parser for the fun language. It stops at
// the first syntax error, which is sent to the reporter.
type ParserFun struct {
	reporter exc.Reporter
	options  parserOptions
}

func NewParserFun(reporter exc.Reporter, options ...ParserOption) *ParserFun {
	p := &ParserFun{reporter: reporter}
	for _, option := range options {
		option(&p.options)
	}
	return p
}

func (self *ParserFun) PrepareParse(ctx context.Context, uri string, tokens lang.Iterator[*lang.Token]) *parserFunTokens {
	return &parserFunTokens{
		reporter: self.reporter,
		options:  self.options,
		ctx:      ctx,
		uri:      uri,
		loc:      lang.Location{Line: 1, Column: 1},
		tokens:   iter.NewLookahead(tokens, parserFunLookahead),
	}
}

type parserFunTokens struct {
	reporter exc.Reporter
	options  parserOptions
	ctx      context.Context
	uri      string
	// this is the .Span.End of the last consumed token; it locates "unexpected
	// end of input" errors.
	loc    lang.Location
	tokens lang.Lookahead[*lang.Token]
}

// reports that the current token, or the end of input, cannot continue the
// parse.
func (p *parserFunTokens) unexpected(expected string) {
	var e exc.Exception
	if t := p.peek(); t != nil {
		e = exc.NewUnexpectedToken(p.uri, *t, expected)
	} else {
		e = exc.NewUnexpectedEOF(exc.Location{URI: p.uri, Location: p.loc}, expected)
	}
	_ = p.reporter.Report(e)
}

func (p *parserFunTokens) advance() {
	if t := p.peek(); t != nil {
		p.loc = t.Span.End
	}
	_ = p.tokens.Next(p.ctx)
}

func (p *parserFunTokens) peekN(n uint8) *lang.Token {
	t, ok := p.tokens.Lookahead(p.ctx, n).Get()
	if !ok {
		return nil
	}
	return t
}

func (p *parserFunTokens) peek() *lang.Token {
	return p.peekN(0)
}

func (p *parserFunTokens) peekIs(kind lang.TokenType) bool {
	t := p.peek()
	return t != nil && t.Type == kind
}

// reports an error if there is no current token, or the current token isn't of the expected type
// advances on success
func (p *parserFunTokens) expectOne(expectedType lang.TokenType) *lang.Token {
	return p.expectOneOf([]lang.TokenType{expectedType})
}

// reports an error if current token isn't one of the given expected types.
// advances on success
func (p *parserFunTokens) expectOneOf(expectedTypes []lang.TokenType) *lang.Token {
	t := p.peek()
	if t != nil {
		for _, expectedType := range expectedTypes {
			if t.Type == expectedType {
				p.advance()
				return t
			}
		}
	}
	p.unexpected(lang.DescribeTypes(expectedTypes))
	return nil
}

// Program = Fun { Fun }
func (p *parserFunTokens) ParseProgram() *Program {
	this := Program{
		URI: p.uri,
	}
	for {
		function := p.parseFunction()
		if function == nil {
			return nil
		}
		this.Functions = append(this.Functions, function)
		if p.peek() == nil {
			break
		}
	}
	return &this
}

// Fun = TypeId "(" [ TypeIds ] ")" "=" Exp
func (p *parserFunTokens) parseFunction() *Function {
	header := p.parseTypeId()
	if header == nil {
		return nil
	}
	this := Function{
		Pos:    header.Pos,
		Result: header.Type,
		Name:   header.Name,
	}
	if p.expectOne(lang.TokenTypeParenOpen) == nil {
		return nil
	}

	t := p.peek()
	switch {
	case t == nil:
		p.unexpected(lang.DescribeTypes(paramsStart))
		return nil
	case t.Type == lang.TokenTypeParenClose:
	case t.Type == lang.TokenTypeKeywordInt, t.Type == lang.TokenTypeKeywordBool:
		this.Parameters = p.parseTypeIds()
		if this.Parameters == nil {
			return nil
		}
	default:
		p.unexpected(lang.DescribeTypes(paramsStart))
		return nil
	}

	if p.expectOne(lang.TokenTypeParenClose) == nil {
		return nil
	}
	if p.expectOne(lang.TokenTypeEqual) == nil {
		return nil
	}
	this.Body = p.parseExpression()
	if this.Body == nil {
		return nil
	}
	return &this
}

// TypeId = ( "int" | "bool" ) identifier
func (p *parserFunTokens) parseTypeId() *Parameter {
	t := p.expectOneOf(typeStart)
	if t == nil {
		return nil
	}
	name := p.expectOne(lang.TokenTypeIdentifier)
	if name == nil {
		return nil
	}
	this := Parameter{
		Pos:  t.Span.Start,
		Type: TypeInt,
		Name: name.Value,
	}
	if t.Type == lang.TokenTypeKeywordBool {
		this.Type = TypeBool
	}
	return &this
}

// TypeIds = TypeId { "," TypeId }
func (p *parserFunTokens) parseTypeIds() []*Parameter {
	var values []*Parameter
	for {
		value := p.parseTypeId()
		if value == nil {
			return nil
		}
		values = append(values, value)
		if !p.peekIs(lang.TokenTypeComma) {
			return values
		}
		p.advance()
	}
}

// Exp = Sum { "=" Sum }
func (p *parserFunTokens) parseExpression() Expression {
	left := p.parseSum()
	if left == nil {
		return nil
	}
	for p.peekIs(lang.TokenTypeEqual) {
		p.advance()
		right := p.parseSum()
		if right == nil {
			return nil
		}
		left = &Equals{Pos: left.Position(), Left: left, Right: right}
	}
	return left
}

// Sum = Operand { "+" Operand }
func (p *parserFunTokens) parseSum() Expression {
	left := p.parseOperand()
	if left == nil {
		return nil
	}
	for p.peekIs(lang.TokenTypePlus) {
		p.advance()
		right := p.parseOperand()
		if right == nil {
			return nil
		}
		left = &Add{Pos: left.Position(), Left: left, Right: right}
	}
	return left
}

// Operand = number | "true" | "false" | identifier [ "(" Exps ")" ]
//
//	| "if" Exp "then" Exp "else" Exp | "let" identifier "=" Exp "in" Exp
func (p *parserFunTokens) parseOperand() Expression {
	t := p.peek()
	if t == nil {
		p.unexpected(lang.DescribeTypes(operandStart))
		return nil
	}
	switch t.Type {
	case lang.TokenTypeNumber:
		p.advance()
		return &NumberLiteral{Pos: t.Span.Start, Value: t.Int}
	case lang.TokenTypeKeywordTrue:
		p.advance()
		return &BoolLiteral{Pos: t.Span.Start, Value: true}
	case lang.TokenTypeKeywordFalse:
		p.advance()
		return &BoolLiteral{Pos: t.Span.Start, Value: false}
	case lang.TokenTypeIdentifier:
		if next := p.peekN(1); next != nil && next.Type == lang.TokenTypeParenOpen {
			return p.parseCall()
		}
		p.advance()
		return &Variable{Pos: t.Span.Start, Name: t.Value}
	case lang.TokenTypeKeywordIf:
		return p.parseConditional()
	case lang.TokenTypeKeywordLet:
		return p.parseLet()
	default:
		p.unexpected(lang.DescribeTypes(operandStart))
		return nil
	}
}

// identifier "(" Exps ")"
func (p *parserFunTokens) parseCall() Expression {
	name := p.expectOne(lang.TokenTypeIdentifier)
	if name == nil {
		return nil
	}
	if p.expectOne(lang.TokenTypeParenOpen) == nil {
		return nil
	}
	this := Call{
		Pos:    name.Span.Start,
		Callee: name.Value,
	}
	if !p.options.emptyCalls || !p.peekIs(lang.TokenTypeParenClose) {
		this.Arguments = p.parseExpressions()
		if this.Arguments == nil {
			return nil
		}
	}
	if p.expectOne(lang.TokenTypeParenClose) == nil {
		return nil
	}
	return &this
}

// Exps = Exp { "," Exp }
func (p *parserFunTokens) parseExpressions() []Expression {
	var values []Expression
	for {
		value := p.parseExpression()
		if value == nil {
			return nil
		}
		values = append(values, value)
		if !p.peekIs(lang.TokenTypeComma) {
			return values
		}
		p.advance()
	}
}

// "if" Exp "then" Exp "else" Exp
func (p *parserFunTokens) parseConditional() Expression {
	start := p.expectOne(lang.TokenTypeKeywordIf)
	if start == nil {
		return nil
	}
	this := Conditional{Pos: start.Span.Start}
	if this.Condition = p.parseExpression(); this.Condition == nil {
		return nil
	}
	if p.expectOne(lang.TokenTypeKeywordThen) == nil {
		return nil
	}
	if this.Then = p.parseExpression(); this.Then == nil {
		return nil
	}
	if p.expectOne(lang.TokenTypeKeywordElse) == nil {
		return nil
	}
	if this.Else = p.parseExpression(); this.Else == nil {
		return nil
	}
	return &this
}

// "let" identifier "=" Exp "in" Exp
func (p *parserFunTokens) parseLet() Expression {
	start := p.expectOne(lang.TokenTypeKeywordLet)
	if start == nil {
		return nil
	}
	name := p.expectOne(lang.TokenTypeIdentifier)
	if name == nil {
		return nil
	}
	if p.expectOne(lang.TokenTypeEqual) == nil {
		return nil
	}
	this := Let{Pos: start.Span.Start, Name: name.Value}
	if this.Value = p.parseExpression(); this.Value == nil {
		return nil
	}
	if p.expectOne(lang.TokenTypeKeywordIn) == nil {
		return nil
	}
	if this.Body = p.parseExpression(); this.Body == nil {
		return nil
	}
	return &this
}
