// Package parser implements a recursive-descent parser for Nori with
// precedence climbing for binary expressions and postfix chains for
// call/index/member access. Errors are recovered at statement and
// declaration granularity: on an unexpected token the parser records a
// diagnostic and skips to the next plausible synchronization point, so
// later phases can still walk a partial tree.
package parser

import (
	"github.com/norilang/nori/internal/ast"
	"github.com/norilang/nori/internal/diag"
	"github.com/norilang/nori/internal/lexer"
)

// Precedence levels, lowest to highest.
const (
	_ int = iota
	lowest
	orPrec
	andPrec
	equalsPrec
	comparePrec
	sumPrec
	productPrec
	prefixPrec
	postfixPrec
)

var precedences = map[lexer.TokenType]int{
	lexer.OR_OR:      orPrec,
	lexer.AND_AND:    andPrec,
	lexer.EQ:         equalsPrec,
	lexer.NOT_EQ:     equalsPrec,
	lexer.LESS:       comparePrec,
	lexer.GREATER:    comparePrec,
	lexer.LESS_EQ:    comparePrec,
	lexer.GREATER_EQ: comparePrec,
	lexer.PLUS:       sumPrec,
	lexer.MINUS:      sumPrec,
	lexer.STAR:       productPrec,
	lexer.SLASH:      productPrec,
	lexer.PERCENT:    productPrec,
	lexer.LPAREN:     postfixPrec,
	lexer.LBRACK:     postfixPrec,
	lexer.DOT:        postfixPrec,
	lexer.AS:         postfixPrec,
}

// declarationStarters are the tokens that may begin a new top-level
// declaration; they double as synchronization points after a parse
// error at declaration granularity.
var declarationStarters = map[lexer.TokenType]bool{
	lexer.LET: true, lexer.PUB: true, lexer.SYNC: true,
	lexer.FN: true, lexer.ON: true, lexer.EVENT: true,
}

// statementStarters are the tokens that may begin a new statement.
var statementStarters = map[lexer.TokenType]bool{
	lexer.LET: true, lexer.IF: true, lexer.WHILE: true, lexer.FOR: true,
	lexer.BREAK: true, lexer.CONTINUE: true, lexer.RETURN: true, lexer.SEND: true,
}

// Parser holds the token stream and cursor state.
type Parser struct {
	file  string
	toks  []lexer.Token
	pos   int
	diags *diag.Bag
}

// New constructs a Parser over an already-lexed token stream.
func New(toks []lexer.Token, file string, diags *diag.Bag) *Parser {
	return &Parser{file: file, toks: toks, diags: diags}
}

func (p *Parser) cur() lexer.Token {
	if p.pos >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF
	}
	return p.toks[p.pos]
}

func (p *Parser) peekAt(n int) lexer.Token {
	i := p.pos + n
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[i]
}

func (p *Parser) advance() lexer.Token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) at(tt lexer.TokenType) bool { return p.cur().Type == tt }

// expect advances past the current token if it matches tt, otherwise
// records E0020 and leaves the cursor in place.
func (p *Parser) expect(tt lexer.TokenType, context string) (lexer.Token, bool) {
	if p.at(tt) {
		return p.advance(), true
	}
	p.diags.Errorf(diag.ErrUnexpectedToken, p.cur().Span,
		"expected %s %s, got %s", tt, context, p.cur().Type)
	return lexer.Token{}, false
}

// skipOptional consumes a trailing statement/declaration terminator if
// present. Nori's semicolons are optional before a closing brace.
func (p *Parser) skipOptional(tt lexer.TokenType) {
	if p.at(tt) {
		p.advance()
	}
}

// synchronize skips tokens until it reaches EOF, a declaration starter,
// or (within a block) a statement starter/closing brace, so the caller
// can resume parsing after a malformed construct.
func (p *Parser) synchronize(stmtLevel bool) {
	for !p.at(lexer.EOF) {
		if p.at(lexer.SEMICOLON) {
			p.advance()
			return
		}
		if p.at(lexer.RBRACE) {
			return
		}
		if declarationStarters[p.cur().Type] {
			return
		}
		if stmtLevel && statementStarters[p.cur().Type] {
			return
		}
		p.advance()
	}
}

// ParseModule parses a full translation unit. The returned module's
// Declarations list may be empty, and may be partial if errors were
// recorded in the diagnostic bag.
func (p *Parser) ParseModule() *ast.Module {
	mod := &ast.Module{}
	for !p.at(lexer.EOF) {
		decl := p.parseDeclaration()
		if decl != nil {
			mod.Declarations = append(mod.Declarations, decl)
		} else {
			p.synchronize(false)
		}
	}
	return mod
}

func precedenceOf(tt lexer.TokenType) int {
	if prec, ok := precedences[tt]; ok {
		return prec
	}
	return lowest
}
