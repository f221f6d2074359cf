package parser

import (
	"github.com/norilang/nori/internal/ast"
	"github.com/norilang/nori/internal/diag"
	"github.com/norilang/nori/internal/lexer"
)

// parseDeclaration dispatches on the current token to parse one
// top-level declaration: a variable, a function, an event handler, or a
// custom event. Returns nil (without advancing past the offending
// token) on a construct the parser doesn't recognize, so the caller can
// synchronize.
func (p *Parser) parseDeclaration() ast.Decl {
	switch p.cur().Type {
	case lexer.LET, lexer.PUB, lexer.SYNC:
		return p.parseVarDecl()
	case lexer.FN:
		return p.parseFuncDecl()
	case lexer.ON:
		return p.parseEventDecl()
	case lexer.EVENT:
		return p.parseCustomEventDecl()
	default:
		p.diags.Errorf(diag.ErrUnexpectedToken, p.cur().Span,
			"expected a declaration (let, pub, sync, fn, on, event), got %s", p.cur().Type)
		return nil
	}
}

// parseVarDeclModifiers consumes any leading `pub` and `sync <mode>`
// modifiers (in either order) before the `let` keyword.
func (p *Parser) parseVarDeclModifiers() (public bool, sync ast.SyncMode) {
	sync = ast.NotSynced
	for {
		switch p.cur().Type {
		case lexer.PUB:
			pubSpan := p.cur().Span
			p.advance()
			if p.cur().Type != lexer.LET && p.cur().Type != lexer.SYNC {
				p.diags.Errorf(diag.ErrPubWithoutLet, pubSpan, "'pub' must be followed by 'let'")
			}
			public = true
		case lexer.SYNC:
			syncSpan := p.cur().Span
			p.advance()
			mode, ok := syncModeFromIdent(p.cur())
			if !ok {
				p.diags.Errorf(diag.ErrInvalidSync, syncSpan,
					"'sync' must be followed by one of none, linear, smooth")
			} else {
				sync = mode
				p.advance()
			}
		default:
			return
		}
	}
}

func syncModeFromIdent(t lexer.Token) (ast.SyncMode, bool) {
	if t.Type != lexer.IDENT {
		return ast.NotSynced, false
	}
	switch t.Literal {
	case "none":
		return ast.SyncNone, true
	case "linear":
		return ast.SyncLinear, true
	case "smooth":
		return ast.SyncSmooth, true
	default:
		return ast.NotSynced, false
	}
}

// parseVarDecl parses a top-level `[pub] [sync mode] let name[: Type] [= init]`.
// After a sync modifier the `let` may be omitted (`sync none score: int = 0`).
func (p *Parser) parseVarDecl() ast.Decl {
	public, sync := p.parseVarDeclModifiers()
	start := p.cur().Span
	if p.at(lexer.LET) || sync == ast.NotSynced {
		if _, ok := p.expect(lexer.LET, "to start a variable declaration"); !ok {
			return nil
		}
	}
	nameTok, _ := p.expect(lexer.IDENT, "variable name")

	var typ *ast.TypeExpr
	if p.at(lexer.COLON) {
		p.advance()
		typ = p.parseTypeExpr()
	}

	var init ast.Expr
	if p.at(lexer.ASSIGN) {
		p.advance()
		init = p.parseExpression(lowest)
	}

	end := nameTok.Span
	if init != nil {
		end = init.Span()
	} else if typ != nil {
		end = typ.Span()
	}
	p.skipOptional(lexer.SEMICOLON)

	decl := ast.NewVarDecl(nameTok.Literal, typ, public, sync, init, start.Merge(end))
	decl.IsArray = typ != nil && typ.IsArray
	return decl
}

func (p *Parser) parseFuncDecl() ast.Decl {
	start := p.cur().Span
	p.advance() // fn
	nameTok, _ := p.expect(lexer.IDENT, "function name")
	params := p.parseParamList()

	var ret *ast.TypeExpr
	if p.at(lexer.ARROW) {
		p.advance()
		ret = p.parseTypeExpr()
	}

	body := p.parseBlock()
	return ast.NewFuncDecl(nameTok.Literal, params, ret, body, start.Merge(p.lastSpan()))
}

func (p *Parser) parseEventDecl() ast.Decl {
	start := p.cur().Span
	p.advance() // on
	nameTok, _ := p.expect(lexer.IDENT, "event name")

	var params []*ast.Param
	if p.at(lexer.LPAREN) {
		params = p.parseParamList()
	}
	body := p.parseBlock()
	return ast.NewEventDecl(nameTok.Literal, params, body, start.Merge(p.lastSpan()))
}

func (p *Parser) parseCustomEventDecl() ast.Decl {
	start := p.cur().Span
	p.advance() // event
	nameTok, _ := p.expect(lexer.IDENT, "custom event name")
	body := p.parseBlock()
	return ast.NewCustomEventDecl(nameTok.Literal, body, start.Merge(p.lastSpan()))
}

// lastSpan returns the span of the token just consumed, used to compute
// an end position after parseBlock has already advanced the cursor.
func (p *Parser) lastSpan() lexer.Span {
	if p.pos == 0 {
		return p.toks[0].Span
	}
	return p.toks[p.pos-1].Span
}
