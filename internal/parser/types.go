package parser

import (
	"github.com/norilang/nori/internal/ast"
	"github.com/norilang/nori/internal/lexer"
)

// parseTypeExpr parses a surface type reference: a name, optionally
// followed by `[]` to mark an array type.
func (p *Parser) parseTypeExpr() *ast.TypeExpr {
	nameTok, _ := p.expect(lexer.IDENT, "type name")
	start := nameTok.Span
	isArray := false
	if p.at(lexer.LBRACK) && p.peekAt(1).Type == lexer.RBRACK {
		p.advance()
		p.advance()
		isArray = true
	}
	return ast.NewTypeExpr(nameTok.Literal, isArray, start)
}

// parseParamList parses a parenthesized, comma-separated parameter list:
// `(name: Type, name: Type)`.
func (p *Parser) parseParamList() []*ast.Param {
	var params []*ast.Param
	p.expect(lexer.LPAREN, "to start parameter list")
	if !p.at(lexer.RPAREN) {
		for {
			params = append(params, p.parseParam())
			if !p.at(lexer.COMMA) {
				break
			}
			p.advance()
		}
	}
	p.expect(lexer.RPAREN, "to close parameter list")
	return params
}

func (p *Parser) parseParam() *ast.Param {
	nameTok, _ := p.expect(lexer.IDENT, "parameter name")
	start := nameTok.Span
	p.expect(lexer.COLON, "after parameter name")
	typ := p.parseTypeExpr()
	return ast.NewParam(nameTok.Literal, typ, start.Merge(typ.Span()))
}
