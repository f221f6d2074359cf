package parser

import (
	"github.com/norilang/nori/internal/ast"
	"github.com/norilang/nori/internal/diag"
	"github.com/norilang/nori/internal/lexer"
)

// parseExpression parses an expression whose binding is at least as
// tight as prec, via precedence climbing. Binary, postfix (call, index,
// member), and cast ("as") operators are all driven by the same
// precedence table.
func (p *Parser) parseExpression(prec int) ast.Expr {
	left := p.parseUnary()
	if left == nil {
		return nil
	}
	for prec < precedenceOf(p.cur().Type) {
		next := p.parseInfix(left)
		if next == nil {
			return left
		}
		left = next
	}
	return left
}

func (p *Parser) parseUnary() ast.Expr {
	switch p.cur().Type {
	case lexer.MINUS:
		start := p.advance().Span
		operand := p.parseExpression(prefixPrec)
		if operand == nil {
			return nil
		}
		return ast.NewUnaryExpr(ast.OpNeg, operand, start.Merge(operand.Span()))
	case lexer.NOT:
		start := p.advance().Span
		operand := p.parseExpression(prefixPrec)
		if operand == nil {
			return nil
		}
		return ast.NewUnaryExpr(ast.OpNot, operand, start.Merge(operand.Span()))
	default:
		return p.parsePrimary()
	}
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.cur()
	switch tok.Type {
	case lexer.INT:
		p.advance()
		return ast.NewIntLit(tok.Value.Int, tok.Span)
	case lexer.FLOAT:
		p.advance()
		return ast.NewFloatLit(tok.Value.Float, tok.Span)
	case lexer.TRUE:
		p.advance()
		return ast.NewBoolLit(true, tok.Span)
	case lexer.FALSE:
		p.advance()
		return ast.NewBoolLit(false, tok.Span)
	case lexer.NULL:
		p.advance()
		return ast.NewNullLit(tok.Span)
	case lexer.STRING:
		p.advance()
		return p.parseStringLit(tok)
	case lexer.IDENT:
		p.advance()
		return ast.NewNameExpr(tok.Literal, tok.Span)
	case lexer.LPAREN:
		p.advance()
		inner := p.parseExpression(lowest)
		p.expect(lexer.RPAREN, "to close a parenthesized expression")
		return inner
	case lexer.LBRACK:
		return p.parseArrayLit()
	default:
		p.diags.Errorf(diag.ErrUnexpectedToken, tok.Span, "unexpected token %s in expression", tok.Type)
		return nil
	}
}

func (p *Parser) parseArrayLit() ast.Expr {
	start := p.advance().Span // [
	var elems []ast.Expr
	for !p.at(lexer.RBRACK) && !p.at(lexer.EOF) {
		elems = append(elems, p.parseExpression(lowest))
		if !p.at(lexer.COMMA) {
			break
		}
		p.advance()
	}
	closeTok, _ := p.expect(lexer.RBRACK, "to close an array literal")
	return ast.NewArrayLit(elems, start.Merge(closeTok.Span))
}

// parseStringLit turns a lexed STRING token into either a plain
// StringLit (no interpolation holes) or an InterpString whose `{expr}`
// holes are each re-lexed and parsed as a nested expression.
func (p *Parser) parseStringLit(tok lexer.Token) ast.Expr {
	raw := tok.Value.String
	segments := splitInterpolation(raw)
	if len(segments) == 1 && !segments[0].isExpr {
		return ast.NewStringLit(segments[0].text, tok.Span)
	}

	var parts []ast.InterpStringPart
	for _, seg := range segments {
		if !seg.isExpr {
			parts = append(parts, ast.InterpStringPart{Text: seg.text})
			continue
		}
		subToks := lexer.New(seg.text, p.file, p.diags).Lex()
		sub := New(subToks, p.file, p.diags)
		expr := sub.parseExpression(lowest)
		parts = append(parts, ast.InterpStringPart{Expr: expr})
	}
	return ast.NewInterpString(parts, tok.Span)
}

type interpSegment struct {
	isExpr bool
	text   string
}

// splitInterpolation splits a decoded string literal into literal-text
// and `{expr}`-hole segments, tracking brace depth so a hole may itself
// contain nested braces.
func splitInterpolation(s string) []interpSegment {
	var segs []interpSegment
	var cur []rune
	depth := 0
	for _, r := range []rune(s) {
		switch {
		case r == '{' && depth == 0:
			if len(cur) > 0 {
				segs = append(segs, interpSegment{text: string(cur)})
				cur = nil
			}
			depth++
		case r == '{':
			depth++
			cur = append(cur, r)
		case r == '}' && depth == 1:
			depth--
			segs = append(segs, interpSegment{isExpr: true, text: string(cur)})
			cur = nil
		case r == '}':
			depth--
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
	}
	if len(cur) > 0 || len(segs) == 0 {
		segs = append(segs, interpSegment{text: string(cur)})
	}
	return segs
}

var binaryOps = map[lexer.TokenType]ast.BinaryOp{
	lexer.PLUS:        ast.OpAdd,
	lexer.MINUS:       ast.OpSub,
	lexer.STAR:        ast.OpMul,
	lexer.SLASH:       ast.OpDiv,
	lexer.PERCENT:     ast.OpMod,
	lexer.EQ:          ast.OpEq,
	lexer.NOT_EQ:      ast.OpNotEq,
	lexer.LESS:        ast.OpLess,
	lexer.GREATER:     ast.OpGreater,
	lexer.LESS_EQ:     ast.OpLessEq,
	lexer.GREATER_EQ:  ast.OpGreaterEq,
	lexer.AND_AND:     ast.OpAnd,
	lexer.OR_OR:       ast.OpOr,
}

// parseInfix parses one postfix/infix operator applied to left: a
// binary operator, a call, an index, a member access, or a cast.
func (p *Parser) parseInfix(left ast.Expr) ast.Expr {
	tok := p.cur()
	switch tok.Type {
	case lexer.LPAREN:
		return p.parseCall(left)
	case lexer.LBRACK:
		return p.parseIndex(left)
	case lexer.DOT:
		return p.parseMember(left)
	case lexer.AS:
		p.advance()
		typ := p.parseTypeExpr()
		return ast.NewCastExpr(left, typ, left.Span().Merge(typ.Span()))
	default:
		if op, ok := binaryOps[tok.Type]; ok {
			p.advance()
			right := p.parseExpression(precedenceOf(tok.Type))
			if right == nil {
				return nil
			}
			return ast.NewBinaryExpr(left, op, right, left.Span().Merge(right.Span()))
		}
		return nil
	}
}

func (p *Parser) parseCall(callee ast.Expr) ast.Expr {
	p.advance() // (
	var args []ast.Expr
	for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
		args = append(args, p.parseExpression(lowest))
		if !p.at(lexer.COMMA) {
			break
		}
		p.advance()
	}
	closeTok, _ := p.expect(lexer.RPAREN, "to close a call's argument list")
	return ast.NewCallExpr(callee, args, callee.Span().Merge(closeTok.Span))
}

func (p *Parser) parseIndex(collection ast.Expr) ast.Expr {
	p.advance() // [
	idx := p.parseExpression(lowest)
	closeTok, _ := p.expect(lexer.RBRACK, "to close an index expression")
	return ast.NewIndexExpr(collection, idx, collection.Span().Merge(closeTok.Span))
}

func (p *Parser) parseMember(receiver ast.Expr) ast.Expr {
	p.advance() // .
	nameTok, _ := p.expect(lexer.IDENT, "member name after '.'")
	return ast.NewMemberExpr(receiver, nameTok.Literal, receiver.Span().Merge(nameTok.Span))
}
