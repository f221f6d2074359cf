package parser

import (
	"github.com/norilang/nori/internal/ast"
	"github.com/norilang/nori/internal/diag"
	"github.com/norilang/nori/internal/lexer"
)

// parseBlock parses a brace-delimited statement list.
func (p *Parser) parseBlock() []ast.Stmt {
	p.expect(lexer.LBRACE, "to start a block")
	var stmts []ast.Stmt
	for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			stmts = append(stmts, stmt)
		} else {
			p.synchronize(true)
		}
	}
	p.expect(lexer.RBRACE, "to close a block")
	return stmts
}

func (p *Parser) parseStatement() ast.Stmt {
	switch p.cur().Type {
	case lexer.LET:
		return p.parseLocalVarStmt()
	case lexer.IF:
		return p.parseIfStmt()
	case lexer.WHILE:
		return p.parseWhileStmt()
	case lexer.FOR:
		return p.parseForStmt()
	case lexer.BREAK:
		span := p.advance().Span
		p.skipOptional(lexer.SEMICOLON)
		return ast.NewBreakStmt(span)
	case lexer.CONTINUE:
		span := p.advance().Span
		p.skipOptional(lexer.SEMICOLON)
		return ast.NewContinueStmt(span)
	case lexer.RETURN:
		return p.parseReturnStmt()
	case lexer.SEND:
		return p.parseSendStmt()
	default:
		return p.parseExprOrAssignStmt()
	}
}

// local-var declarations are also a statement kind; they reuse VarDecl.
func (p *Parser) parseLocalVarStmt() ast.Stmt {
	decl := p.parseVarDecl()
	if decl == nil {
		return nil
	}
	return decl.(*ast.VarDecl)
}

func (p *Parser) parseIfStmt() ast.Stmt {
	start := p.advance().Span // if
	cond := p.parseExpression(lowest)
	then := p.parseBlock()
	var els []ast.Stmt
	if p.at(lexer.ELSE) {
		p.advance()
		if p.at(lexer.IF) {
			els = []ast.Stmt{p.parseIfStmt()}
		} else {
			els = p.parseBlock()
		}
	}
	return ast.NewIfStmt(cond, then, els, start.Merge(p.lastSpan()))
}

func (p *Parser) parseWhileStmt() ast.Stmt {
	start := p.advance().Span // while
	cond := p.parseExpression(lowest)
	body := p.parseBlock()
	return ast.NewWhileStmt(cond, body, start.Merge(p.lastSpan()))
}

// parseForStmt parses both `for I in start..end { }` and `for I in collection { }`,
// disambiguated after parsing the first bound expression.
func (p *Parser) parseForStmt() ast.Stmt {
	start := p.advance().Span // for
	nameTok, _ := p.expect(lexer.IDENT, "loop variable name")
	p.expect(lexer.IN, "after loop variable")
	first := p.parseExpression(lowest)

	if p.at(lexer.DOTDOT) {
		p.advance()
		end := p.parseExpression(lowest)
		body := p.parseBlock()
		return ast.NewForRangeStmt(nameTok.Literal, first, end, body, start.Merge(p.lastSpan()))
	}

	body := p.parseBlock()
	return ast.NewForEachStmt(nameTok.Literal, first, body, start.Merge(p.lastSpan()))
}

func (p *Parser) parseReturnStmt() ast.Stmt {
	start := p.advance().Span // return
	var value ast.Expr
	if !p.at(lexer.SEMICOLON) && !p.at(lexer.RBRACE) {
		value = p.parseExpression(lowest)
	}
	end := start
	if value != nil {
		end = value.Span()
	}
	p.skipOptional(lexer.SEMICOLON)
	return ast.NewReturnStmt(value, start.Merge(end))
}

func (p *Parser) parseSendStmt() ast.Stmt {
	start := p.advance().Span // send
	nameTok, _ := p.expect(lexer.IDENT, "event name")
	target := ast.SendLocal
	end := nameTok.Span
	if p.at(lexer.TO) {
		p.advance()
		targetTok, _ := p.expect(lexer.IDENT, "'All' or 'Owner' after 'to'")
		end = targetTok.Span
		switch targetTok.Literal {
		case "All":
			target = ast.SendAll
		case "Owner":
			target = ast.SendOwner
		default:
			p.diags.Errorf(diag.ErrUnexpectedToken, targetTok.Span,
				"expected 'All' or 'Owner' after 'to', got %q", targetTok.Literal)
		}
	}
	p.skipOptional(lexer.SEMICOLON)
	return ast.NewSendStmt(nameTok.Literal, target, start.Merge(end))
}

// parseExprOrAssignStmt parses a bare expression statement, or an
// assignment if the expression is followed by one of `= += -= *= /=`.
func (p *Parser) parseExprOrAssignStmt() ast.Stmt {
	start := p.cur().Span
	expr := p.parseExpression(lowest)
	if expr == nil {
		return nil
	}

	if op, ok := assignOpFor(p.cur().Type); ok {
		p.advance()
		value := p.parseExpression(lowest)
		p.skipOptional(lexer.SEMICOLON)
		return ast.NewAssignStmt(expr, op, value, start.Merge(value.Span()))
	}

	p.skipOptional(lexer.SEMICOLON)
	return ast.NewExprStmt(expr, start.Merge(expr.Span()))
}

func assignOpFor(tt lexer.TokenType) (ast.AssignOp, bool) {
	switch tt {
	case lexer.ASSIGN:
		return ast.Assign, true
	case lexer.PLUS_ASSIGN:
		return ast.AssignAdd, true
	case lexer.MINUS_ASSIGN:
		return ast.AssignSub, true
	case lexer.STAR_ASSIGN:
		return ast.AssignMul, true
	case lexer.SLASH_ASSIGN:
		return ast.AssignDiv, true
	default:
		return 0, false
	}
}
