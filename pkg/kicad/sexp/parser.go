package sexp

import (
	"fmt"
	"io"
)

type parser struct {
	lexer *lexer
}

func newParser(r io.Reader) *parser {
	return &parser{lexer: newLexer(r)}
}

// parseExpr parses one S-expression. Returns nil on immediate EOF.
func (p *parser) parseExpr() (*Node, error) {
	tok, err := p.lexer.next()
	if err != nil {
		return nil, err
	}
	return p.parseFrom(tok)
}

func (p *parser) parseFrom(tok token) (*Node, error) {
	switch tok.typ {
	case tokenEOF:
		return nil, nil

	case tokenSymbol:
		return Sym(tok.value), nil

	case tokenString:
		return Str(tok.value), nil

	case tokenLeftParen:
		return p.parseList()

	case tokenRightParen:
		return nil, fmt.Errorf("unexpected ')'")

	default:
		return nil, fmt.Errorf("unexpected token type: %v", tok.typ)
	}
}

func (p *parser) parseList() (*Node, error) {
	node := &Node{Kind: KindList}

	for {
		tok, err := p.lexer.next()
		if err != nil {
			return nil, err
		}

		switch tok.typ {
		case tokenRightParen:
			return node, nil

		case tokenEOF:
			return nil, fmt.Errorf("unexpected EOF in list")

		default:
			child, err := p.parseFrom(tok)
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, child)
		}
	}
}
