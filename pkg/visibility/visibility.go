// Package visibility evaluates the small boolean expressions that gate
// conditional form fields. A condition compiles once, at schema compile
// time, and is then evaluated against the current value map on every render:
//
//	plan == "pro"
//	newsletter && !unsubscribed
//	(role == "admin" || role == "staff") && enabled
//
// Identifiers resolve against the value map, with dot paths traversing
// nested maps. Comparisons coerce both sides, so `enabled == true` holds for
// the bool true and the string "true" alike.
package visibility

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Condition is a compiled visibility expression. The zero value is not
// usable; obtain instances through Compile.
type Condition struct {
	source string
	root   node
}

// Compile parses an expression. An empty or blank expression compiles to a
// condition that is always true, so callers can compile whatever the schema
// declares without special-casing absence.
func Compile(expr string) (*Condition, error) {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" {
		return &Condition{source: expr}, nil
	}

	tokens, err := tokenize(trimmed)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	root, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.tokens) {
		return nil, fmt.Errorf("visibility: unexpected token %q in %q", p.tokens[p.pos].raw, trimmed)
	}
	return &Condition{source: expr, root: root}, nil
}

// MustCompile panics on a malformed expression.
func MustCompile(expr string) *Condition {
	c, err := Compile(expr)
	if err != nil {
		panic(err)
	}
	return c
}

// String returns the source expression.
func (c *Condition) String() string { return c.source }

// Eval reports whether the condition holds for the given values. Missing
// identifiers evaluate as nil: falsy, equal to null, unequal to anything
// else.
func (c *Condition) Eval(values map[string]any) bool {
	if c == nil || c.root == nil {
		return true
	}
	return c.root.eval(values)
}

type tokenKind int

const (
	tokenIdent tokenKind = iota
	tokenString
	tokenNumber
	tokenBool
	tokenNull
	tokenEq
	tokenNeq
	tokenAnd
	tokenOr
	tokenNot
	tokenLParen
	tokenRParen
)

type token struct {
	kind tokenKind
	raw  string
}

func tokenize(input string) ([]token, error) {
	var out []token
	i := 0
	for i < len(input) {
		ch := input[i]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			i++
		case ch == '(':
			out = append(out, token{kind: tokenLParen, raw: "("})
			i++
		case ch == ')':
			out = append(out, token{kind: tokenRParen, raw: ")"})
			i++
		case ch == '!':
			if i+1 < len(input) && input[i+1] == '=' {
				out = append(out, token{kind: tokenNeq, raw: "!="})
				i += 2
			} else {
				out = append(out, token{kind: tokenNot, raw: "!"})
				i++
			}
		case ch == '=':
			if i+1 >= len(input) || input[i+1] != '=' {
				return nil, errors.New(`visibility: single '='; use '=='`)
			}
			out = append(out, token{kind: tokenEq, raw: "=="})
			i += 2
		case ch == '&':
			if i+1 >= len(input) || input[i+1] != '&' {
				return nil, errors.New(`visibility: single '&'; use '&&'`)
			}
			out = append(out, token{kind: tokenAnd, raw: "&&"})
			i += 2
		case ch == '|':
			if i+1 >= len(input) || input[i+1] != '|' {
				return nil, errors.New(`visibility: single '|'; use '||'`)
			}
			out = append(out, token{kind: tokenOr, raw: "||"})
			i += 2
		case ch == '"' || ch == '\'':
			value, width, err := scanString(input[i:])
			if err != nil {
				return nil, err
			}
			out = append(out, token{kind: tokenString, raw: value})
			i += width
		default:
			start := i
			for i < len(input) && !strings.ContainsRune(" \t\n\r()!=&|", rune(input[i])) {
				i++
			}
			raw := input[start:i]
			switch strings.ToLower(raw) {
			case "true", "false":
				out = append(out, token{kind: tokenBool, raw: strings.ToLower(raw)})
			case "null", "nil":
				out = append(out, token{kind: tokenNull, raw: "null"})
			default:
				if _, err := strconv.ParseFloat(raw, 64); err == nil {
					out = append(out, token{kind: tokenNumber, raw: raw})
				} else {
					out = append(out, token{kind: tokenIdent, raw: raw})
				}
			}
		}
	}
	return out, nil
}

func scanString(input string) (value string, width int, err error) {
	quote := input[0]
	var sb strings.Builder
	for i := 1; i < len(input); i++ {
		c := input[i]
		if c == '\\' && i+1 < len(input) {
			i++
			sb.WriteByte(input[i])
			continue
		}
		if c == quote {
			return sb.String(), i + 1, nil
		}
		sb.WriteByte(c)
	}
	return "", 0, errors.New("visibility: unterminated string literal")
}

type node interface {
	eval(values map[string]any) bool
}

type orNode struct{ left, right node }

func (n orNode) eval(values map[string]any) bool {
	return n.left.eval(values) || n.right.eval(values)
}

type andNode struct{ left, right node }

func (n andNode) eval(values map[string]any) bool {
	return n.left.eval(values) && n.right.eval(values)
}

type notNode struct{ inner node }

func (n notNode) eval(values map[string]any) bool { return !n.inner.eval(values) }

type truthyNode struct{ ident string }

func (n truthyNode) eval(values map[string]any) bool {
	value, ok := lookup(values, n.ident)
	return ok && isTruthy(value)
}

type compareNode struct {
	ident  string
	negate bool
	lit    token
}

func (n compareNode) eval(values map[string]any) bool {
	value, _ := lookup(values, n.ident)

	var equal bool
	switch n.lit.kind {
	case tokenNull:
		equal = value == nil
	case tokenBool:
		got, _ := asBool(value)
		equal = got == (n.lit.raw == "true")
	case tokenNumber:
		want, _ := strconv.ParseFloat(n.lit.raw, 64)
		got, ok := asNumber(value)
		equal = ok && got == want
	default:
		equal = asString(value) == n.lit.raw
	}
	if n.negate {
		return !equal
	}
	return equal
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) parseOr() (node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.match(tokenOr) {
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = orNode{left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.match(tokenAnd) {
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = andNode{left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (node, error) {
	if p.match(tokenNot) {
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return notNode{inner: inner}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (node, error) {
	if p.match(tokenLParen) {
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if !p.match(tokenRParen) {
			return nil, errors.New("visibility: missing ')'")
		}
		return inner, nil
	}

	if p.pos >= len(p.tokens) {
		return nil, errors.New("visibility: unexpected end of expression")
	}
	tok := p.tokens[p.pos]
	if tok.kind != tokenIdent {
		return nil, fmt.Errorf("visibility: expected identifier, got %q", tok.raw)
	}
	p.pos++

	if p.match(tokenEq) {
		lit, err := p.literal()
		if err != nil {
			return nil, err
		}
		return compareNode{ident: tok.raw, lit: lit}, nil
	}
	if p.match(tokenNeq) {
		lit, err := p.literal()
		if err != nil {
			return nil, err
		}
		return compareNode{ident: tok.raw, negate: true, lit: lit}, nil
	}
	return truthyNode{ident: tok.raw}, nil
}

func (p *parser) literal() (token, error) {
	if p.pos >= len(p.tokens) {
		return token{}, errors.New("visibility: missing literal after comparison")
	}
	tok := p.tokens[p.pos]
	switch tok.kind {
	case tokenString, tokenNumber, tokenBool, tokenNull:
		p.pos++
		return tok, nil
	case tokenIdent:
		// Bare words compare as strings: plan == pro.
		p.pos++
		return token{kind: tokenString, raw: tok.raw}, nil
	default:
		return token{}, fmt.Errorf("visibility: expected literal, got %q", tok.raw)
	}
}

func (p *parser) match(kind tokenKind) bool {
	if p.pos < len(p.tokens) && p.tokens[p.pos].kind == kind {
		p.pos++
		return true
	}
	return false
}

// lookup resolves an identifier: exact key first, then dot-path traversal
// through nested maps.
func lookup(values map[string]any, key string) (any, bool) {
	if len(values) == 0 || key == "" {
		return nil, false
	}
	if v, ok := values[key]; ok {
		return v, true
	}

	var current any = values
	for _, part := range strings.Split(key, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func isTruthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return strings.TrimSpace(v) != ""
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	default:
		return true
	}
}

func asBool(value any) (bool, bool) {
	switch v := value.(type) {
	case bool:
		return v, true
	case string:
		if parsed, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return parsed, true
		}
		return strings.TrimSpace(v) != "", true
	case nil:
		return false, false
	default:
		return isTruthy(value), true
	}
}

func asNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func asString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(value)
	}
}
