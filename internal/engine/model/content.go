package model

import (
	"fmt"
	"strings"
)

// contentTerm is one element of a content expression: a set of acceptable
// node type or group names with a repetition range.
type contentTerm struct {
	names []string
	min   int
	max   int // -1 means unbounded
}

// contentExpr is a parsed content expression such as "paragraph block*".
type contentExpr struct {
	source string
	terms  []contentTerm
}

// parseContent parses a content expression.
//
// The grammar is a space separated sequence of terms. A term is a type or
// group name, or a parenthesised list of alternatives separated by "|",
// optionally followed by one of "*", "+" or "?".
func parseContent(src string) (contentExpr, error) {
	expr := contentExpr{source: src}
	s := strings.TrimSpace(src)
	for len(s) > 0 {
		var names []string
		if s[0] == '(' {
			end := strings.IndexByte(s, ')')
			if end < 0 {
				return expr, fmt.Errorf("%w: unbalanced group in %q", ErrInvalidContent, src)
			}
			for _, alt := range strings.Split(s[1:end], "|") {
				alt = strings.TrimSpace(alt)
				if alt == "" {
					return expr, fmt.Errorf("%w: empty alternative in %q", ErrInvalidContent, src)
				}
				names = append(names, alt)
			}
			s = s[end+1:]
		} else {
			end := strings.IndexAny(s, " *+?()|")
			if end < 0 {
				end = len(s)
			}
			if end == 0 {
				return expr, fmt.Errorf("%w: unexpected %q in %q", ErrInvalidContent, s[:1], src)
			}
			names = []string{s[:end]}
			s = s[end:]
		}

		term := contentTerm{names: names, min: 1, max: 1}
		if len(s) > 0 {
			switch s[0] {
			case '*':
				term.min, term.max = 0, -1
				s = s[1:]
			case '+':
				term.min, term.max = 1, -1
				s = s[1:]
			case '?':
				term.min, term.max = 0, 1
				s = s[1:]
			}
		}
		expr.terms = append(expr.terms, term)
		s = strings.TrimLeft(s, " ")
	}
	return expr, nil
}

// empty reports whether the expression allows no content at all.
func (e contentExpr) empty() bool {
	return len(e.terms) == 0
}

func (t contentTerm) accepts(nt *NodeType) bool {
	for _, name := range t.names {
		if nt.Name == name || nt.InGroup(name) {
			return true
		}
	}
	return false
}

// match reports whether nodes satisfy the expression. Terms are matched
// greedily, which is sufficient for the unambiguous expressions used by
// list-editing schemas.
func (e contentExpr) match(nodes []*Node) bool {
	i := 0
	for _, term := range e.terms {
		n := 0
		for i < len(nodes) && (term.max < 0 || n < term.max) && term.accepts(nodes[i].typ) {
			i++
			n++
		}
		if n < term.min {
			return false
		}
	}
	return i == len(nodes)
}

func (e contentExpr) String() string {
	return e.source
}
