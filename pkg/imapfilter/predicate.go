// Package imapfilter turns parsed Thunderbird rules into an imapfilter
// configuration script.
package imapfilter

import "strings"

const (
	sepAnd = "*"
	sepOr  = "+"
)

// Expr is a message selection expression rendered against a mailbox base
// like `account.INBOX`.
type Expr interface {
	render(base string, depth int) string
}

// MethodCall selects messages with a single imapfilter method.
type MethodCall struct {
	Call string
}

func (m MethodCall) render(base string, _ int) string {
	return base + ":" + m.Call
}

// Combinator joins sub-expressions with imapfilter set arithmetic:
// `*` intersects (ALL), `+` unions (ANY).
type Combinator struct {
	Sep   string
	Exprs []Expr
}

func (c Combinator) Render(base string) string {
	return c.render(base, 1)
}

func (c Combinator) render(base string, depth int) string {
	switch len(c.Exprs) {
	case 0:
		return "()"
	case 1:
		return c.Exprs[0].render(base, depth)
	}

	pad := strings.Repeat("    ", depth+1)
	parts := make([]string, len(c.Exprs))
	for i, e := range c.Exprs {
		parts[i] = e.render(base, depth+1)
	}

	return "(" + strings.Join(parts, "\n"+pad+c.Sep+" ") + ")"
}
