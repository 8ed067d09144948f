package imapfilter

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"git.schidlow.ski/gitea/tb2imapfilter/pkg/msgfilter"
)

// ErrUnsupported marks vocabulary the translator has no mapping for. It is
// not a hard failure: the rule is rendered as a commented-out placeholder.
var ErrUnsupported = errors.New("no imapfilter mapping")

var allAddressFields = []string{"from", "to", "cc", "bcc"}

var literalFields = map[string]bool{
	"body":    true,
	"subject": true,
	"from":    true,
	"to":      true,
	"cc":      true,
	"bcc":     true,
}

// Thunderbird stores folder targets as imap://user@server/folder.
var folderValue = regexp.MustCompile(`^imap://([^&$+,/:;=?@# <>\[\]{}|\\^]+)@([^&$+,/:;=?@# <>\[\]{}|\\^%]+)/(.*)$`)

type condKey struct {
	field string
	op    string
}

// Translator maps Thunderbird condition and action vocabulary to imapfilter
// method calls. Custom mappings take precedence over the built-in table.
type Translator struct {
	conditions map[condKey]string
	actions    map[string]string
	extra      *Mappings
}

func NewTranslator(extra *Mappings) *Translator {
	t := &Translator{
		conditions: map[condKey]string{},
		actions:    map[string]string{},
		extra:      extra,
	}
	if extra != nil {
		for _, m := range extra.Conditions {
			t.conditions[condKey{strings.ToLower(m.Field), strings.ToLower(m.Op)}] = m.Call
		}
		for _, m := range extra.Actions {
			t.actions[m.Action] = m.Statement
		}
	}
	return t
}

// Condition returns the selection expression for one (field, op, value)
// triple, or ErrUnsupported.
func (t *Translator) Condition(c msgfilter.Condition) (Expr, error) {
	field := strings.ToLower(strings.TrimSpace(c.Field))
	op := strings.ToLower(strings.TrimSpace(c.Op))

	if call, ok := t.conditions[condKey{field, op}]; ok {
		if strings.Contains(call, "%s") {
			return MethodCall{Call: fmt.Sprintf(call, luaEscape(c.Value))}, nil
		}
		return MethodCall{Call: call}, nil
	}

	if field == "all addresses" {
		exprs := make([]Expr, 0, len(allAddressFields))
		for _, f := range allAddressFields {
			expr, err := t.Condition(msgfilter.Condition{Field: f, Op: c.Op, Value: c.Value})
			if err != nil {
				return nil, err
			}
			exprs = append(exprs, expr)
		}
		return Combinator{Sep: sepOr, Exprs: exprs}, nil
	}

	if literalFields[field] {
		switch op {
		case "contains":
			return MethodCall{Call: fmt.Sprintf("contain_%s('%s')", field, luaEscape(c.Value))}, nil
		case "begins with":
			return MethodCall{Call: fmt.Sprintf("match_%s('^%s.*')", field, regexQuote(c.Value))}, nil
		case "ends with":
			return MethodCall{Call: fmt.Sprintf("match_%s('.*%s$')", field, regexQuote(c.Value))}, nil
		case "is":
			return MethodCall{Call: fmt.Sprintf("match_%s('^%s$')", field, regexQuote(c.Value))}, nil
		}
	}

	if field == "size" {
		verb := ""
		switch op {
		case "is greater than":
			verb = "is_larger"
		case "is less than":
			verb = "is_smaller"
		}
		if verb != "" {
			size := strings.TrimSpace(c.Value)
			if _, err := strconv.Atoi(size); err != nil {
				return nil, fmt.Errorf("condition %q %q %q: size is not a number: %w", c.Field, c.Op, c.Value, ErrUnsupported)
			}
			return MethodCall{Call: fmt.Sprintf("%s(%s)", verb, size)}, nil
		}
	}

	return nil, fmt.Errorf("condition %q %q %q: %w", c.Field, c.Op, c.Value, ErrUnsupported)
}

// Action returns the statement applied to the selected message set, or
// ErrUnsupported. Folder targets on a server without an account block yet
// register one in accounts.
func (t *Translator) Action(a msgfilter.Action, accounts *AccountSet) (string, error) {
	kind := strings.TrimSpace(a.Type)

	if stmt, ok := t.actions[kind]; ok {
		if strings.Contains(stmt, "%s") {
			return fmt.Sprintf(stmt, luaEscape(a.Value)), nil
		}
		return stmt, nil
	}

	switch kind {
	case "Delete":
		return "delete_messages()", nil
	case "Mark read":
		return "mark_seen()", nil
	case "Mark flagged":
		return "mark_flagged()", nil
	case "Move to folder", "Copy to folder":
		server, _, folder, err := parseFolderValue(a.Value)
		if err != nil {
			return "", fmt.Errorf("action %q: %w", kind, err)
		}
		verb := "move_messages"
		if kind == "Copy to folder" {
			verb = "copy_messages"
		}
		account := accounts.Ensure(server)
		return fmt.Sprintf("%s(%s['%s'])", verb, account.VarName, luaEscape(folder)), nil
	}

	return "", fmt.Errorf("action %q: %w", a.Type, ErrUnsupported)
}

func parseFolderValue(value string) (server, username, folder string, err error) {
	m := folderValue.FindStringSubmatch(value)
	if m == nil {
		return "", "", "", fmt.Errorf("folder parameter %q: %w", value, ErrUnsupported)
	}
	return m[2], m[1], m[3], nil
}

// luaEscape makes a value safe inside a single-quoted Lua string.
func luaEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}

var regexSpecials = []string{`[`, `]`, `.`, `*`, `?`, `(`, `)`, `|`, `^`, `$`, `+`}

// regexQuote escapes regex special characters in a verbatim value and keeps
// the result safe inside a single-quoted Lua string. Backslash goes first so
// the escapes added below stay intact.
func regexQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	for _, ch := range regexSpecials {
		s = strings.ReplaceAll(s, ch, `\`+ch)
	}
	return strings.ReplaceAll(s, `'`, `\'`)
}
