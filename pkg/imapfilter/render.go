package imapfilter

import (
	"fmt"
	"strings"

	"git.schidlow.ski/gitea/tb2imapfilter/pkg/msgfilter"
)

// The credentials are placeholders on purpose. The user edits them before
// running the script.
const accountTemplate = `%s = IMAP {
    server = '%s',
    username = 'USERNAME',
    password = 'PASSWORD',
    ssl = 'auto'
}`

type Account struct {
	Server  string
	VarName string
}

// AccountSet assigns one Lua variable per IMAP server, in registration
// order, so repeated runs produce identical scripts.
type AccountSet struct {
	accounts []Account
	byServer map[string]int
	used     map[string]bool
}

func NewAccountSet() *AccountSet {
	return &AccountSet{
		byServer: map[string]int{},
		used:     map[string]bool{},
	}
}

func (s *AccountSet) Ensure(server string) Account {
	if i, ok := s.byServer[server]; ok {
		return s.accounts[i]
	}

	account := Account{Server: server, VarName: s.varName(server)}
	s.byServer[server] = len(s.accounts)
	s.accounts = append(s.accounts, account)
	return account
}

func (s *AccountSet) Accounts() []Account {
	return s.accounts
}

// varName derives a variable name from the server name: the TLD and the
// usual imap/imaps/mail labels are dropped, the rest joined by underscores,
// with a numeric suffix on collision.
func (s *AccountSet) varName(server string) string {
	labels := strings.Split(server, ".")
	labels = labels[:len(labels)-1]

	var parts []string
	for _, label := range labels {
		switch label {
		case "imap", "imaps", "mail", "":
			continue
		}
		parts = append(parts, strings.ReplaceAll(label, "-", "_"))
	}

	base := strings.Join(parts, "_")
	if base == "" {
		base = "remote"
	}

	candidate := base
	for n := 2; s.used[candidate]; n++ {
		candidate = fmt.Sprintf("%s_%d", base, n)
	}
	s.used[candidate] = true
	return candidate
}

// Render emits the complete script: account blocks first, then one block
// per rule in source order. Unsupported and disabled rules come out
// commented, never dropped, so the output stays valid Lua and the user sees
// what needs hand-editing.
func Render(rules []msgfilter.Rule, accounts *AccountSet, tr *Translator, report *Report) string {
	blocks := make([]string, 0, len(rules))
	for _, rule := range rules {
		blocks = append(blocks, renderRule(rule, accounts, tr, report))
	}

	// Account blocks go first but are collected last: translating a
	// "Move to folder" target may register a server of its own.
	header := make([]string, 0, len(accounts.Accounts()))
	for _, account := range accounts.Accounts() {
		header = append(header, fmt.Sprintf(accountTemplate, account.VarName, account.Server))
	}

	return strings.Join(append(header, blocks...), "\n\n") + "\n"
}

func renderRule(rule msgfilter.Rule, accounts *AccountSet, tr *Translator, report *Report) string {
	account := accounts.Ensure(rule.Account)

	var broken []string
	exprs := make([]Expr, 0, len(rule.Conditions))
	for _, cond := range rule.Conditions {
		expr, err := tr.Condition(cond)
		if err != nil {
			report.Warnf("rule %q: %v", rule.Name, err)
			broken = append(broken, err.Error())
			triple := fmt.Sprintf("%s,%s,%s", cond.Field, cond.Op, cond.Value)
			expr = MethodCall{Call: fmt.Sprintf("UNSUPPORTED('%s')", luaEscape(triple))}
		}
		exprs = append(exprs, expr)
	}

	sep := sepAnd
	if rule.Mode == msgfilter.ModeAny {
		sep = sepOr
	}
	cond := Combinator{Sep: sep, Exprs: exprs}.Render(account.VarName + ".INBOX")

	lines := []string{"msgs = " + cond}
	for _, action := range rule.Actions {
		stmt, err := tr.Action(action, accounts)
		if err != nil {
			report.Warnf("rule %q: %v", rule.Name, err)
			lines = append(lines, "-- UNSUPPORTED: "+err.Error())
			continue
		}
		lines = append(lines, "msgs:"+stmt)
	}

	body := strings.Join(lines, "\n")
	head := "-- " + rule.Name

	switch {
	case len(broken) > 0:
		notes := make([]string, 0, len(broken))
		for _, reason := range broken {
			notes = append(notes, "-- UNSUPPORTED: "+reason)
		}
		return head + "\n" + strings.Join(notes, "\n") + "\n" + commentOut(body)
	case !rule.Enabled:
		return head + "\n-- disabled in Thunderbird\n" + commentOut(body)
	}

	return head + "\n" + body
}

func commentOut(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = "-- " + line
	}
	return strings.Join(lines, "\n")
}
