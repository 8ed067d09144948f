package msgfilter

import (
	"fmt"
	"regexp"
	"strings"
)

// The condition record packs all predicates into one string, as either
// `AND (field,op,value) AND (...)` or the same with OR. The grammar is
// undocumented upstream; this mirrors what Thunderbird actually writes.
var (
	andGroups = regexp.MustCompile(`AND \((.*?,.*?,.*?)\)`)
	orGroups  = regexp.MustCompile(`OR \((.*?,.*?,.*?)\)`)
)

// Skipped describes a rule block that could not be parsed. The rest of the
// file is still converted.
type Skipped struct {
	Name   string
	Reason string
}

type Result struct {
	Rules   []Rule
	Skipped []Skipped
}

type ruleBuilder struct {
	rule         Rule
	bad          string
	hasCondition bool
}

// Parse reads the content of one msgFilterRules.dat file. account is the
// server directory the file came from. Malformed rule blocks are skipped and
// reported through Result; an error is returned only when nothing in the
// file matches the record grammar at all.
func Parse(content, account string) (*Result, error) {
	out := &Result{}
	matched := 0
	strayReported := false
	var cur *ruleBuilder

	flush := func() {
		if cur == nil {
			return
		}
		if cur.bad == "" && !cur.hasCondition {
			cur.bad = "no condition record"
		}
		if cur.bad != "" {
			out.Skipped = append(out.Skipped, Skipped{Name: cur.rule.Name, Reason: cur.bad})
		} else {
			out.Rules = append(out.Rules, cur.rule)
		}
		cur = nil
	}

	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		key, value, ok := parseRecord(line)
		if !ok {
			if cur != nil && cur.bad == "" {
				cur.bad = fmt.Sprintf("unrecognized line %q", line)
			}
			continue
		}
		matched++

		switch key {
		case "name":
			flush()
			cur = &ruleBuilder{rule: Rule{Name: value, Enabled: true, Account: account}}
		case "enabled":
			if cur != nil {
				cur.rule.Enabled = value == "yes"
			}
		case "action":
			if cur == nil {
				strayReported = reportStray(out, key, strayReported)
				continue
			}
			cur.rule.Actions = append(cur.rule.Actions, Action{Type: value})
		case "actionValue":
			if cur == nil {
				strayReported = reportStray(out, key, strayReported)
				continue
			}
			if len(cur.rule.Actions) == 0 {
				if cur.bad == "" {
					cur.bad = "actionValue record before any action"
				}
				continue
			}
			cur.rule.Actions[len(cur.rule.Actions)-1].Value = value
		case "condition":
			if cur == nil {
				strayReported = reportStray(out, key, strayReported)
				continue
			}
			mode, conds, err := parseConditions(value)
			if err != nil {
				if cur.bad == "" {
					cur.bad = err.Error()
				}
				continue
			}
			cur.rule.Mode = mode
			cur.rule.Conditions = conds
			cur.hasCondition = true
		}
		// "version", "logging", "type" and unknown keys are ignored.
	}
	flush()

	if matched == 0 {
		return nil, fmt.Errorf("no filter records found, not a msgFilterRules.dat file")
	}

	return out, nil
}

func reportStray(out *Result, key string, alreadyReported bool) bool {
	if !alreadyReported {
		out.Skipped = append(out.Skipped, Skipped{Reason: fmt.Sprintf("%s record outside a rule", key)})
	}
	return true
}

func parseConditions(s string) (Mode, []Condition, error) {
	if m := andGroups.FindAllStringSubmatch(s, -1); len(m) > 0 {
		return ModeAll, splitTriples(m), nil
	}
	if m := orGroups.FindAllStringSubmatch(s, -1); len(m) > 0 {
		return ModeAny, splitTriples(m), nil
	}
	return ModeAll, nil, fmt.Errorf("unsupported condition format %q", s)
}

func splitTriples(matches [][]string) []Condition {
	conds := make([]Condition, 0, len(matches))
	for _, m := range matches {
		parts := strings.SplitN(m[1], ",", 3)
		conds = append(conds, Condition{Field: parts[0], Op: parts[1], Value: parts[2]})
	}
	return conds
}
