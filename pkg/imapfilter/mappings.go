package imapfilter

// Mappings extends the translation tables without touching code. The file
// given with --mappings.file is unmarshalled into this; `%s` in a call or
// statement template receives the escaped condition value or action
// parameter.
type Mappings struct {
	Conditions []ConditionMapping `yaml:"conditions"`
	Actions    []ActionMapping    `yaml:"actions"`
}

type ConditionMapping struct {
	Field string `yaml:"field"`
	Op    string `yaml:"op"`
	Call  string `yaml:"call"`
}

type ActionMapping struct {
	Action    string `yaml:"action"`
	Statement string `yaml:"statement"`
}

// Effective lists the translator's template-shaped mappings, built-ins
// first, then custom entries in file order. Folder actions and the
// "all addresses" expansion are algorithmic and not listed.
func (t *Translator) Effective() Mappings {
	var out Mappings

	for _, f := range []string{"body", "subject", "from", "to", "cc", "bcc"} {
		out.Conditions = append(out.Conditions,
			ConditionMapping{Field: f, Op: "contains", Call: "contain_" + f + "('%s')"},
			ConditionMapping{Field: f, Op: "begins with", Call: "match_" + f + "('^%s.*')"},
			ConditionMapping{Field: f, Op: "ends with", Call: "match_" + f + "('.*%s$')"},
			ConditionMapping{Field: f, Op: "is", Call: "match_" + f + "('^%s$')"},
		)
	}
	out.Conditions = append(out.Conditions,
		ConditionMapping{Field: "size", Op: "is greater than", Call: "is_larger(%s)"},
		ConditionMapping{Field: "size", Op: "is less than", Call: "is_smaller(%s)"},
	)

	out.Actions = append(out.Actions,
		ActionMapping{Action: "Delete", Statement: "delete_messages()"},
		ActionMapping{Action: "Mark read", Statement: "mark_seen()"},
		ActionMapping{Action: "Mark flagged", Statement: "mark_flagged()"},
	)

	if t.extra != nil {
		out.Conditions = append(out.Conditions, t.extra.Conditions...)
		out.Actions = append(out.Actions, t.extra.Actions...)
	}

	return out
}
