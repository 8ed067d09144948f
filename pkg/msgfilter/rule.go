// Package msgfilter parses Thunderbird msgFilterRules.dat files.
package msgfilter

// Mode says how a rule combines its conditions.
type Mode int

const (
	ModeAll Mode = iota
	ModeAny
)

func (m Mode) String() string {
	if m == ModeAny {
		return "any"
	}
	return "all"
}

type Condition struct {
	Field string
	Op    string
	Value string
}

type Action struct {
	Type  string
	Value string
}

// Rule is one filter rule in source order. Account is the IMAP server
// directory the filter file was found in.
type Rule struct {
	Name       string
	Enabled    bool
	Account    string
	Mode       Mode
	Conditions []Condition
	Actions    []Action
}
