package msgfilter

import "regexp"

// Every line in msgFilterRules.dat is a key="value" record.
var record = regexp.MustCompile(`^(\w+)="(.*)"$`)

func parseRecord(line string) (key, value string, ok bool) {
	m := record.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}
