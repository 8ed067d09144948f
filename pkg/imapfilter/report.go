package imapfilter

import "fmt"

// Report accumulates everything that needs manual attention after the
// conversion. It is passed through the pipeline and handed back to the
// caller instead of being printed from the middle of it.
type Report struct {
	warnings []string
}

func NewReport() *Report {
	return &Report{}
}

func (r *Report) Warnf(format string, args ...interface{}) {
	r.warnings = append(r.warnings, fmt.Sprintf(format, args...))
}

func (r *Report) Warnings() []string {
	return r.warnings
}
