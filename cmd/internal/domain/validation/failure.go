// Package validation checks referrer and referral writes before they reach
// the store. Checks never write; a rejected write leaves the sheet untouched.
package validation

import "fmt"

type Kind int

const (
	// KindInvalid means the submitted data breaks a field rule or invariant.
	KindInvalid Kind = iota
	// KindConflict means the data collides with existing rows.
	KindConflict
)

// Failure is a structured rejection: which field and why.
type Failure struct {
	Kind   Kind
	Field  string
	Reason string
}

func (f *Failure) Error() string {
	if f.Field == "" {
		return f.Reason
	}
	return fmt.Sprintf("%s: %s", f.Field, f.Reason)
}

func invalid(field, reason string) *Failure {
	return &Failure{Kind: KindInvalid, Field: field, Reason: reason}
}

func conflict(field, reason string) *Failure {
	return &Failure{Kind: KindConflict, Field: field, Reason: reason}
}
