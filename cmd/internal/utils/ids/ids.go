// Package ids builds the human-readable record identifiers stored in the
// sheet (IND_0001, INC_0042).
//
// Callers derive seq from the current row count plus one, so two concurrent
// creates can compute the same id. Writes are expected to come from a single
// instance at low volume.
package ids

import "fmt"

const (
	PrefixIndicador = "IND"
	PrefixIndicacao = "INC"
)

// Next formats seq zero-padded to four digits. Larger sequences simply
// grow wider.
func Next(prefix string, seq int) string {
	return fmt.Sprintf("%s_%04d", prefix, seq)
}
