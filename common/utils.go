package common

import "golang.org/x/exp/constraints"

// FirstPositive picks the first setting that is actually configured, treating zero and negative
// values as unset. Document fields fall back to configured defaults this way.
//
// Parameters:
//   - values: candidate settings in order of precedence
//
// Returns:
//   - T: the first value greater than zero, or 0 if there is none
func FirstPositive[T constraints.Integer | constraints.Float](values ...T) T {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
