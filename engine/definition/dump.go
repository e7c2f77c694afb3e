package definition

import (
	"github.com/davecgh/go-spew/spew"
)

var spewConfig *spew.ConfigState

func init() {
	spewConfig = spew.NewDefaultConfig()
	spewConfig.DisableCapacities = true
	spewConfig.DisablePointerAddresses = true
	spewConfig.SortKeys = true
}

// Dump renders values as an indented, deterministic debug string. Map keys are sorted and slice
// capacities and pointer addresses omitted, so two dumps of equal documents compare equal.
func Dump(a ...any) string {
	return spewConfig.Sdump(a...)
}
