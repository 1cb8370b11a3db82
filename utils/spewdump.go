package utils

import (
	"github.com/davecgh/go-spew/spew"
)

var spewConfig *spew.ConfigState

func init() {
	spewConfig = spew.NewDefaultConfig()
	spewConfig.DisableCapacities = true
	spewConfig.DisablePointerAddresses = true
	// Transform.String must not recurse into spew
	spewConfig.DisableMethods = true
	spewConfig.SortKeys = true
}

// SDump returns a deterministic multi-line dump of a, without pointer addresses.
func SDump(a ...interface{}) string {
	return spewConfig.Sdump(a...)
}
