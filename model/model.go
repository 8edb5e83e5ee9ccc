package model

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// GenerateUUIDWithSuffix generates a UUID with a given module name as a prefix,
// e.g. "acc_8a1f...". Identifiers carry their entity type this way.
func GenerateUUIDWithSuffix(module string) string {
	id := uuid.New()
	return fmt.Sprintf("%s_%s", module, id.String())
}

// SafeBalance normalizes a balance value read from storage. The backing store can
// hand back NULLs or junk that scans as NaN/Inf; those coerce to zero so a bad
// document never poisons a summation.
func SafeBalance(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
