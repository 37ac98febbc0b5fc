package orders

import (
	"fmt"
	"regexp"
	"strconv"
)

// SeedToken is issued to the very first order.
const SeedToken = "T1001"

var tokenPattern = regexp.MustCompile(`^T(\d+)$`)

// NextToken derives the next pickup token from the most recently issued
// one. ok=false means no order exists yet and the seed is returned.
//
// Issuance is read-then-write and therefore not atomic; the unique
// constraint on the orders table is what catches two callers computing
// the same value, and the lifecycle manager retries on that conflict.
func NextToken(last string, ok bool) (string, error) {
	if !ok {
		return SeedToken, nil
	}
	m := tokenPattern.FindStringSubmatch(last)
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrMalformedSequence, last)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrMalformedSequence, last)
	}
	return "T" + strconv.Itoa(n+1), nil
}
