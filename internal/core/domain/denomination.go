package domain

import (
	"math/big"
	"strings"
)

// Denominations is the ordered allow-list of deposit amounts, in minor units.
// Restricting deposits to a small fixed set keeps deposits of equal amount
// indistinguishable from each other; the set is configuration, not protocol.
type Denominations []*big.Int

// DefaultDenominations returns the standard allow-list used when no override
// is configured.
func DefaultDenominations() Denominations {
	return Denominations{
		big.NewInt(100),
		big.NewInt(1000),
		big.NewInt(10000),
		big.NewInt(100000),
	}
}

// Contains reports whether amount is a member of the allow-list.
func (d Denominations) Contains(amount *big.Int) bool {
	if amount == nil {
		return false
	}
	for _, v := range d {
		if v.Cmp(amount) == 0 {
			return true
		}
	}
	return false
}

// String renders the set for error messages, in order.
func (d Denominations) String() string {
	parts := make([]string, len(d))
	for i, v := range d {
		parts[i] = v.String()
	}
	return strings.Join(parts, ", ")
}

// ParseDenominations builds an allow-list from decimal strings, rejecting
// anything non-numeric or non-positive.
func ParseDenominations(values []string) (Denominations, bool) {
	if len(values) == 0 {
		return nil, false
	}
	out := make(Denominations, 0, len(values))
	for _, v := range values {
		n, ok := new(big.Int).SetString(strings.TrimSpace(v), 10)
		if !ok || n.Sign() <= 0 {
			return nil, false
		}
		out = append(out, n)
	}
	return out, true
}
