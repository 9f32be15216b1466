package model

import (
	"strings"

	"github.com/pkg/errors"
)

// BorderPolicy decides what happens to neighbor coordinates that fall off the grid.
type BorderPolicy uint8

const (
	// Standard leaves off-grid coordinates as they are, so they never count as neighbors.
	Standard BorderPolicy = iota
	// Torus wraps off-grid coordinates around to the opposite edge.
	Torus
)

// String returns the policy name as accepted by ParseBorderPolicy
func (p BorderPolicy) String() string {
	switch p {
	case Standard:
		return "standard"
	case Torus:
		return "torus"
	default:
		return "unknown"
	}
}

// ParseBorderPolicy converts "standard" or "torus" (any case) into a BorderPolicy.
func ParseBorderPolicy(name string) (BorderPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "standard":
		return Standard, nil
	case "torus":
		return Torus, nil
	}
	return Standard, errors.Wrapf(ErrUnknownBorderPolicy, "[ParseBorderPolicy] %q", name)
}

// wrap maps v into [0, n) using floor modulo, so any offset magnitude wraps in one pass.
func wrap(v, n int) int {
	return ((v % n) + n) % n
}
