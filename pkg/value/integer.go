package value

import "math/big"

// Integer is an arbitrary-precision integer, the only numeric type the
// core supports (spec Non-goal: no wider numeric tower).
type Integer struct {
	*big.Int
}

func (*Integer) scheme() {}

// NewInt wraps a native int64 as an Integer.
func NewInt(n int64) *Integer {
	return &Integer{big.NewInt(n)}
}

// NewIntFromBig wraps an existing big.Int without copying.
func NewIntFromBig(n *big.Int) *Integer {
	return &Integer{n}
}

// IsInteger reports whether v is an Integer.
func IsInteger(v Value) bool {
	_, ok := v.(*Integer)
	return ok
}
