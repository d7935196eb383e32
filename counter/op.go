// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package counter

import "fmt"

// Op identifies the mutation reported by an [Updated] notification.
type Op uint8

const (
	OpIncrement Op = iota
	OpDecrement
)

func (o Op) String() string {
	switch o {
	case OpIncrement:
		return "increment"
	case OpDecrement:
		return "decrement"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(o))
	}
}

func ParseOp(s string) (Op, error) {
	switch s {
	case "increment":
		return OpIncrement, nil
	case "decrement":
		return OpDecrement, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidOp, s)
	}
}

func (o Op) Valid() bool {
	return o == OpIncrement || o == OpDecrement
}

func (o Op) MarshalText() ([]byte, error) {
	if !o.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidOp, uint8(o))
	}
	return []byte(o.String()), nil
}

func (o *Op) UnmarshalText(b []byte) error {
	op, err := ParseOp(string(b))
	if err != nil {
		return err
	}
	*o = op
	return nil
}
