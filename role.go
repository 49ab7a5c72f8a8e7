// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package dvn

import (
	"fmt"
	"strings"
)

// Role describes the part played by a variable (or a factor) in a decision
// network.
type Role int

const (
	Normal   Role = iota // chance variable
	Decision             // decision node, chosen by the policy
	Utility              // utility node, its factor holds payoffs
)

var rolenames = [3]string{
	Normal:   "normal",
	Decision: "decision",
	Utility:  "utility",
}

func (r Role) String() string {
	if r < 0 || int(r) >= len(rolenames) {
		return "unknown"
	}
	return rolenames[r]
}

// ParseRole returns the Role with the given name (case insensitive). The
// empty string is Normal.
func ParseRole(s string) (Role, bool) {
	if s == "" {
		return Normal, true
	}
	s = strings.ToLower(s)
	for k, n := range rolenames {
		if n == s {
			return Role(k), true
		}
	}
	return Normal, false
}

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Role) UnmarshalText(text []byte) error {
	v, ok := ParseRole(string(text))
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownRole, text)
	}
	*r = v
	return nil
}
