// Package voxel owns the ten voxel-type enumerants and their wire tokens.
//
// Token matching is order-sensitive: "UnsignedShort" must be tested before
// "Short" because both contain the substring "Short" (and likewise for the
// other Unsigned* pairs). The registry below is an ordered table, not a
// map, so that ordering is explicit in code rather than incidental.
package voxel

import (
	"errors"
	"fmt"
	"strings"
)

// Type is one of the ten supported voxel element types.
type Type int

const (
	Byte Type = iota
	UnsignedByte
	Short
	UnsignedShort
	Int
	UnsignedInt
	Long
	UnsignedLong
	Float
	Double
)

// ErrUnknownVoxelType is returned when a header token matches none of the
// known voxel-type substrings.
var ErrUnknownVoxelType = errors.New("voxel: unknown voxel type token")

type entry struct {
	typ         Type
	name        string
	elementSize int
}

// order matters: Unsigned* variants are listed before their signed/base
// counterpart so substring matching never mistakes one for the other.
var registry = []entry{
	{UnsignedByte, "UnsignedByte", 1},
	{Byte, "Byte", 1},
	{UnsignedShort, "UnsignedShort", 2},
	{Short, "Short", 2},
	{UnsignedInt, "UnsignedInt", 4},
	{Int, "Int", 4},
	{UnsignedLong, "UnsignedLong", 8},
	{Long, "Long", 8},
	{Float, "Float", 4},
	{Double, "Double", 8},
}

// Token returns the canonical wire token for t, e.g. "UnsignedShortType".
func (t Type) Token() string {
	for _, e := range registry {
		if e.typ == t {
			return e.name + "Type"
		}
	}
	return ""
}

// ElementSize returns the byte width of one voxel of type t: 1, 2, 4, or 8.
func (t Type) ElementSize() int {
	for _, e := range registry {
		if e.typ == t {
			return e.elementSize
		}
	}
	return 0
}

// String implements fmt.Stringer for logging.
func (t Type) String() string {
	if tok := t.Token(); tok != "" {
		return tok
	}
	return fmt.Sprintf("voxel.Type(%d)", int(t))
}

// ParseToken maps a wire token (which must contain "Type", per the wire
// contract) to a voxel.Type, using order-sensitive substring matching.
func ParseToken(token string) (Type, error) {
	if !strings.Contains(token, "Type") {
		return 0, fmt.Errorf("%w: %q missing Type suffix", ErrUnknownVoxelType, token)
	}
	for _, e := range registry {
		if strings.Contains(token, e.name) {
			return e.typ, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownVoxelType, token)
}
