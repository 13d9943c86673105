package model

import "strings"

// lessHexPC compares two "0x"-prefixed lowercase hex PC strings by unsigned
// numeric value without parsing them into integers, since PCs routinely
// exceed the range a function's own address space needs to be widened for.
func lessHexPC(a, b string) bool {
	a = strings.TrimPrefix(a, "0x")
	b = strings.TrimPrefix(b, "0x")
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}
