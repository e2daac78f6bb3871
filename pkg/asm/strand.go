package asm

import "strings"

// NegateName maps a node name to the name of its opposite strand:
// "18" becomes "-18" and "-18" becomes "18".
func NegateName(name string) string {
	if rest, ok := strings.CutPrefix(name, "-"); ok {
		return rest
	}
	return "-" + name
}

// IsReverseName reports whether name denotes a reverse strand.
func IsReverseName(name string) bool {
	return strings.HasPrefix(name, "-")
}
