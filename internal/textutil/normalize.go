package textutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeText composes value to NFC and collapses runs of whitespace to a
// single space.
func NormalizeText(value string) string {
	return strings.Join(strings.Fields(norm.NFC.String(value)), " ")
}
