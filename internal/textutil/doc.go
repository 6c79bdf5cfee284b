// Package textutil provides text normalization for recognized speech and
// filename sanitization for report output.
package textutil
