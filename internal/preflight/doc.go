// Package preflight provides readiness checks for the filesystem paths and
// recognizer model mediascope depends on.
//
// The CLI "deps" command prints every result; "analyze --write" runs the report
// directory check before the first file so a bad path fails fast.
// Checks for disabled stages are skipped.
package preflight
