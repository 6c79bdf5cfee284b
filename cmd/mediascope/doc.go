// Package main hosts the mediascope CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once, builds the analyzer from
// it, and renders analysis records either as JSON projections or as terminal
// tables. Analysis logic lives in internal/analysis; keep this package to
// flag handling and presentation.
package main
