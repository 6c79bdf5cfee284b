// Package services defines shared utilities consumed by the analysis stages and
// the external tool wrappers.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, stage names, audio channels, and scene
//     thresholds for logging and tracing.
//   - Structured error markers plus the Wrap helper that let the orchestrator
//     tell structural failures (probe, scene sweep) from enrichment failures
//     (transcription).
//
// Use these helpers when wiring new stage logic so operational behaviour (error
// classification, observability) stays uniform across the pipeline.
package services
