// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: the typed subset of stream properties mediascope inspects
//   - Entry: one probe report entry (type-hinted key plus the raw attribute map)
//
// Primary entry points:
//   - Inspect: executes ffprobe and returns parsed Result
//   - Prober: a configured binary satisfying the analyzer's prober contract
//
// Helper methods on Result provide stream counts, duration parsing, and the
// ordered entry list consumed by the stream classifier.
package ffprobe
