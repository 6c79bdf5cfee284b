// Package analysis sequences identity derivation, stream classification, the
// scene sweep and channel transcription for one media file and assembles the
// immutable Record consumers serialize through a Projection.
//
// Probe and scene failures abort the run without a record. Transcription
// failures are logged, reported as a degraded stage, and the record is still
// produced with every audio channel present.
package analysis
