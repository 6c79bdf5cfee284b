// Package speech defines the recognizer contract consumed by the channel
// transcriber and parses the recognizer's structured results.
//
// The Vosk backend requires cgo and the "vosk" build tag. Default builds link a
// stub whose loader always fails, which the transcriber reports as a
// transcription error.
package speech
