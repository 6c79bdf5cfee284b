// Package transcribe drives per-channel decode, chunk and recognize loops and
// collects finalized utterances for every audio channel of a file.
//
// Channels are processed one at a time in ascending order, each with its own
// recognizer instance. The decode pipe of a channel is always closed before the
// next channel starts.
package transcribe
