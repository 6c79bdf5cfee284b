// Package scenes runs multi-threshold scene boundary sweeps over a video stream.
//
// An Engine owns a fixed, ascending threshold set and asks a Detector for the
// (start, end) boundary pairs at each sensitivity, re-indexing every list into
// 1-based Scene records. The sweep is all-or-nothing: one failing threshold
// fails the whole sweep so a Result never silently lacks a sensitivity level.
//
// Cost: FFmpegDetector decodes the full video stream once per threshold, so
// runtime grows linearly with both file duration and threshold-set size.
package scenes
