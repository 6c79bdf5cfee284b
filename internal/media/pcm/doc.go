// Package pcm opens ffmpeg decode pipes that emit raw signed 16-bit
// little-endian mono PCM for a single audio channel of a media file.
//
// Each Stream owns one ffmpeg process. Close always terminates the process
// group and reaps it, whether or not the reader reached end-of-stream, so no
// decoder outlives the channel that opened it.
package pcm
