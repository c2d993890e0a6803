// Package subtitle parses SRT subtitle files and builds the minute-bucket
// index the Aligner searches against.
package subtitle
