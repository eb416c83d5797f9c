// Package file provides the JSON-file implementation of driven.RecordStore.
//
// The collection lives in a single indented JSON array. Every LoadAll reads
// the whole file and every SaveAll rewrites it; nothing is cached between
// calls. Writes go to a temporary file in the same directory which is then
// renamed over the target, so a crash mid-write leaves the previous
// collection intact instead of a truncated file.
//
// The package also provides a Watcher that reports changes to the file made
// by other processes (or other stores pointed at the same path).
package file
