// Package sink writes the gate's two artifacts to disk.
//
// Every writer follows the same contract: given a finite slice of entries it
// writes nothing when the slice is empty, and otherwise writes all entries as
// line-delimited JSON in one atomic step (temp file, fsync, rename). The
// absence of a file therefore means "no entries", never "write failed".
package sink
