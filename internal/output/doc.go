// Package output provides the destinations tokfilter writes to: filtered
// token files, the re-encoded metadata file, and the report stream.
//
// Every destination implements [Writer]. [FileWriter] creates parent
// directories and opens the file only for the duration of one Write call.
// [StdoutWriter] sends bytes to an arbitrary stream, and [DryRunWriter]
// only logs what would have been written.
package output
