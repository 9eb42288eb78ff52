// Package watch re-runs the filter pass whenever one of its input files
// changes. Events are debounced, runs never overlap, and each run prints a
// status line with the change in counts since the previous run.
package watch
