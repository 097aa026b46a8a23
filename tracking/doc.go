// Package tracking records evaluation runs, metrics, and result tables.
//
// A Run is opened with StartRun, written to while it is running, and
// frozen by FinishRun. The Client implementation talks to a tracking
// server over JSON HTTP; MemoryTracker keeps everything in process for
// tests and offline evaluation.
package tracking
