// Package notify provides engine.Notifier implementations.
//
// Every reporter here receives the same real-time event stream from the
// executor and renders it differently:
//
//   - Recorder keeps the stream in memory (tests, golden files, the store).
//   - JSONStream writes one JSON object per event (machine consumers).
//   - Console prints an indented, colored tree (humans).
//   - Logging forwards events to a *slog.Logger.
//   - Progress drives a terminal progress bar.
//
// Tee fans one stream out to several reporters. All reporters implement
// engine.RunObserver so they learn the run ID and test count up front.
//
// None of the reporters is safe for concurrent use; the executor calls
// them from a single goroutine.
package notify
