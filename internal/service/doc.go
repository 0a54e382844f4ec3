// Package service contains the application use cases that sit between the
// presentations (HTTP API, terminal UI, CLI) and the core packages.
//
// It orchestrates the deck catalog, the progress store and the session
// engine:
//
//   - ProgressTracker applies a committed verdict to a folder's progress
//     mapping and writes the whole mapping through to the store.
//   - FolderStats and TopicPerformance derive the tabular statistics shown
//     by the presentations.
//   - StudyService owns the single active study session of the process.
//
// Services receive their dependencies through constructors and never depend
// on a concrete store implementation.
package service
