// Package store defines the persistence contract for learner progress.
// Implementations live under internal/platform: a JSON document per folder
// and a SQL table shared by all folders. Callers depend only on the
// ProgressStore interface.
package store
