// Package api serves the study service over HTTP for a single local
// learner. Handlers translate requests into StudyService calls, map
// errors to status codes and never expose raw error text to clients.
package api
