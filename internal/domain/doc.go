// Package domain contains the core entities of the flashcard system: the
// generated Card record with its answer type and comparison mode, and the
// per-card ProgressRecord accumulated across study sessions. It is
// independent of any storage or presentation mechanism.
package domain
