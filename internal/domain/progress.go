package domain

import (
	"errors"
	"slices"
)

// DefaultWrongLogSize is how many recent incorrect answers a record keeps.
const DefaultWrongLogSize = 5

// DefaultWeakThreshold is the accuracy below which a card counts as weak.
const DefaultWeakThreshold = 0.75

// Common validation errors for ProgressRecord
var (
	ErrNegativeCounter = errors.New("progress counters cannot be negative")
	ErrWrongLogTooLong = errors.New("wrong log exceeds retention")
)

// ProgressRecord tracks a learner's accumulated results for one card
// identity. It is treated as a value: updates return a new record.
type ProgressRecord struct {
	Correct  int      `json:"correct"`
	Wrong    int      `json:"wrong"`
	WrongLog []string `json:"wrong_log"`
}

// Accuracy is correct/(correct+wrong), or 0 for a record without attempts.
func (r ProgressRecord) Accuracy() float64 {
	total := r.Correct + r.Wrong
	if total == 0 {
		return 0
	}
	return float64(r.Correct) / float64(total)
}

// Attempts is the total number of recorded results.
func (r ProgressRecord) Attempts() int {
	return r.Correct + r.Wrong
}

// WithResult returns a copy of r with one more result applied. On failure a
// non-nil answer is appended to the wrong log, which is then truncated to
// the most recent keep entries.
func (r ProgressRecord) WithResult(success bool, answer *string, keep int) ProgressRecord {
	next := ProgressRecord{
		Correct:  r.Correct,
		Wrong:    r.Wrong,
		WrongLog: slices.Clone(r.WrongLog),
	}
	if next.WrongLog == nil {
		next.WrongLog = []string{}
	}

	if success {
		next.Correct++
		return next
	}

	next.Wrong++
	if answer != nil {
		next.WrongLog = append(next.WrongLog, *answer)
	}
	if keep > 0 && len(next.WrongLog) > keep {
		next.WrongLog = slices.Clone(next.WrongLog[len(next.WrongLog)-keep:])
	}
	return next
}

// Validate checks the record's counters and wrong log length.
func (r ProgressRecord) Validate(keep int) error {
	if r.Correct < 0 || r.Wrong < 0 {
		return ErrNegativeCounter
	}
	if keep > 0 && len(r.WrongLog) > keep {
		return ErrWrongLogTooLong
	}
	return nil
}

// ProgressMap holds every record of one folder keyed by qualified identity.
type ProgressMap map[string]ProgressRecord

// Clone returns a deep copy of m.
func (m ProgressMap) Clone() ProgressMap {
	out := make(ProgressMap, len(m))
	for k, rec := range m {
		rec.WrongLog = slices.Clone(rec.WrongLog)
		out[k] = rec
	}
	return out
}

// IsWeak reports whether the card identity has a record with accuracy below
// threshold. Identities without a record are never weak.
func (m ProgressMap) IsWeak(key string, threshold float64) bool {
	rec, ok := m[key]
	if !ok {
		return false
	}
	return rec.Accuracy() < threshold
}
