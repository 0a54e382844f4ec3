package domain

import (
	"fmt"
	"testing"
)

func TestProgressRecordAccuracy(t *testing.T) {
	tests := []struct {
		name string
		rec  ProgressRecord
		want float64
	}{
		{"no attempts", ProgressRecord{}, 0},
		{"all correct", ProgressRecord{Correct: 3}, 1},
		{"half", ProgressRecord{Correct: 1, Wrong: 1}, 0.5},
		{"mostly correct", ProgressRecord{Correct: 9, Wrong: 1}, 0.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.Accuracy(); got != tt.want {
				t.Errorf("Expected accuracy %v, got %v", tt.want, got)
			}
		})
	}
}

func TestProgressRecordWithResult(t *testing.T) {
	answer := "42"

	rec := ProgressRecord{}.WithResult(true, &answer, DefaultWrongLogSize)
	if rec.Correct != 1 || rec.Wrong != 0 {
		t.Errorf("Expected 1/0 after success, got %d/%d", rec.Correct, rec.Wrong)
	}
	if len(rec.WrongLog) != 0 {
		t.Errorf("Expected empty wrong log after success, got %v", rec.WrongLog)
	}

	rec = rec.WithResult(false, &answer, DefaultWrongLogSize)
	if rec.Wrong != 1 {
		t.Errorf("Expected 1 wrong, got %d", rec.Wrong)
	}
	if len(rec.WrongLog) != 1 || rec.WrongLog[0] != "42" {
		t.Errorf("Expected wrong log [42], got %v", rec.WrongLog)
	}

	rec = rec.WithResult(false, nil, DefaultWrongLogSize)
	if rec.Wrong != 2 {
		t.Errorf("Expected 2 wrong, got %d", rec.Wrong)
	}
	if len(rec.WrongLog) != 1 {
		t.Errorf("Expected a nil answer not to be logged, got %v", rec.WrongLog)
	}
}

func TestProgressRecordWithResultDoesNotMutate(t *testing.T) {
	answer := "x"
	orig := ProgressRecord{Correct: 1, Wrong: 1, WrongLog: []string{"a"}}

	_ = orig.WithResult(false, &answer, DefaultWrongLogSize)

	if orig.Wrong != 1 || len(orig.WrongLog) != 1 || orig.WrongLog[0] != "a" {
		t.Errorf("Expected original record to be unchanged, got %+v", orig)
	}
}

func TestProgressRecordWrongLogBound(t *testing.T) {
	rec := ProgressRecord{}
	for i := 1; i <= 7; i++ {
		answer := fmt.Sprintf("answer-%d", i)
		rec = rec.WithResult(false, &answer, DefaultWrongLogSize)
	}

	if rec.Wrong != 7 {
		t.Errorf("Expected 7 wrong, got %d", rec.Wrong)
	}
	want := []string{"answer-3", "answer-4", "answer-5", "answer-6", "answer-7"}
	if len(rec.WrongLog) != len(want) {
		t.Fatalf("Expected %d entries, got %d (%v)", len(want), len(rec.WrongLog), rec.WrongLog)
	}
	for i := range want {
		if rec.WrongLog[i] != want[i] {
			t.Errorf("Expected entry %d to be %q, got %q", i, want[i], rec.WrongLog[i])
		}
	}
	if err := rec.Validate(DefaultWrongLogSize); err != nil {
		t.Errorf("Expected bounded record to validate, got %v", err)
	}
}

func TestProgressRecordValidate(t *testing.T) {
	if err := (ProgressRecord{Correct: -1}).Validate(5); err != ErrNegativeCounter {
		t.Errorf("Expected %v, got %v", ErrNegativeCounter, err)
	}
	tooLong := ProgressRecord{WrongLog: []string{"1", "2", "3"}}
	if err := tooLong.Validate(2); err != ErrWrongLogTooLong {
		t.Errorf("Expected %v, got %v", ErrWrongLogTooLong, err)
	}
}

func TestProgressMapIsWeak(t *testing.T) {
	m := ProgressMap{
		"demo.t.half": {Correct: 1, Wrong: 1},
		"demo.t.good": {Correct: 9, Wrong: 1},
	}

	if !m.IsWeak("demo.t.half", DefaultWeakThreshold) {
		t.Error("Expected 0.5 accuracy to be weak")
	}
	if m.IsWeak("demo.t.good", DefaultWeakThreshold) {
		t.Error("Expected 0.9 accuracy not to be weak")
	}
	if m.IsWeak("demo.t.unseen", DefaultWeakThreshold) {
		t.Error("Expected an unrecorded card not to be weak")
	}
}

func TestProgressMapClone(t *testing.T) {
	m := ProgressMap{"k": {Wrong: 1, WrongLog: []string{"a"}}}
	c := m.Clone()
	rec := c["k"]
	rec.WrongLog[0] = "changed"

	if m["k"].WrongLog[0] != "a" {
		t.Errorf("Expected clone to be independent, original now %v", m["k"].WrongLog)
	}
}
