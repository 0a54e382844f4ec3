package service

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/phrazzld/procknow/internal/domain"
)

// SortKey selects the column statistics rows are ordered by.
type SortKey string

// Supported sort keys
const (
	SortByName     SortKey = "name"
	SortByCorrect  SortKey = "correct"
	SortByWrong    SortKey = "wrong"
	SortByAccuracy SortKey = "accuracy"
)

// PreviewLength is the number of characters of a joined wrong log shown in
// a statistics row before it is cut off.
const PreviewLength = 80

// ParseSortKey parses a sort column name. The empty string selects accuracy.
func ParseSortKey(s string) (SortKey, error) {
	switch key := SortKey(strings.ToLower(strings.TrimSpace(s))); key {
	case "":
		return SortByAccuracy, nil
	case SortByName, SortByCorrect, SortByWrong, SortByAccuracy:
		return key, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSortKey, s)
	}
}

// StatsRow is one card identity in a statistics table.
type StatsRow struct {
	Key      string   `json:"key"`
	Correct  int      `json:"correct"`
	Wrong    int      `json:"wrong"`
	Accuracy float64  `json:"accuracy"` // percent
	Preview  string   `json:"wrong_log_preview"`
	WrongLog []string `json:"wrong_log"`
}

// FolderStats summarizes a folder's progress mapping.
type FolderStats struct {
	Folder   string     `json:"folder"`
	Total    int        `json:"total"`
	Accuracy float64    `json:"accuracy"` // percent over all attempts
	Rows     []StatsRow `json:"rows"`
}

// ComputeFolderStats builds the statistics table of a folder, ordered by
// sortKey. Ties are broken by key so the order is stable.
func ComputeFolderStats(folder string, m domain.ProgressMap, sortKey SortKey, desc bool) FolderStats {
	var correct, wrong int
	rows := make([]StatsRow, 0, len(m))
	for key, rec := range m {
		correct += rec.Correct
		wrong += rec.Wrong
		rows = append(rows, newStatsRow(key, rec))
	}

	slices.SortFunc(rows, func(a, b StatsRow) int {
		c := compareRows(a, b, sortKey)
		if desc {
			c = -c
		}
		if c == 0 {
			c = cmp.Compare(a.Key, b.Key)
		}
		return c
	})

	return FolderStats{
		Folder:   folder,
		Total:    len(m),
		Accuracy: percent(correct, wrong),
		Rows:     rows,
	}
}

// TopicPerformance returns the rows of one topic ("<folder>.<topic>"),
// ordered by key.
func TopicPerformance(topic string, m domain.ProgressMap) []StatsRow {
	prefix := topic + "."
	rows := []StatsRow{}
	for key, rec := range m {
		if strings.HasPrefix(key, prefix) {
			rows = append(rows, newStatsRow(key, rec))
		}
	}
	slices.SortFunc(rows, func(a, b StatsRow) int { return cmp.Compare(a.Key, b.Key) })
	return rows
}

// PreviewWrongLog joins a wrong log and cuts it to PreviewLength characters.
func PreviewWrongLog(log []string) string {
	joined := strings.Join(log, ", ")
	runes := []rune(joined)
	if len(runes) <= PreviewLength {
		return joined
	}
	return string(runes[:PreviewLength]) + " ..."
}

func newStatsRow(key string, rec domain.ProgressRecord) StatsRow {
	wrongLog := slices.Clone(rec.WrongLog)
	if wrongLog == nil {
		wrongLog = []string{}
	}
	return StatsRow{
		Key:      key,
		Correct:  rec.Correct,
		Wrong:    rec.Wrong,
		Accuracy: percent(rec.Correct, rec.Wrong),
		Preview:  PreviewWrongLog(rec.WrongLog),
		WrongLog: wrongLog,
	}
}

func compareRows(a, b StatsRow, key SortKey) int {
	switch key {
	case SortByName:
		return cmp.Compare(a.Key, b.Key)
	case SortByCorrect:
		return cmp.Compare(a.Correct, b.Correct)
	case SortByWrong:
		return cmp.Compare(a.Wrong, b.Wrong)
	default:
		return cmp.Compare(a.Accuracy, b.Accuracy)
	}
}

func percent(correct, wrong int) float64 {
	if correct+wrong == 0 {
		return 0
	}
	return float64(correct) / float64(correct+wrong) * 100
}
