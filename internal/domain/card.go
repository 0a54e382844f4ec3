package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DataType selects how a learner's answer is compared with a card's answer.
type DataType string

// Supported answer data types
const (
	DataTypeString DataType = "string"
	DataTypeInt    DataType = "int"
	DataTypeFloat  DataType = "float"
)

// Valid reports whether d is one of the supported data types.
func (d DataType) Valid() bool {
	switch d {
	case DataTypeString, DataTypeInt, DataTypeFloat:
		return true
	default:
		return false
	}
}

// ComparisonExact is the comparison mode that requires equality after normalization.
const ComparisonExact = "exact"

// tolerancePrefix introduces a float tolerance, as in "tol=0.01".
const tolerancePrefix = "tol="

// Comparison is the parsed form of a card's comparison string.
type Comparison struct {
	Exact     bool
	Tolerance float64
}

// ParseComparison parses "exact" or "tol=<float>". Tolerances must be
// finite and non-negative.
func ParseComparison(s string) (Comparison, error) {
	s = strings.TrimSpace(s)
	if s == ComparisonExact {
		return Comparison{Exact: true}, nil
	}
	if !strings.HasPrefix(s, tolerancePrefix) {
		return Comparison{}, fmt.Errorf("%w: %q", ErrInvalidComparison, s)
	}
	tol, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimPrefix(s, tolerancePrefix)), 64)
	if err != nil || tol < 0 || math.IsNaN(tol) || math.IsInf(tol, 0) {
		return Comparison{}, fmt.Errorf("%w: %q", ErrInvalidComparison, s)
	}
	return Comparison{Tolerance: tol}, nil
}

// String renders the comparison in its wire form.
func (c Comparison) String() string {
	if c.Exact {
		return ComparisonExact
	}
	return tolerancePrefix + strconv.FormatFloat(c.Tolerance, 'g', -1, 64)
}

// Card is a single generated question-answer unit. A Card is a value: once
// produced by a generator it is never modified, only replaced.
type Card struct {
	Name       string   `json:"name" yaml:"name"`
	Question   string   `json:"question" yaml:"question"`
	DataType   DataType `json:"data_type" yaml:"data_type"`
	Answer     any      `json:"answer" yaml:"answer"`
	Comparison string   `json:"comparison" yaml:"comparison"`
	Hint       string   `json:"hint,omitempty" yaml:"hint,omitempty"`
	Repeat     int      `json:"repeat,omitempty" yaml:"repeat,omitempty"`

	// Topic is "<folder>.<topic>" and is attached by the catalog, not by generators.
	Topic string `json:"topic" yaml:"-"`
}

// Validate checks that the card carries every required field and that its
// answer matches its data type.
func (c Card) Validate() error {
	if c.Name == "" {
		return NewValidationError("name", "is required", ErrValidation)
	}
	if c.Question == "" {
		return NewValidationError("question", "is required", ErrValidation)
	}
	if !c.DataType.Valid() {
		return NewValidationError("data_type", fmt.Sprintf("%q is not supported", c.DataType), ErrUnknownDataType)
	}
	if c.Answer == nil {
		return NewValidationError("answer", "is required", ErrValidation)
	}
	if c.Comparison == "" {
		return NewValidationError("comparison", "is required", ErrValidation)
	}
	if _, err := ParseComparison(c.Comparison); err != nil {
		return NewValidationError("comparison", "is malformed", err)
	}
	if c.Repeat < 0 {
		return NewValidationError("repeat", "must not be negative", ErrValidation)
	}

	switch c.DataType {
	case DataTypeInt:
		if _, ok := c.IntAnswer(); !ok {
			return NewValidationError("answer", "is not an integer", ErrInvalidFormat)
		}
	case DataTypeFloat:
		if _, ok := c.FloatAnswer(); !ok {
			return NewValidationError("answer", "is not a number", ErrInvalidFormat)
		}
	}

	return nil
}

// HasHint reports whether the card offers a hint.
func (c Card) HasHint() bool {
	return c.Hint != ""
}

// QualifiedID is the statistics key "<topic>.<name>".
func (c Card) QualifiedID() string {
	return QualifiedID(c.Topic, c.Name)
}

// Folder returns the folder the card's topic belongs to.
func (c Card) Folder() string {
	return FolderOf(c.Topic)
}

// FloatAnswer returns the answer as a float64. Integers and numeric strings
// are converted.
func (c Card) FloatAnswer() (float64, bool) {
	switch v := c.Answer.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		if i, ok := asInt64(v); ok {
			return float64(i), true
		}
		return 0, false
	}
}

// IntAnswer returns the answer as an int64. Floats are truncated and numeric
// strings are parsed.
func (c Card) IntAnswer() (int64, bool) {
	switch v := c.Answer.(type) {
	case float64:
		return truncate(v)
	case float32:
		return truncate(float64(v))
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		return i, err == nil
	default:
		return asInt64(v)
	}
}

// StringAnswer renders the answer as text.
func (c Card) StringAnswer() string {
	if c.Answer == nil {
		return ""
	}
	if f, ok := c.Answer.(float64); ok {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return fmt.Sprint(c.Answer)
}

func truncate(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	default:
		return 0, false
	}
}

// ParseAnswer converts a textual answer into the representation required by
// the data type. It is used by sources that only carry strings, such as
// spreadsheets.
func ParseAnswer(dt DataType, raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	switch dt {
	case DataTypeInt:
		i, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an integer", ErrInvalidFormat, raw)
		}
		return i, nil
	case DataTypeFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", ErrInvalidFormat, raw)
		}
		return f, nil
	case DataTypeString:
		return raw, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDataType, dt)
	}
}

// QualifiedID joins a topic and a card name into the statistics key.
func QualifiedID(topic, name string) string {
	return topic + "." + name
}

// FolderOf returns the first dot-separated segment of a topic identifier,
// e.g. "number_theory.chapter3" belongs to "number_theory".
func FolderOf(topic string) string {
	folder, _, _ := strings.Cut(topic, ".")
	return folder
}

// TopicID joins a folder and a topic name into a topic identifier.
func TopicID(folder, topic string) string {
	return folder + "." + topic
}
