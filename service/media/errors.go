package media

import (
	"sort"
	"sync"
)

// Level is the severity of a processing error.
type Level string

const (
	LevelCritical    Level = "critical"
	LevelNotCritical Level = "not-critical"
	LevelWarning     Level = "warning"
)

// ProcessingError is one recorded problem. RowNumber is nil for batch-level errors.
type ProcessingError struct {
	Code        string `json:"code"`
	Level       Level  `json:"level"`
	RowNumber   *int   `json:"row_number,omitempty"`
	Column      string `json:"column,omitempty"`
	Message     string `json:"message"`
	Description string `json:"description,omitempty"`
}

// ErrorAggregator collects errors for the caller. It only ever grows until Clear,
// and is safe to share between concurrently processed batches.
type ErrorAggregator struct {
	mu     sync.Mutex
	errors []ProcessingError
}

func NewErrorAggregator() *ErrorAggregator {
	return &ErrorAggregator{}
}

// AddError records an error. An empty level means critical.
func (a *ErrorAggregator) AddError(code string, level Level, rowNum *int, column, message, description string) {
	if level == "" {
		level = LevelCritical
	}
	if message == "" {
		message = code
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.errors = append(a.errors, ProcessingError{
		Code:        code,
		Level:       level,
		RowNumber:   rowNum,
		Column:      column,
		Message:     message,
		Description: description,
	})
}

// Errors returns a copy in insertion order.
func (a *ErrorAggregator) Errors() []ProcessingError {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]ProcessingError, len(a.errors))
	copy(out, a.errors)
	return out
}

func (a *ErrorAggregator) Count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.errors)
}

func (a *ErrorAggregator) CountByLevel() map[Level]int {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(map[Level]int)
	for _, e := range a.errors {
		out[e.Level]++
	}
	return out
}

func (a *ErrorAggregator) HasCritical() bool {
	return a.CountByLevel()[LevelCritical] > 0
}

// ErrorsByRow groups row-scoped errors by row number. Row numbers are returned sorted.
func (a *ErrorAggregator) ErrorsByRow() ([]int, map[int][]ProcessingError) {
	a.mu.Lock()
	defer a.mu.Unlock()
	grouped := make(map[int][]ProcessingError)
	for _, e := range a.errors {
		if e.RowNumber == nil {
			continue
		}
		grouped[*e.RowNumber] = append(grouped[*e.RowNumber], e)
	}
	rows := make([]int, 0, len(grouped))
	for r := range grouped {
		rows = append(rows, r)
	}
	sort.Ints(rows)
	return rows, grouped
}

// HasToBeTerminated reports whether a critical error occurred or the error count
// exceeds allowed. A negative allowed disables the count check.
func (a *ErrorAggregator) HasToBeTerminated(allowed int) bool {
	if a.HasCritical() {
		return true
	}
	return allowed >= 0 && a.Count() > allowed
}

func (a *ErrorAggregator) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.errors = nil
}
