package services

import (
	"encoding/json"
	"io"
)

// multiItem constrains the element type stored in MultiResultBase.
type multiItem[T any] interface {
	*T
	IsEmpty() bool
	WriteText(w io.Writer) error
}

// MultiResultBase collects bulk lookup results. Embedders add WriteTable.
type MultiResultBase[T any, PT multiItem[T]] struct {
	Results []PT
}

// IsEmpty reports whether all contained results are empty.
func (m *MultiResultBase[T, PT]) IsEmpty() bool {
	for _, r := range m.Results {
		if !r.IsEmpty() {
			return false
		}
	}
	return true
}

// Found counts the results that carry data.
func (m *MultiResultBase[T, PT]) Found() int {
	n := 0
	for _, r := range m.Results {
		if !r.IsEmpty() {
			n++
		}
	}
	return n
}

// MarshalJSON serializes the multi-result as a JSON array of individual results.
func (m *MultiResultBase[T, PT]) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Results)
}

// WriteText writes all results as plain text (one record per line).
func (m *MultiResultBase[T, PT]) WriteText(w io.Writer) error {
	for _, r := range m.Results {
		if err := r.WriteText(w); err != nil {
			return err
		}
	}
	return nil
}
