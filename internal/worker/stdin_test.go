package worker_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbckr/asnmap/internal/worker"
)

func TestReadInputs(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"basic", "example.com\ngoogle.com\n", []string{"example.com", "google.com"}},
		{"trims whitespace", "  example.com  \n\tgoogle.com\t\n", []string{"example.com", "google.com"}},
		{"drops empty lines", "example.com\n\n\ngoogle.com\n", []string{"example.com", "google.com"}},
		{"drops comments", "# top sites\nexample.com\n  # trailing\n", []string{"example.com"}},
		{"no trailing newline", "8.8.8.8", []string{"8.8.8.8"}},
		{"drops repeats", "1.1.1.1\n8.8.8.8\n 1.1.1.1 \n", []string{"1.1.1.1", "8.8.8.8"}},
		{"empty", "", nil},
		{"whitespace only", "   \n\t\n  \n", nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			inputs, err := worker.ReadInputs(strings.NewReader(tc.input))
			require.NoError(t, err)
			assert.Equal(t, tc.want, inputs)
		})
	}
}
