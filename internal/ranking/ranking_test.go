package ranking_test

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/imroc/req/v3"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbckr/asnmap/internal/apperr"
	"github.com/tbckr/asnmap/internal/ranking"
)

const top = "1,google.com\n2,youtube.com\n3,facebook.com\n4,baidu.com\n"

func TestParse_Threshold(t *testing.T) {
	entries, err := ranking.Parse(strings.NewReader(top), 2)
	require.NoError(t, err)
	assert.Equal(t, []ranking.Entry{{Rank: 1, Domain: "google.com"}, {Rank: 2, Domain: "youtube.com"}}, entries)
	assert.Equal(t, []string{"google.com", "youtube.com"}, ranking.Domains(entries))
}

func TestParse_ShorterThanThreshold(t *testing.T) {
	entries, err := ranking.Parse(strings.NewReader(top), 500)
	require.NoError(t, err)
	assert.Len(t, entries, 4)
}

func TestParse_Formats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []ranking.Entry
	}{
		{"header row skipped", "rank,domain\n1,a.com\n", []ranking.Entry{{1, "a.com"}}},
		{"crlf and spaces", "1, a.com\r\n2 ,b.com \r\n", []ranking.Entry{{1, "a.com"}, {2, "b.com"}}},
		{"blank lines", "\n1,a.com\n\n\n2,b.com\n", []ranking.Entry{{1, "a.com"}, {2, "b.com"}}},
		{"bare domains", "a.com\nb.com\n", []ranking.Entry{{1, "a.com"}, {2, "b.com"}}},
		{"extra columns ignored", "7,a.com,extra\n", []ranking.Entry{{7, "a.com"}}},
		{"empty", "", nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			entries, err := ranking.Parse(strings.NewReader(tc.input), 10)
			require.NoError(t, err)
			assert.Equal(t, tc.want, entries)
		})
	}
}

func TestParse_InvalidRows(t *testing.T) {
	for name, input := range map[string]string{
		"non-numeric rank after data": "1,a.com\nx,b.com\n",
		"empty domain":                "1,\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ranking.Parse(strings.NewReader(input), 10)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperr.ErrInvalidInput)
		})
	}
}

func TestParse_NonPositiveThreshold(t *testing.T) {
	for _, n := range []int{0, -1} {
		_, err := ranking.Parse(strings.NewReader(top), n)
		assert.ErrorIs(t, err, apperr.ErrConfiguration)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "top-1m.csv")
	require.NoError(t, os.WriteFile(path, []byte(top), 0o600))

	entries, err := ranking.Load(context.Background(), ranking.Source{}, path, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"google.com", "youtube.com", "facebook.com"}, ranking.Domains(entries))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := ranking.Load(context.Background(), ranking.Source{}, filepath.Join(t.TempDir(), "nope.csv"), 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrConfiguration)
}

func TestLoad_Stdin(t *testing.T) {
	src := ranking.Source{Stdin: strings.NewReader(top)}
	entries, err := ranking.Load(context.Background(), src, "-", 1)
	require.NoError(t, err)
	assert.Equal(t, []ranking.Entry{{Rank: 1, Domain: "google.com"}}, entries)
}

func TestLoad_NoLocation(t *testing.T) {
	_, err := ranking.Load(context.Background(), ranking.Source{}, "", 1)
	assert.ErrorIs(t, err, apperr.ErrConfiguration)
}

func TestLoad_ThresholdCheckedFirst(t *testing.T) {
	// No file exists and no client is set: the threshold error must win.
	_, err := ranking.Load(context.Background(), ranking.Source{}, "https://example.invalid/top.csv", 0)
	require.ErrorIs(t, err, apperr.ErrConfiguration)
	assert.Contains(t, err.Error(), "threshold")
}

func newTestClient(t *testing.T) *req.Client {
	t.Helper()
	client := req.NewClient()
	httpmock.ActivateNonDefault(client.GetClient())
	t.Cleanup(httpmock.DeactivateAndReset)
	return client
}

func TestLoad_HTTP(t *testing.T) {
	client := newTestClient(t)
	httpmock.RegisterResponder(http.MethodGet, "https://tranco-list.eu/top-1m.csv",
		httpmock.NewStringResponder(http.StatusOK, top))
	httpmock.RegisterResponder(http.MethodGet, "https://tranco-list.eu/missing.csv",
		httpmock.NewStringResponder(http.StatusNotFound, "not found"))

	src := ranking.Source{HTTP: client}
	entries, err := ranking.Load(context.Background(), src, "https://tranco-list.eu/top-1m.csv", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"google.com", "youtube.com"}, ranking.Domains(entries))

	_, err = ranking.Load(context.Background(), src, "https://tranco-list.eu/missing.csv", 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrRequestFailed)
	assert.Contains(t, err.Error(), "HTTP 404")
}

func TestLoad_HTTPTransportError(t *testing.T) {
	client := newTestClient(t)
	httpmock.RegisterResponder(http.MethodGet, "https://tranco-list.eu/top-1m.csv",
		httpmock.NewErrorResponder(errors.New("connection refused")))

	_, err := ranking.Load(context.Background(), ranking.Source{HTTP: client}, "https://tranco-list.eu/top-1m.csv", 2)
	assert.ErrorIs(t, err, apperr.ErrRequestFailed)
}
