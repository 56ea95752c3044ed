// Package ranking loads a ranked domain list ("rank,domain" CSV rows, as in
// the Alexa and Tranco top-1m files) from a file, stdin, or an HTTP(S) URL.
package ranking

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/imroc/req/v3"

	"github.com/tbckr/asnmap/internal/apperr"
)

// Entry is one row of a ranking list.
type Entry struct {
	Rank   int    `json:"rank"`
	Domain string `json:"domain"`
}

// Source opens ranking locations. "-" reads Stdin, http:// and https://
// locations are fetched with HTTP, anything else is a file path.
type Source struct {
	HTTP  *req.Client
	Stdin io.Reader
}

// Open returns a reader for location. The caller must close it.
func (s Source) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	switch {
	case location == "":
		return nil, fmt.Errorf("%w: no ranking input given", apperr.ErrConfiguration)
	case location == "-":
		if s.Stdin == nil {
			return nil, fmt.Errorf("%w: stdin is not available", apperr.ErrConfiguration)
		}
		return io.NopCloser(s.Stdin), nil
	case strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://"):
		return s.fetch(ctx, location)
	}
	f, err := os.Open(location)
	if err != nil {
		return nil, fmt.Errorf("%w: opening ranking file: %w", apperr.ErrConfiguration, err)
	}
	return f, nil
}

func (s Source) fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	if s.HTTP == nil {
		return nil, fmt.Errorf("%w: no HTTP client for %s", apperr.ErrConfiguration, url)
	}
	resp, err := s.HTTP.R().
		SetContext(ctx).
		DisableAutoReadResponse().
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching %s: %w", apperr.ErrRequestFailed, url, err)
	}
	if !resp.IsSuccessState() {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%w: fetching %s: HTTP %d", apperr.ErrRequestFailed, url, resp.StatusCode)
	}
	return resp.Body, nil
}

// Load opens location through src and parses at most threshold entries.
func Load(ctx context.Context, src Source, location string, threshold int) ([]Entry, error) {
	if threshold <= 0 {
		return nil, fmt.Errorf("%w: threshold must be positive, got %d", apperr.ErrConfiguration, threshold)
	}
	rc, err := src.Open(ctx, location)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return Parse(rc, threshold)
}

// Parse reads up to threshold entries from r.
//
// Each row is "rank,domain"; a row with a single column is a bare domain
// whose rank is its position. A leading header row (non-numeric rank) is
// skipped. Blank lines are ignored. A list shorter than threshold is not an error.
func Parse(r io.Reader, threshold int) ([]Entry, error) {
	if threshold <= 0 {
		return nil, fmt.Errorf("%w: threshold must be positive, got %d", apperr.ErrConfiguration, threshold)
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	var entries []Entry
	for row := 1; len(entries) < threshold; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: ranking row %d: %w", apperr.ErrInvalidInput, row, err)
		}
		line, _ := cr.FieldPos(0)

		if len(rec) == 1 {
			domain := strings.TrimSpace(rec[0])
			if domain == "" {
				continue
			}
			entries = append(entries, Entry{Rank: len(entries) + 1, Domain: domain})
			continue
		}

		rank, err := strconv.Atoi(strings.TrimSpace(rec[0]))
		if err != nil {
			if len(entries) == 0 && row == 1 {
				continue
			}
			return nil, fmt.Errorf("%w: line %d: rank %q is not a number", apperr.ErrInvalidInput, line, rec[0])
		}
		domain := strings.TrimSpace(rec[1])
		if domain == "" {
			return nil, fmt.Errorf("%w: line %d: empty domain", apperr.ErrInvalidInput, line)
		}
		entries = append(entries, Entry{Rank: rank, Domain: domain})
	}
	return entries, nil
}

// Domains returns the domain column of entries, in order.
func Domains(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Domain
	}
	return out
}
