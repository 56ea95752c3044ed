// Package owners loads the ASN → owner name table used to label reports.
package owners

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tbckr/asnmap/internal/apperr"
	"github.com/tbckr/asnmap/internal/services/asn"
	"github.com/tbckr/asnmap/internal/worker"
)

// Table maps an ASN identifier to its owner name.
type Table map[string]string

// Load reads the owner table at path. An empty path yields an empty table.
func Load(path string) (Table, error) {
	if path == "" {
		return Table{}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening ASN owner file: %w", apperr.ErrConfiguration, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads whitespace-separated "id name" lines. Lines with fewer than two
// fields are skipped. Only the second field is kept as the name.
func Parse(r io.Reader) (Table, error) {
	t := Table{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 2 {
			continue
		}
		t[fields[0]] = fields[1]
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading ASN owner table: %w", err)
	}
	return t, nil
}

// Name returns the owner of asn, trying both "15169" and "AS15169" forms.
// It returns "" when the ASN is unknown.
func (t Table) Name(asn string) string {
	if name, ok := t[asn]; ok {
		return name
	}
	if strings.HasPrefix(asn, "AS") {
		return t[strings.TrimPrefix(asn, "AS")]
	}
	return t["AS"+asn]
}

// Describer looks up the registered description of an ASN.
type Describer interface {
	Run(ctx context.Context, asn string) (*asn.Result, error)
}

// Fill looks up every ASN in asns that t cannot name and stores the owner
// handle found. It returns how many names were added.
func (t Table) Fill(ctx context.Context, d Describer, asns []string, concurrency int) int {
	var missing []string
	for _, a := range asns {
		if t.Name(a) == "" {
			missing = append(missing, a)
		}
	}
	results := worker.Run(ctx, missing, concurrency, d.Run)
	added := 0
	for _, r := range results {
		if r.Err != nil || r.Output == nil {
			continue
		}
		if owner := r.Output.Owner(); owner != "" {
			t[r.Input] = owner
			added++
		}
	}
	return added
}
