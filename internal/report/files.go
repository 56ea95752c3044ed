package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/tbckr/asnmap/internal/appdir"
)

// File suffixes appended to the report prefix.
const (
	SuffixDomains  = ".txt"
	SuffixASNs     = ".csv"
	SuffixSiteHist = "_site_hist.txt"
	SuffixASNHist  = "_asn_hist.txt"
	SuffixSitePlot = "_site_hist.png"
	SuffixASNPlot  = "_asn_hist.png"
)

// WriteFiles writes the report files for prefix and returns their paths.
func WriteFiles(prefix string, s *Summary) ([]string, error) {
	if prefix == "" {
		return nil, errors.New("empty report prefix")
	}
	if err := appdir.EnsureParent(prefix, 0o755); err != nil {
		return nil, err
	}
	site, asns := s.SiteHistogram(), s.ASNHistogram()
	files := []struct {
		suffix string
		write  func(io.Writer) error
	}{
		{SuffixDomains, s.WriteText},
		{SuffixASNs, s.WriteCSV},
		{SuffixSiteHist, site.WriteTable},
		{SuffixASNHist, asns.WriteTable},
		{SuffixSitePlot, site.WritePNG},
		{SuffixASNPlot, asns.WritePNG},
	}
	paths := make([]string, 0, len(files))
	for _, f := range files {
		path := prefix + f.suffix
		if err := writeFile(path, f.write); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()
	if err := write(f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// WriteCSV writes one row per ASN: asn, owner, site count, space-joined domains.
func (s *Summary) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"asn", "owner", "site_count", "domains"}); err != nil {
		return err
	}
	for _, a := range s.ASNs {
		rec := []string{a.ASN, a.Owner, strconv.Itoa(len(a.Domains)), strings.Join(a.Domains, " ")}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
