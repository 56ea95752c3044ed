package cymru

import (
	"fmt"
	"io"

	"github.com/tbckr/asnmap/internal/output"
	"github.com/tbckr/asnmap/internal/services"
)

// Result holds the ASN origin lookup result for a single IPv4 address.
type Result struct {
	Input     string `json:"input"`
	ASN       string `json:"asn,omitempty"`
	Prefix    string `json:"prefix,omitempty"`
	Country   string `json:"country,omitempty"`
	Registry  string `json:"registry,omitempty"`
	Allocated string `json:"allocated,omitempty"`
}

var _ services.Result = (*Result)(nil)

// IsEmpty reports whether the result contains no ASN data.
func (r *Result) IsEmpty() bool {
	return r.ASN == ""
}

// WriteText renders the result as a single line.
// Format: "IP ASN / Prefix / Country / Registry / Allocated"
func (r *Result) WriteText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s %s / %s / %s / %s / %s\n",
		r.Input, r.ASN, r.Prefix, r.Country, r.Registry, r.Allocated)
	return err
}

// WriteTable renders the result as an ASCII table.
func (r *Result) WriteTable(w io.Writer) error {
	rows := [][]string{
		{"ASN", r.ASN},
		{"Prefix", r.Prefix},
		{"Country", r.Country},
		{"Registry", r.Registry},
		{"Allocated", r.Allocated},
	}
	table := output.NewWrappingTable(w, 20, 20)
	table.Header([]string{"Field", "Value"})
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

// MultiResult holds origin lookup results for multiple IPs.
type MultiResult struct {
	services.MultiResultBase[Result, *Result]
}

// WriteTable renders all results in a single table, one row per IP.
func (m *MultiResult) WriteTable(w io.Writer) error {
	rows := make([][]string, 0, len(m.Results))
	for _, r := range m.Results {
		rows = append(rows, []string{r.Input, r.ASN, r.Prefix, r.Country, r.Registry, r.Allocated})
	}
	table := output.NewWrappingTable(w, 20, 60)
	table.Header([]string{"IP", "ASN", "Prefix", "Country", "Registry", "Allocated"})
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}
