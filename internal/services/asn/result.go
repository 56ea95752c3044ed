package asn

import (
	"fmt"
	"io"
	"strings"

	"github.com/tbckr/asnmap/internal/output"
	"github.com/tbckr/asnmap/internal/services"
)

// Result holds the description of one ASN.
type Result struct {
	Input       string `json:"input"`
	ASN         string `json:"asn"`
	Country     string `json:"country,omitempty"`
	Registry    string `json:"registry,omitempty"`
	Allocated   string `json:"allocated,omitempty"`
	Description string `json:"description,omitempty"`
}

var _ services.Result = (*Result)(nil)

// IsEmpty reports whether no description was found.
func (r *Result) IsEmpty() bool { return r.Description == "" }

// Owner returns the short owner handle: the description up to the first
// space or comma ("GOOGLE, US" → "GOOGLE").
func (r *Result) Owner() string {
	owner, _, _ := strings.Cut(r.Description, ",")
	owner, _, _ = strings.Cut(strings.TrimSpace(owner), " ")
	return owner
}

// WriteText renders "AS<asn> description".
func (r *Result) WriteText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "AS%s %s\n", r.ASN, r.Description)
	return err
}

// WriteTable renders the result as a field/value table.
func (r *Result) WriteTable(w io.Writer) error {
	rows := [][]string{
		{"ASN", r.ASN},
		{"Description", r.Description},
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

// MultiResult holds descriptions for multiple ASNs.
type MultiResult struct {
	services.MultiResultBase[Result, *Result]
}

// WriteTable renders one row per ASN.
func (m *MultiResult) WriteTable(w io.Writer) error {
	rows := make([][]string, 0, len(m.Results))
	for _, r := range m.Results {
		rows = append(rows, []string{r.ASN, r.Description, r.Country, r.Registry, r.Allocated})
	}
	table := output.NewWrappingTable(w, 20, 50)
	table.Header([]string{"ASN", "Description", "Country", "Registry", "Allocated"})
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}
