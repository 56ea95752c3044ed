// Package report turns a finished domain ↔ ASN index into the stdout summary
// and the report files written under a path prefix.
package report

import (
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/tbckr/asnmap/internal/aggregate"
	"github.com/tbckr/asnmap/internal/output"
	"github.com/tbckr/asnmap/internal/owners"
)

// DomainRow is one domain and the ASNs hosting it, sorted.
type DomainRow struct {
	Domain string   `json:"domain"`
	ASNs   []string `json:"asns"`
}

// ASNRow is one ASN, its owner, and the domains it hosts, sorted.
type ASNRow struct {
	ASN     string   `json:"asn"`
	Owner   string   `json:"owner,omitempty"`
	Domains []string `json:"domains"`
}

// Summary is an immutable view of an analysis run.
type Summary struct {
	// Domains is in registration (rank) order.
	Domains []DomainRow
	// ASNs is sorted by domain count descending, then by ASN.
	ASNs []ASNRow
}

// Build snapshots idx. names may be nil.
func Build(idx *aggregate.Index, names owners.Table) *Summary {
	byDomain := idx.DomainASNs()
	byASN := idx.ASNDomains()

	s := &Summary{
		Domains: make([]DomainRow, 0, len(byDomain)),
		ASNs:    make([]ASNRow, 0, len(byASN)),
	}
	for _, d := range idx.Domains() {
		s.Domains = append(s.Domains, DomainRow{Domain: d, ASNs: byDomain[d]})
	}
	for asn, domains := range byASN {
		s.ASNs = append(s.ASNs, ASNRow{ASN: asn, Owner: names.Name(asn), Domains: domains})
	}
	slices.SortFunc(s.ASNs, func(a, b ASNRow) int {
		if c := cmp.Compare(len(b.Domains), len(a.Domains)); c != 0 {
			return c
		}
		return aggregate.CompareASN(a.ASN, b.ASN)
	})
	return s
}

// Unresolved returns the domains that mapped to no ASN, in rank order.
func (s *Summary) Unresolved() []string {
	var out []string
	for _, d := range s.Domains {
		if len(d.ASNs) == 0 {
			out = append(out, d.Domain)
		}
	}
	return out
}

// IsEmpty reports whether no domain mapped to any ASN.
func (s *Summary) IsEmpty() bool { return len(s.ASNs) == 0 }

// MarshalJSON emits both directions of the mapping.
func (s *Summary) MarshalJSON() ([]byte, error) {
	domainASNs := make(map[string][]string, len(s.Domains))
	for _, d := range s.Domains {
		domainASNs[d.Domain] = d.ASNs
	}
	asnDomains := make(map[string][]string, len(s.ASNs))
	for _, a := range s.ASNs {
		asnDomains[a.ASN] = a.Domains
	}
	return json.Marshal(struct {
		DomainASNs map[string][]string `json:"domain_asns"`
		ASNDomains map[string][]string `json:"asn_domains"`
		ASNs       []ASNRow            `json:"asns"`
		Unresolved []string            `json:"unresolved"`
	}{domainASNs, asnDomains, s.ASNs, orEmpty(s.Unresolved())})
}

// WriteText writes one line per domain: the domain followed by its ASNs.
func (s *Summary) WriteText(w io.Writer) error {
	for _, d := range s.Domains {
		line := d.Domain
		if len(d.ASNs) > 0 {
			line += " " + strings.Join(d.ASNs, " ")
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// WriteTable renders one row per (ASN, domain) with the ASN columns merged.
func (s *Summary) WriteTable(w io.Writer) error {
	var rows [][]string
	for _, a := range s.ASNs {
		count := strconv.Itoa(len(a.Domains))
		for _, d := range a.Domains {
			rows = append(rows, []string{a.ASN, a.Owner, count, d})
		}
	}
	table := output.NewGroupedWrappingTable(w, 20, 40)
	table.Header([]string{"ASN", "Owner", "Sites", "Domain"})
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
