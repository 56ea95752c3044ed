// Package asn describes autonomous systems (owner name, country, registry)
// via the Team Cymru AS<number>.asn.cymru.com TXT records.
package asn

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/miekg/dns"

	"github.com/tbckr/asnmap/internal/output"
	"github.com/tbckr/asnmap/internal/records"
	"github.com/tbckr/asnmap/internal/services"
)

const (
	// Name is the service identifier.
	Name = "asn"
	// DefaultZone is the Team Cymru zone for ASN → description lookups.
	DefaultZone = "asn.cymru.com"
)

// Service performs ASN description lookups.
type Service struct {
	querier services.Querier
	server  string
	zone    string
	logger  *slog.Logger
}

// NewService creates an ASN service that queries zone through server.
// An empty zone falls back to DefaultZone.
func NewService(querier services.Querier, server, zone string, logger *slog.Logger) *Service {
	if zone == "" {
		zone = DefaultZone
	}
	return &Service{querier: querier, server: server, zone: strings.TrimSuffix(zone, "."), logger: logger}
}

// Name returns the service identifier.
func (s *Service) Name() string { return Name }

// AggregateResults combines multiple results into a MultiResult.
func (s *Service) AggregateResults(results []*Result) *MultiResult {
	mr := &MultiResult{}
	mr.Results = append(mr.Results, results...)
	return mr
}

// Run describes asn, given as "15169" or "AS15169".
// A failed query or unusable answer yields a Result with no Description.
func (s *Service) Run(ctx context.Context, asn string) (*Result, error) {
	num, ok := Normalize(asn)
	if !ok {
		return nil, fmt.Errorf("%w: must be an ASN (e.g. AS15169 or 15169): %q", services.ErrInvalidInput, asn)
	}
	result := &Result{Input: asn, ASN: num}
	query := "AS" + num + "." + s.zone

	lines, err := s.querier.Query(ctx, s.server, query, dns.TypeTXT)
	if err != nil {
		s.logger.Debug("ASN description lookup failed", "asn", num, "error", err)
		return result, nil
	}
	fields, err := records.ParseFields(lines)
	if err != nil {
		if !errors.Is(err, services.ErrParseMiss) {
			return nil, err
		}
		s.logger.Debug("ASN description answer unusable", "asn", num, "error", err)
		return result, nil
	}

	// "15169 | US | arin | 2000-03-30 | GOOGLE, US"
	get := func(i int) string {
		if i < len(fields) {
			return output.Sanitize(fields[i])
		}
		return ""
	}
	result.Country = get(1)
	result.Registry = get(2)
	result.Allocated = get(3)
	result.Description = get(4)
	return result, nil
}

// Normalize strips an optional "AS" prefix (any case) and reports whether
// the rest is a non-empty decimal number.
func Normalize(asn string) (string, bool) {
	num := asn
	if len(num) >= 2 && strings.EqualFold(num[:2], "AS") {
		num = num[2:]
	}
	if num == "" {
		return "", false
	}
	for _, c := range num {
		if c < '0' || c > '9' {
			return "", false
		}
	}
	return num, true
}
