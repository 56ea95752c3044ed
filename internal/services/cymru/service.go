// Package cymru maps IPv4 addresses to their origin ASN via the Team Cymru
// DNS service.
package cymru

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
	"github.com/tbckr/asnmap/internal/validate"
)

const (
	// Name is the service identifier.
	Name = "cymru"
	// DefaultZone is the Team Cymru zone for IPv4 → origin ASN lookups.
	DefaultZone = "origin.asn.cymru.com"
)

// Service performs TXT-based origin ASN lookups.
type Service struct {
	querier services.Querier
	server  string
	zone    string
	logger  *slog.Logger
}

// NewService creates a Cymru service that queries zone through server (host:port).
// An empty zone falls back to DefaultZone.
func NewService(querier services.Querier, server, zone string, logger *slog.Logger) *Service {
	if zone == "" {
		zone = DefaultZone
	}
	return &Service{querier: querier, server: server, zone: strings.TrimSuffix(zone, "."), logger: logger}
}

// Name returns the service identifier.
func (s *Service) Name() string { return Name }

// AggregateResults combines multiple origin results into a MultiResult.
func (s *Service) AggregateResults(results []*Result) *MultiResult {
	mr := &MultiResult{}
	mr.Results = append(mr.Results, results...)
	return mr
}

// Run looks up the origin ASN of ip.
// Only a malformed address is an error. A failed query or an unusable answer
// returns a Result with an empty ASN.
func (s *Service) Run(ctx context.Context, ip string) (*Result, error) {
	if !validate.IsIPv4(ip) {
		return nil, fmt.Errorf("%w: must be an IPv4 address: %q", services.ErrInvalidInput, ip)
	}
	query := ReverseName(ip, s.zone)
	if query == "" {
		return nil, fmt.Errorf("%w: cannot reverse %q", services.ErrInvalidInput, ip)
	}
	result := &Result{Input: ip}

	lines, err := s.querier.Query(ctx, s.server, query, dns.TypeTXT)
	if err != nil {
		s.logger.Debug("Cymru origin lookup failed", "ip", ip, "query", query, "error", err)
		return result, nil
	}
	origin, err := records.ParseOrigin(lines)
	if err != nil {
		if !errors.Is(err, services.ErrParseMiss) {
			return nil, err
		}
		s.logger.Debug("Cymru origin answer unusable", "ip", ip, "query", query, "error", err)
		return result, nil
	}

	result.ASN = output.Sanitize(origin.ASN)
	result.Prefix = output.Sanitize(origin.Prefix)
	result.Country = output.Sanitize(origin.Country)
	result.Registry = output.Sanitize(origin.Registry)
	result.Allocated = output.Sanitize(origin.Allocated)
	return result, nil
}

// ReverseName builds the reversed-octet query name for ip under zone:
// "1.2.3.4" → "4.3.2.1.<zone>". It returns "" unless ip has exactly four
// dot-separated parts.
func ReverseName(ip, zone string) string {
	parts := strings.Split(ip, ".")
	if len(parts) != 4 {
		return ""
	}
	var b strings.Builder
	for i := len(parts) - 1; i >= 0; i-- {
		b.WriteString(parts[i])
		b.WriteByte('.')
	}
	b.WriteString(zone)
	return b.String()
}
