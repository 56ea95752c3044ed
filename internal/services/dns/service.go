// Package dns resolves a domain to the IPv4 addresses that host it.
package dns

import (
	"context"
	"fmt"
	"log/slog"

	mdns "github.com/miekg/dns"

	"github.com/tbckr/asnmap/internal/records"
	"github.com/tbckr/asnmap/internal/services"
	"github.com/tbckr/asnmap/internal/validate"
)

// Name is the service identifier.
const Name = "dns"

// Result holds the A-record lookup result for a single domain.
type Result struct {
	Input string   `json:"input"`
	A     []string `json:"a,omitempty"`
}

var _ services.Result = (*Result)(nil)

// IsEmpty reports whether no IPv4 address was found.
func (r *Result) IsEmpty() bool { return len(r.A) == 0 }

// Service issues A-record queries against one configured resolver.
type Service struct {
	querier services.Querier
	server  string
	logger  *slog.Logger
}

// NewService creates a DNS service that sends every query to server (host:port).
func NewService(querier services.Querier, server string, logger *slog.Logger) *Service {
	return &Service{querier: querier, server: server, logger: logger}
}

// Name returns the service identifier.
func (s *Service) Name() string { return Name }

// Run resolves domain to its IPv4 addresses.
// An invalid domain is the only error; a failed or empty lookup yields an
// empty Result so one bad domain never stops a batch.
func (s *Service) Run(ctx context.Context, domain string) (*Result, error) {
	if !validate.IsDomain(domain) {
		return nil, fmt.Errorf("%w: must be a valid domain name: %q", services.ErrInvalidInput, domain)
	}
	result := &Result{Input: domain}

	lines, err := s.querier.Query(ctx, s.server, domain, mdns.TypeA)
	if err != nil {
		s.logger.Debug("A lookup failed", "domain", domain, "error", err)
		return result, nil
	}
	result.A = records.ParseA(lines)
	if len(result.A) == 0 {
		s.logger.Debug("A lookup returned no addresses", "domain", domain, "error", services.ErrParseMiss)
	}
	return result, nil
}
