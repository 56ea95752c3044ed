// Package aggregate resolves a ranked domain list to origin ASNs and folds the
// results into a bidirectional domain ↔ ASN index.
package aggregate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tbckr/asnmap/internal/apperr"
	"github.com/tbckr/asnmap/internal/services/cymru"
	dnssvc "github.com/tbckr/asnmap/internal/services/dns"
	"github.com/tbckr/asnmap/internal/worker"
)

// HostResolver resolves a domain to its IPv4 addresses. *dns.Service satisfies it.
type HostResolver interface {
	Run(ctx context.Context, domain string) (*dnssvc.Result, error)
}

// OriginResolver resolves an IPv4 address to its origin ASN. *cymru.Service satisfies it.
type OriginResolver interface {
	Run(ctx context.Context, ip string) (*cymru.Result, error)
}

// Options tunes an Engine.
type Options struct {
	// Concurrency is the number of domains resolved in parallel.
	Concurrency int
	// DedupIPs skips repeated addresses of one domain before ASN lookup.
	DedupIPs bool
}

// Engine drives resolution over a domain list.
type Engine struct {
	hosts   HostResolver
	origins OriginResolver
	opts    Options
	logger  *slog.Logger
}

// NewEngine creates an Engine.
func NewEngine(hosts HostResolver, origins OriginResolver, opts Options, logger *slog.Logger) *Engine {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Engine{hosts: hosts, origins: origins, opts: opts, logger: logger}
}

// domainStats is the per-domain outcome used for the run summary.
type domainStats struct {
	ips  int
	asns int
}

// Run resolves every domain once and returns the populated Index.
//
// Every domain appears in the Index, with an empty ASN set when nothing could
// be resolved. Per-domain and per-IP failures never abort the run. An empty
// domain list is apperr.ErrConfiguration and no query is sent. If ctx is
// cancelled the partial Index is returned together with ctx.Err().
func (e *Engine) Run(ctx context.Context, domains []string) (*Index, error) {
	if len(domains) == 0 {
		return nil, fmt.Errorf("%w: empty domain list", apperr.ErrConfiguration)
	}

	idx := NewIndex()
	for _, d := range domains {
		idx.AddDomain(d)
	}
	unique := idx.Domains()

	start := time.Now()
	results := worker.Run(ctx, unique, e.opts.Concurrency, func(ctx context.Context, domain string) (domainStats, error) {
		return e.resolveDomain(ctx, idx, domain)
	})

	var unresolved, failed int
	for _, r := range results {
		if r.Err != nil {
			failed++
			e.logger.Debug("domain skipped", "domain", r.Input, "error", r.Err)
		}
		if r.Output.asns == 0 {
			unresolved++
		}
	}
	nDomains, nASNs := idx.Len()
	e.logger.Info("resolution finished",
		"domains", nDomains,
		"asns", nASNs,
		"unresolved", unresolved,
		"failed", failed,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)

	if err := ctx.Err(); err != nil {
		return idx, err
	}
	return idx, nil
}

// resolveDomain runs the A lookup for domain and an origin lookup per IP,
// recording every ASN found into idx as soon as it is known.
func (e *Engine) resolveDomain(ctx context.Context, idx *Index, domain string) (domainStats, error) {
	var stats domainStats
	hosts, err := e.hosts.Run(ctx, domain)
	if err != nil {
		return stats, err
	}
	ips := hosts.A
	if e.opts.DedupIPs {
		ips = dedup(ips)
	}
	stats.ips = len(ips)

	seen := make(map[string]struct{})
	for _, ip := range ips {
		if ctx.Err() != nil {
			return stats, ctx.Err()
		}
		origin, err := e.origins.Run(ctx, ip)
		if err != nil {
			e.logger.Debug("origin lookup skipped", "domain", domain, "ip", ip, "error", err)
			continue
		}
		if origin.IsEmpty() {
			continue
		}
		idx.Add(domain, origin.ASN)
		seen[origin.ASN] = struct{}{}
	}
	stats.asns = len(seen)
	e.logger.Debug("domain resolved", "domain", domain, "ips", stats.ips, "asns", stats.asns)
	return stats, nil
}

// dedup drops repeated entries, keeping first occurrences in order.
func dedup(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
