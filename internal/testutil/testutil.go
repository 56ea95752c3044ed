// Package testutil provides shared test helpers for service unit tests.
package testutil

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/miekg/dns"

	"github.com/tbckr/asnmap/internal/services"
)

// MockQuerier implements services.Querier for testing.
// QueryFn is called for every query; when nil, Query returns no lines.
// Every call is recorded and can be inspected with Calls.
type MockQuerier struct {
	QueryFn func(ctx context.Context, server, name string, qtype uint16) ([]string, error)

	mu    sync.Mutex
	calls []string
}

var _ services.Querier = (*MockQuerier)(nil)

// Query implements services.Querier.
func (m *MockQuerier) Query(ctx context.Context, server, name string, qtype uint16) ([]string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, dns.TypeToString[qtype]+" "+name)
	m.mu.Unlock()
	if m.QueryFn != nil {
		return m.QueryFn(ctx, server, name, qtype)
	}
	return nil, nil
}

// Calls returns the recorded queries as "TYPE name" strings in call order.
func (m *MockQuerier) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// NopLogger returns a logger that discards all output.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// AResponse renders an A-record answer for name the way dnsquery.Client
// returns it: dns.Msg.String() split into lines.
func AResponse(name string, ips ...string) []string {
	rrs := make([]string, 0, len(ips))
	for _, ip := range ips {
		rrs = append(rrs, fmt.Sprintf("%s 300 IN A %s", dns.Fqdn(name), ip))
	}
	return response(name, dns.TypeA, rrs)
}

// TXTResponse renders a TXT answer for name, one record per payload.
func TXTResponse(name string, payloads ...string) []string {
	m := newReply(name, dns.TypeTXT)
	for _, p := range payloads {
		m.Answer = append(m.Answer, &dns.TXT{
			Hdr: dns.RR_Header{Name: dns.Fqdn(name), Rrtype: dns.TypeTXT, Class: dns.ClassINET, Ttl: 14400},
			Txt: []string{p},
		})
	}
	return strings.Split(m.String(), "\n")
}

// NXDomainResponse renders an empty NXDOMAIN reply for name.
func NXDomainResponse(name string, qtype uint16) []string {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(name), qtype)
	m.Response = true
	m.Rcode = dns.RcodeNameError
	return strings.Split(m.String(), "\n")
}

func response(name string, qtype uint16, rrs []string) []string {
	m := newReply(name, qtype)
	for _, s := range rrs {
		rr, err := dns.NewRR(s)
		if err != nil {
			panic(fmt.Sprintf("testutil: bad RR %q: %v", s, err))
		}
		m.Answer = append(m.Answer, rr)
	}
	return strings.Split(m.String(), "\n")
}

func newReply(name string, qtype uint16) *dns.Msg {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(name), qtype)
	m.Response = true
	m.RecursionAvailable = true
	return m
}
