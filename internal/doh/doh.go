// Package doh sends DNS questions as RFC 8484 DNS-over-HTTPS GET requests.
package doh

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/imroc/req/v3"
	"github.com/miekg/dns"

	"github.com/tbckr/asnmap/internal/apperr"
	"github.com/tbckr/asnmap/internal/services"
)

const contentType = "application/dns-message"

// IsEndpoint reports whether server names a DoH endpoint rather than host:port.
func IsEndpoint(server string) bool {
	return strings.HasPrefix(server, "https://")
}

// Client queries a DoH endpoint. It satisfies services.Querier; the server
// argument of Query is the endpoint URL. Pacing belongs to the HTTP client
// (see httpclient.AttachRateLimit).
type Client struct {
	http    *req.Client
	timeout time.Duration
	logger  *slog.Logger
}

var _ services.Querier = (*Client)(nil)

// New creates a Client on top of an HTTP client.
func New(client *req.Client, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{http: client, timeout: timeout, logger: logger}
}

// Query sends one question and returns the reply rendered as presentation
// lines, the same shape dnsquery.Client returns.
func (c *Client) Query(ctx context.Context, endpoint, name string, qtype uint16) ([]string, error) {
	typ := dns.TypeToString[qtype]

	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(name), qtype)
	m.RecursionDesired = true
	// RFC 8484 §4.1: ID 0 keeps GET requests cacheable.
	m.Id = 0
	wire, err := m.Pack()
	if err != nil {
		return nil, fmt.Errorf("%w: packing %s %s: %w", apperr.ErrLookupFailed, typ, name, err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", contentType).
		SetQueryParam("dns", base64.RawURLEncoding.EncodeToString(wire)).
		Get(endpoint)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("%w: %s %s: %w", apperr.ErrLookupFailed, typ, name, err)
		}
		return nil, fmt.Errorf("%w: %s %s via %s: %w", apperr.ErrLookupFailed, typ, name, endpoint, err)
	}
	if !resp.IsSuccessState() {
		return nil, fmt.Errorf("%w: %s %s via %s: HTTP %d", apperr.ErrLookupFailed, typ, name, endpoint, resp.StatusCode)
	}

	reply := new(dns.Msg)
	if err := reply.Unpack(resp.Bytes()); err != nil {
		return nil, fmt.Errorf("%w: decoding %s %s reply: %w", apperr.ErrLookupFailed, typ, name, err)
	}
	c.logger.Debug("doh exchange", "name", name, "type", typ, "rcode", dns.RcodeToString[reply.Rcode], "answers", len(reply.Answer))
	return strings.Split(reply.String(), "\n"), nil
}
