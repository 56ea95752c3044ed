// Package dnsquery issues single DNS questions against an explicit server and
// returns the answer as dig-style presentation text.
package dnsquery

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/miekg/dns"

	"github.com/tbckr/asnmap/internal/apperr"
	"github.com/tbckr/asnmap/internal/ratelimit"
	"github.com/tbckr/asnmap/internal/resolver"
	"github.com/tbckr/asnmap/internal/services"
)

// DefaultTimeout bounds a single exchange when Options.Timeout is zero.
const DefaultTimeout = 5 * time.Second

// Options configures a Client.
type Options struct {
	// Timeout bounds each exchange, including dialing.
	Timeout time.Duration
	// Limiter paces queries. Nil means unlimited.
	Limiter *ratelimit.Limiter
	// Dial, when set, tunnels every query over TCP through the returned conn.
	Dial resolver.DialFunc
}

// Client performs independent, single-attempt DNS exchanges.
// It keeps no connection or session state between calls.
type Client struct {
	dns     *dns.Client
	timeout time.Duration
	limiter *ratelimit.Limiter
	dial    resolver.DialFunc
	logger  *slog.Logger
}

var _ services.Querier = (*Client)(nil)

// New creates a Client.
func New(opts Options, logger *slog.Logger) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &dns.Client{Net: "udp", Timeout: timeout}
	if opts.Dial != nil {
		c.Net = "tcp"
	}
	return &Client{
		dns:     c,
		timeout: timeout,
		limiter: opts.Limiter,
		dial:    opts.Dial,
		logger:  logger,
	}
}

// Query sends one question for name and qtype to server and returns the
// response rendered by dns.Msg.String, split into lines.
//
// Any rcode is a successful exchange; the caller's parser decides whether the
// answer section is usable. Transport failures, timeouts and cancellation are
// reported as apperr.ErrLookupFailed. There is no retry.
func (c *Client) Query(ctx context.Context, server, name string, qtype uint16) ([]string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", apperr.ErrLookupFailed, dns.TypeToString[qtype], name, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(name), qtype)
	msg.RecursionDesired = true

	resp, rtt, err := c.exchange(ctx, msg, server)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s via %s: %w", apperr.ErrLookupFailed, dns.TypeToString[qtype], name, server, err)
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: %s %s via %s: empty response", apperr.ErrLookupFailed, dns.TypeToString[qtype], name, server)
	}

	c.logger.Debug("dns exchange",
		"name", name,
		"type", dns.TypeToString[qtype],
		"server", server,
		"rcode", dns.RcodeToString[resp.Rcode],
		"answers", len(resp.Answer),
		"rtt", rtt,
	)
	return strings.Split(resp.String(), "\n"), nil
}

func (c *Client) exchange(ctx context.Context, msg *dns.Msg, server string) (*dns.Msg, time.Duration, error) {
	if c.dial == nil {
		return c.dns.ExchangeContext(ctx, msg, server)
	}
	conn, err := c.dial(ctx, "tcp", server)
	if err != nil {
		return nil, 0, fmt.Errorf("dialing %s: %w", server, err)
	}
	co := &dns.Conn{Conn: conn}
	defer co.Close()
	return c.dns.ExchangeWithConnContext(ctx, msg, co)
}
