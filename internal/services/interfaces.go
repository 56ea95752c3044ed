// Package services defines shared interfaces and types used across service implementations.
package services

import "context"

// Querier issues a single DNS question of type qtype for name against server
// and returns the presentation-format response text, one line per element.
// Comment, header, and section lines start with ';'.
// *dnsquery.Client (server is host:port) and *doh.Client (server is an
// https:// endpoint) satisfy it.
type Querier interface {
	Query(ctx context.Context, server, name string, qtype uint16) ([]string, error)
}
