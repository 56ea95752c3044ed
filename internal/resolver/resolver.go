package resolver

import (
	"context"
	"fmt"
	"net"
	"strings"

	"golang.org/x/net/proxy"
)

// DialFunc opens a connection to a DNS server.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// NewDialer returns a DialFunc appropriate for the given proxy URL.
//
// When proxyURL is empty or its scheme is not "socks5", NewDialer returns nil
// and callers should use their direct (UDP) transport.
//
// When proxyURL is a socks5:// URL, the returned DialFunc always dials TCP
// through the proxy, regardless of the requested network.
func NewDialer(proxyURL string) (DialFunc, error) {
	if proxyURL == "" || !strings.HasPrefix(proxyURL, "socks5://") {
		return nil, nil
	}

	host := strings.TrimPrefix(proxyURL, "socks5://")
	if host == "" {
		return nil, fmt.Errorf("socks5 proxy URL %q has no host", proxyURL)
	}

	dialer, err := proxy.SOCKS5("tcp", host, nil, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("creating SOCKS5 dialer for DNS: %w", err)
	}

	ctxDialer, ok := dialer.(proxy.ContextDialer)
	if !ok {
		return nil, fmt.Errorf("SOCKS5 dialer does not implement ContextDialer")
	}

	return func(ctx context.Context, _, address string) (net.Conn, error) {
		return ctxDialer.DialContext(ctx, "tcp", address)
	}, nil
}
