// Package resolver builds the transport used to reach DNS servers. When the
// user configures a SOCKS5 proxy, queries are tunnelled over TCP through it
// so no lookup leaks to the local network.
package resolver
