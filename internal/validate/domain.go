// Package validate provides shared input validation helpers.
package validate

import (
	"strconv"
	"strings"

	"github.com/miekg/dns"
)

// IsDomain reports whether s can be used as a DNS query name.
// A bare root (".") and IP literals are rejected.
func IsDomain(s string) bool {
	if s == "" || s == "." || IsIPv4(s) {
		return false
	}
	_, ok := dns.IsDomainName(s)
	return ok
}

// IsIPv4 reports whether s is a dotted-quad IPv4 address: exactly four
// dot-separated parts, each made only of decimal digits with a value in [0,255].
// Leading zeros are accepted as-is.
func IsIPv4(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return false
	}
	for _, p := range parts {
		if p == "" {
			return false
		}
		for _, c := range p {
			if c < '0' || c > '9' {
				return false
			}
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > 255 {
			return false
		}
	}
	return true
}
