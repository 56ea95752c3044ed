package aggregate

import (
	"slices"
	"strconv"
	"sync"
)

// Index is the bidirectional domain ↔ ASN relation built during a run.
//
// Both directions are guarded by one mutex and every insertion updates both
// inside the same critical section, so asn ∈ DomainASNs[d] iff d ∈ ASNDomains[asn]
// holds for any observer at any time.
type Index struct {
	mu         sync.RWMutex
	order      []string
	domainASNs map[string]map[string]struct{}
	asnDomains map[string]map[string]struct{}
}

// NewIndex returns an empty Index.
func NewIndex() *Index {
	return &Index{
		domainASNs: make(map[string]map[string]struct{}),
		asnDomains: make(map[string]map[string]struct{}),
	}
}

// AddDomain registers domain with an empty ASN set. It is a no-op for a
// domain already present. Registration order is kept for Domains.
func (x *Index) AddDomain(domain string) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.addDomainLocked(domain)
}

// Add records that domain is hosted in asn.
func (x *Index) Add(domain, asn string) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.addDomainLocked(domain)
	x.domainASNs[domain][asn] = struct{}{}
	set, ok := x.asnDomains[asn]
	if !ok {
		set = make(map[string]struct{})
		x.asnDomains[asn] = set
	}
	set[domain] = struct{}{}
}

func (x *Index) addDomainLocked(domain string) {
	if _, ok := x.domainASNs[domain]; ok {
		return
	}
	x.domainASNs[domain] = make(map[string]struct{})
	x.order = append(x.order, domain)
}

// Domains returns every registered domain in registration order.
func (x *Index) Domains() []string {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return slices.Clone(x.order)
}

// ASNs returns the sorted ASN set of domain.
func (x *Index) ASNs(domain string) []string {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return sortedKeys(x.domainASNs[domain])
}

// DomainsIn returns the sorted domain set of asn.
func (x *Index) DomainsIn(asn string) []string {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return sortedKeys(x.asnDomains[asn])
}

// DomainASNs returns a snapshot of domain → sorted ASNs. Domains without
// any ASN map to an empty, non-nil slice.
func (x *Index) DomainASNs() map[string][]string {
	x.mu.RLock()
	defer x.mu.RUnlock()
	out := make(map[string][]string, len(x.domainASNs))
	for d, set := range x.domainASNs {
		out[d] = sortedKeys(set)
	}
	return out
}

// ASNDomains returns a snapshot of ASN → sorted domains.
func (x *Index) ASNDomains() map[string][]string {
	x.mu.RLock()
	defer x.mu.RUnlock()
	out := make(map[string][]string, len(x.asnDomains))
	for a, set := range x.asnDomains {
		out[a] = sortedKeys(set)
	}
	return out
}

// Len returns the number of registered domains and distinct ASNs.
func (x *Index) Len() (domains, asns int) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.domainASNs), len(x.asnDomains)
}

// CompareASN orders ASN identifiers numerically when both are numbers and
// lexically otherwise. Numbers sort before non-numbers.
func CompareASN(a, b string) int {
	na, errA := strconv.ParseUint(a, 10, 64)
	nb, errB := strconv.ParseUint(b, 10, 64)
	switch {
	case errA == nil && errB == nil:
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		}
		return 0
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	slices.SortFunc(out, CompareASN)
	return out
}
