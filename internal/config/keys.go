package config

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/tbckr/asnmap/internal/output"
)

// ErrUnknownKey is returned for a key that is not a known setting.
var ErrUnknownKey = errors.New("unknown config key")

type keyKind int

const (
	kindString keyKind = iota
	kindBool
	kindInt
	kindFloat
	kindDuration
	kindOutput
)

// keys lists every setting that may be persisted in the config file.
// "config" is excluded: the file cannot name itself.
var keys = map[string]keyKind{
	"verbose":       kindBool,
	"output":        kindOutput,
	"input":         kindString,
	"asn_file":      kindString,
	"lookup_owners": kindBool,
	"prefix":        kindString,
	"threshold":     kindInt,
	"resolver":      kindString,
	"asn_zone":      kindString,
	"concurrency":   kindInt,
	"timeout":       kindDuration,
	"rate_limit":    kindFloat,
	"dedup_ips":     kindBool,
	"proxy":         kindString,
	"user_agent":    kindString,
}

// ValidKeys returns every settable key, sorted.
func ValidKeys() []string {
	out := make([]string, 0, len(keys))
	for k := range keys {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// ValidateKey reports whether key (hyphens or underscores) is a known setting.
func ValidateKey(key string) error {
	if _, ok := keys[normalizeKey(key)]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return nil
}

// ParseValue converts raw into the type stored for key.
// Durations are kept as their string form so the YAML stays readable.
func ParseValue(key, raw string) (any, error) {
	kind, ok := keys[normalizeKey(key)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	switch kind {
	case kindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %q is not a boolean", key, raw)
		}
		return b, nil
	case kindInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %q is not an integer", key, raw)
		}
		if n < 1 {
			return nil, fmt.Errorf("%s: must be at least 1, got %d", key, n)
		}
		return n, nil
	case kindFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %q is not a number", key, raw)
		}
		if f < 0 {
			return nil, fmt.Errorf("%s: must not be negative, got %g", key, f)
		}
		return f, nil
	case kindDuration:
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("%s: must be positive, got %s", key, d)
		}
		return d.String(), nil
	case kindOutput:
		if !output.Format(raw).Valid() {
			return nil, fmt.Errorf("%s: %q must be one of table, json, text", key, raw)
		}
		return raw, nil
	default:
		return raw, nil
	}
}

// KeyCompletions returns value candidates for key, or nil for free-form keys.
func KeyCompletions(key string) []string {
	switch keys[normalizeKey(key)] {
	case kindBool:
		return []string{"true", "false"}
	case kindOutput:
		return formatNames()
	default:
		return nil
	}
}

func formatNames() []string {
	out := make([]string, len(output.Formats))
	for i, f := range output.Formats {
		out[i] = string(f)
	}
	return out
}
