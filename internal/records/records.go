// Package records extracts answers from dig-style DNS presentation text.
//
// Each parser walks the response lines, ignores blank lines and lines that
// start with ';' (headers, section titles, the question line), and matches
// the "IN <TYPE> <rdata>" marker of a resource record.
package records

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tbckr/asnmap/internal/apperr"
	"github.com/tbckr/asnmap/internal/validate"
)

var (
	aMarker   = regexp.MustCompile(`(?:^|\s)IN\s+A\s+(\S+)\s*$`)
	txtMarker = regexp.MustCompile(`(?:^|\s)IN\s+TXT\s+(.+?)\s*$`)
	// txtChunk matches one quoted character-string of a TXT rdata.
	txtChunk = regexp.MustCompile(`"((?:[^"\\]|\\.)*)"`)
)

// Origin is the parsed payload of an origin.asn.cymru.com TXT record:
// "ASN | prefix | country | registry | allocated".
type Origin struct {
	ASN       string
	Prefix    string
	Country   string
	Registry  string
	Allocated string
}

// ParseA returns every valid IPv4 address found in A-record answer lines, in
// response order. Candidates that fail validate.IsIPv4 are dropped.
func ParseA(lines []string) []string {
	var ips []string
	for _, line := range answerLines(lines) {
		m := aMarker.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if validate.IsIPv4(m[1]) {
			ips = append(ips, m[1])
		}
	}
	return ips
}

// ParseOrigin parses the first TXT answer line as a pipe-delimited ASN origin
// record. Field 0 is the ASN; further fields are optional. It returns
// apperr.ErrParseMiss when no TXT line is present or field 0 is empty.
func ParseOrigin(lines []string) (Origin, error) {
	fields, err := ParseFields(lines)
	if err != nil {
		return Origin{}, err
	}
	return Origin{
		ASN:       fields[0],
		Prefix:    field(fields, 1),
		Country:   field(fields, 2),
		Registry:  field(fields, 3),
		Allocated: field(fields, 4),
	}, nil
}

// ParseFields splits the first TXT answer line on '|' and trims each field.
// The result always has a non-empty field 0; otherwise apperr.ErrParseMiss
// is returned.
func ParseFields(lines []string) ([]string, error) {
	for _, line := range answerLines(lines) {
		m := txtMarker.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		fields := strings.Split(unquote(m[1]), "|")
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		if fields[0] == "" {
			return nil, fmt.Errorf("%w: empty first field in %q", apperr.ErrParseMiss, m[1])
		}
		return fields, nil
	}
	return nil, fmt.Errorf("%w: no TXT answer", apperr.ErrParseMiss)
}

func field(fields []string, i int) string {
	if i < len(fields) {
		return fields[i]
	}
	return ""
}

// answerLines drops blank and ';' comment lines.
func answerLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, ";") {
			continue
		}
		out = append(out, line)
	}
	return out
}

// unquote strips the surrounding quotes of a TXT rdata and decodes its
// escapes. Multiple character-strings ("a" "b") are concatenated, as
// resolvers do for TXT.
func unquote(rdata string) string {
	chunks := txtChunk.FindAllStringSubmatch(rdata, -1)
	if chunks == nil {
		return unescape(strings.Trim(rdata, `"`))
	}
	var b strings.Builder
	for _, c := range chunks {
		b.WriteString(unescape(c[1]))
	}
	return b.String()
}

// unescape decodes RFC 1035 presentation escapes: \DDD is a decimal byte
// value, \X is the literal X.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}
		if i+3 < len(s) && isDigit(s[i+1]) && isDigit(s[i+2]) && isDigit(s[i+3]) {
			if n, err := strconv.Atoi(s[i+1 : i+4]); err == nil && n <= 0xff {
				b.WriteByte(byte(n))
				i += 3
				continue
			}
		}
		b.WriteByte(s[i+1])
		i++
	}
	return b.String()
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
