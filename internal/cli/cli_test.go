package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbckr/asnmap/internal/apperr"
	"github.com/tbckr/asnmap/internal/services"
	"github.com/tbckr/asnmap/internal/testutil"
)

// fakeDNS answers A queries from hosts and origin TXT queries from origins.
func fakeDNS(hosts map[string][]string, origins map[string]string) *testutil.MockQuerier {
	return &testutil.MockQuerier{
		QueryFn: func(_ context.Context, _, name string, qtype uint16) ([]string, error) {
			switch qtype {
			case dns.TypeA:
				if ips, ok := hosts[name]; ok {
					return testutil.AResponse(name, ips...), nil
				}
			case dns.TypeTXT:
				if payload, ok := origins[name]; ok {
					return testutil.TXTResponse(name, payload), nil
				}
			}
			return nil, errors.New("no answer for " + name)
		},
	}
}

func defaultDNS() *testutil.MockQuerier {
	return fakeDNS(
		map[string][]string{
			"google.com":  {"142.250.1.1"},
			"youtube.com": {"142.250.1.2", "142.250.1.2"},
			"example.com": {"93.184.216.34"},
		},
		map[string]string{
			"1.1.250.142.origin.asn.cymru.com":   "15169 | 142.250.1.0/24 | US | arin | 2012-05-24",
			"2.1.250.142.origin.asn.cymru.com":   "15169 | 142.250.1.0/24 | US | arin | 2012-05-24",
			"34.216.184.93.origin.asn.cymru.com": "15133 | 93.184.216.0/24 | US | arin | 2008-06-02",
			"AS15133.asn.cymru.com":              "15133 | US | arin | 2007-03-19 | EDGECAST, US",
		},
	)
}

type run struct {
	stdout, stderr string
	err            error
}

func execute(t *testing.T, q *testutil.MockQuerier, cfgFile, stdin string, args ...string) run {
	t.Helper()
	if cfgFile == "" {
		cfgFile = filepath.Join(t.TempDir(), "config.yaml")
	}
	var querier services.Querier
	if q != nil {
		querier = q
	}
	cmd := newRootCmd(querier)
	var out, errOut bytes.Buffer
	cmd.SetArgs(append(args, "--config", cfgFile))
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return run{stdout: out.String(), stderr: errOut.String(), err: err}
}

func writeRanking(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "top.csv")
	content := "1,google.com\n2,youtube.com\n3,unknown.example\n4,example.com\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestAnalyze_RequiresThreshold(t *testing.T) {
	q := defaultDNS()
	r := execute(t, q, "", "", "analyze", "-i", writeRanking(t), "-t", "0")
	require.Error(t, r.err)
	assert.ErrorIs(t, r.err, apperr.ErrConfiguration)
	assert.Empty(t, q.Calls())
}

func TestAnalyze_RequiresInput(t *testing.T) {
	r := execute(t, defaultDNS(), "", "", "analyze", "-t", "10")
	assert.ErrorIs(t, r.err, apperr.ErrConfiguration)
}

func TestAnalyze_HeaderOnlyRanking(t *testing.T) {
	q := defaultDNS()
	path := filepath.Join(t.TempDir(), "top.csv")
	require.NoError(t, os.WriteFile(path, []byte("rank,domain\n"), 0o600))

	r := execute(t, q, "", "", "analyze", "-i", path, "-t", "5")
	require.Error(t, r.err)
	assert.ErrorIs(t, r.err, apperr.ErrConfiguration)
	assert.Contains(t, r.err.Error(), "has no domains")
	assert.Empty(t, q.Calls())
}

func TestAnalyze_EndToEnd(t *testing.T) {
	q := defaultDNS()
	prefix := filepath.Join(t.TempDir(), "reports", "top")
	asnFile := filepath.Join(t.TempDir(), "asn.txt")
	require.NoError(t, os.WriteFile(asnFile, []byte("AS15169 GOOGLE\n15133 EDGECAST\n"), 0o600))

	r := execute(t, q, "", "", "analyze",
		"-i", writeRanking(t), "-t", "3", "-a", asnFile, "-p", prefix, "-o", "text", "-c", "2")
	require.NoError(t, r.err, r.stderr)

	assert.Equal(t, "google.com 15169\nyoutube.com 15169\nunknown.example\n", r.stdout)
	assert.NotContains(t, q.Calls(), "A example.com", "threshold cuts the list")
	assert.Contains(t, r.stderr, "resolution finished")

	csvData, err := os.ReadFile(prefix + ".csv")
	require.NoError(t, err)
	assert.Equal(t, "asn,owner,site_count,domains\n15169,GOOGLE,2,google.com youtube.com\n", string(csvData))
	for _, suffix := range []string{".txt", "_site_hist.txt", "_asn_hist.txt", "_site_hist.png", "_asn_hist.png"} {
		assert.FileExists(t, prefix+suffix)
	}
}

func TestAnalyze_Stdin(t *testing.T) {
	r := execute(t, defaultDNS(), "", "1,example.com\n", "analyze", "--input=-", "-t", "5", "-o", "json")
	require.NoError(t, r.err, r.stderr)

	var got struct {
		DomainASNs map[string][]string `json:"domain_asns"`
		ASNDomains map[string][]string `json:"asn_domains"`
	}
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &got))
	assert.Equal(t, []string{"15133"}, got.DomainASNs["example.com"])
	assert.Equal(t, []string{"example.com"}, got.ASNDomains["15133"])
}

func TestResolve_Args(t *testing.T) {
	r := execute(t, defaultDNS(), "", "", "resolve", "example.com", "google.com", "-o", "text")
	require.NoError(t, r.err, r.stderr)
	assert.Equal(t, "example.com 15133\ngoogle.com 15169\n", r.stdout)
}

func TestResolve_StdinTable(t *testing.T) {
	r := execute(t, defaultDNS(), "", "# list\nyoutube.com\n\ngoogle.com\n", "resolve")
	require.NoError(t, r.err, r.stderr)
	assert.Contains(t, r.stdout, "15169")
	assert.Contains(t, r.stdout, "youtube.com")
}

func TestResolve_EmptyStdin(t *testing.T) {
	r := execute(t, defaultDNS(), "", "", "resolve")
	assert.ErrorIs(t, r.err, apperr.ErrConfiguration)
}

func TestOrigin_Single(t *testing.T) {
	r := execute(t, defaultDNS(), "", "", "origin", "93.184.216.34", "-o", "text")
	require.NoError(t, r.err, r.stderr)
	assert.Equal(t, "93.184.216.34 15133 / 93.184.216.0/24 / US / arin / 2008-06-02\n", r.stdout)
}

func TestOrigin_SingleInvalid(t *testing.T) {
	r := execute(t, defaultDNS(), "", "", "origin", "not-an-ip")
	assert.ErrorIs(t, r.err, apperr.ErrInvalidInput)
}

func TestOrigin_BulkSkipsInvalid(t *testing.T) {
	r := execute(t, defaultDNS(), "", "142.250.1.1\nbogus\n93.184.216.34\n", "origin", "-o", "json")
	require.NoError(t, r.err, r.stderr)

	var got []struct {
		Input string `json:"input"`
		ASN   string `json:"asn"`
	}
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "15169", got[0].ASN)
	assert.Equal(t, "15133", got[1].ASN)
	assert.Contains(t, r.stderr, "bogus")
}

func TestInvalidOutputFormat(t *testing.T) {
	r := execute(t, defaultDNS(), "", "", "resolve", "example.com", "-o", "xml")
	assert.ErrorIs(t, r.err, apperr.ErrConfiguration)
}

func TestVersion_JSON(t *testing.T) {
	r := execute(t, nil, "", "", "version", "-o", "json")
	require.NoError(t, r.err)
	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &info))
	assert.NotEmpty(t, info["version"])
	assert.NotEmpty(t, info["go_version"])
}

func TestConfig_SetGet(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")

	r := execute(t, nil, cfgFile, "", "config", "set", "rate-limit", "12.5")
	require.NoError(t, r.err)
	data, err := os.ReadFile(cfgFile)
	require.NoError(t, err)
	assert.Equal(t, "rate_limit: 12.5\n", string(data))

	r = execute(t, nil, cfgFile, "", "config", "get", "rate_limit")
	require.NoError(t, r.err)
	assert.Equal(t, "12.5\n", r.stdout)

	r = execute(t, nil, cfgFile, "", "config", "path")
	require.NoError(t, r.err)
	assert.Equal(t, cfgFile+"\n", r.stdout)
}

func TestConfig_SetRejectsBadValue(t *testing.T) {
	r := execute(t, nil, "", "", "config", "set", "concurrency", "zero")
	assert.Error(t, r.err)

	r = execute(t, nil, "", "", "config", "set", "nope", "1")
	assert.Error(t, r.err)
}

func TestConfig_ShowText(t *testing.T) {
	r := execute(t, nil, "", "", "config", "show", "-o", "text")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "resolver=8.8.8.8:53\n")
	assert.Contains(t, r.stdout, "dedup_ips=true\n")
}

func TestAnalyze_LookupOwners(t *testing.T) {
	q := defaultDNS()
	r := execute(t, q, "", "1,example.com\n2,google.com\n", "analyze", "--input=-", "-t", "2", "--lookup-owners", "-o", "json")
	require.NoError(t, r.err, r.stderr)

	var got struct {
		ASNs []struct {
			ASN   string `json:"asn"`
			Owner string `json:"owner"`
		} `json:"asns"`
	}
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &got))
	require.Len(t, got.ASNs, 2)
	owners := map[string]string{}
	for _, a := range got.ASNs {
		owners[a.ASN] = a.Owner
	}
	assert.Equal(t, map[string]string{"15133": "EDGECAST", "15169": ""}, owners)
	assert.Contains(t, q.Calls(), "TXT AS15133.asn.cymru.com")
}

func TestASN_Text(t *testing.T) {
	r := execute(t, defaultDNS(), "", "", "asn", "AS15133", "-o", "text")
	require.NoError(t, r.err, r.stderr)
	assert.Equal(t, "AS15133 EDGECAST, US\n", r.stdout)
}

func TestASN_BulkSkipsInvalid(t *testing.T) {
	r := execute(t, defaultDNS(), "", "15133\nnot-an-asn\n", "asn", "-o", "text")
	require.NoError(t, r.err, r.stderr)
	assert.Equal(t, "AS15133 EDGECAST, US\n", r.stdout)
	assert.Contains(t, r.stderr, "not-an-asn")
}
