// Package config resolves asnmap settings from flags, ASNMAP_* environment
// variables, and a YAML config file, in that order of precedence.
package config

import (
	"fmt"
	"net"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/tbckr/asnmap/internal/apperr"
	"github.com/tbckr/asnmap/internal/appdir"
	"github.com/tbckr/asnmap/internal/output"
)

// EnvPrefix is prepended to every environment variable override.
const EnvPrefix = "ASNMAP"

// Defaults.
const (
	DefaultResolver    = "8.8.8.8:53"
	DefaultASNZone     = "origin.asn.cymru.com"
	DefaultConcurrency = 10
	DefaultTimeout     = 5 * time.Second
	DefaultRateLimit   = 50.0
)

// Config is the fully resolved runtime configuration.
type Config struct {
	ConfigFile string `mapstructure:"config"`
	Verbose    bool   `mapstructure:"verbose"`
	Output     string `mapstructure:"output"`

	Input        string `mapstructure:"input"`
	ASNFile      string `mapstructure:"asn_file"`
	LookupOwners bool   `mapstructure:"lookup_owners"`
	Prefix       string `mapstructure:"prefix"`
	Threshold    int    `mapstructure:"threshold"`

	Resolver    string        `mapstructure:"resolver"`
	ASNZone     string        `mapstructure:"asn_zone"`
	Concurrency int           `mapstructure:"concurrency"`
	Timeout     time.Duration `mapstructure:"timeout"`
	RateLimit   float64       `mapstructure:"rate_limit"`
	DedupIPs    bool          `mapstructure:"dedup_ips"`

	Proxy     string `mapstructure:"proxy"`
	UserAgent string `mapstructure:"user_agent"`
}

// RegisterFlags adds every config flag to flags. Flag names use hyphens;
// viper keys use underscores.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "config file (default "+defaultPathHint()+")")
	flags.BoolP("verbose", "v", false, "enable debug logging")
	flags.StringP("output", "o", string(output.FormatTable), "output format: table, json, text")

	flags.StringP("input", "i", "", "ranking list: file path, - for stdin, or http(s) URL")
	flags.StringP("asn-file", "a", "", "ASN owner table (whitespace separated: id name)")
	flags.Bool("lookup-owners", false, "look up owners missing from the owner table over DNS")
	flags.StringP("prefix", "p", "", "write report files with this path prefix")
	flags.IntP("threshold", "t", 0, "number of top-ranked domains to analyse")

	flags.String("resolver", DefaultResolver, "DNS resolver for A and TXT queries: host:port or https:// DoH URL")
	flags.String("asn-zone", DefaultASNZone, "DNS zone for IPv4 origin ASN lookups")
	flags.IntP("concurrency", "c", DefaultConcurrency, "number of concurrent workers")
	flags.Duration("timeout", DefaultTimeout, "per-query DNS timeout")
	flags.Float64("rate-limit", DefaultRateLimit, "DNS queries per second (0 disables)")
	flags.Bool("dedup-ips", true, "query each distinct IP of a domain only once")

	flags.String("proxy", "", "proxy URL (socks5:// also carries DNS over TCP)")
	flags.String("user-agent", "", "User-Agent for ranking downloads")
}

// Load resolves the configuration for flags. The config file named by
// --config (or the default path) is created empty if it does not exist.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var bindErr error
	flags.VisitAll(func(f *pflag.Flag) {
		if bindErr != nil {
			return
		}
		bindErr = v.BindPFlag(normalizeKey(f.Name), f)
	})
	if bindErr != nil {
		return nil, fmt.Errorf("binding flags: %w", bindErr)
	}

	path := v.GetString("config")
	if path == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return nil, err
		}
	}
	if err := appdir.EnsureFile(path); err != nil {
		return nil, err
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%w: reading config file: %w", apperr.ErrConfiguration, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: decoding config: %w", apperr.ErrConfiguration, err)
	}
	cfg.ConfigFile = path
	return &cfg, nil
}

// Validate checks the settings shared by every command.
func (c *Config) Validate() error {
	if !output.Format(c.Output).Valid() {
		return fmt.Errorf("%w: invalid output format %q: must be \"table\", \"json\", or \"text\"", apperr.ErrConfiguration, c.Output)
	}
	if err := validateResolver(c.Resolver); err != nil {
		return err
	}
	if strings.Trim(c.ASNZone, ".") == "" {
		return fmt.Errorf("%w: asn zone must not be empty", apperr.ErrConfiguration)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("%w: concurrency must be at least 1, got %d", apperr.ErrConfiguration, c.Concurrency)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive, got %s", apperr.ErrConfiguration, c.Timeout)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("%w: rate limit must not be negative, got %g", apperr.ErrConfiguration, c.RateLimit)
	}
	return nil
}

// ValidateAnalysis additionally checks the settings a full analysis needs.
func (c *Config) ValidateAnalysis() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Input == "" {
		return fmt.Errorf("%w: --input is required", apperr.ErrConfiguration)
	}
	if c.Threshold <= 0 {
		return fmt.Errorf("%w: --threshold must be positive, got %d", apperr.ErrConfiguration, c.Threshold)
	}
	return nil
}

// validateResolver accepts host:port with a numeric port, or an https://
// DNS-over-HTTPS endpoint URL.
func validateResolver(addr string) error {
	if strings.HasPrefix(addr, "https://") {
		u, err := url.Parse(addr)
		if err != nil || u.Host == "" {
			return fmt.Errorf("%w: resolver %q is not a valid DoH URL", apperr.ErrConfiguration, addr)
		}
		return nil
	}
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("%w: resolver %q must be host:port: %w", apperr.ErrConfiguration, addr, err)
	}
	if host == "" {
		return fmt.Errorf("%w: resolver %q has no host", apperr.ErrConfiguration, addr)
	}
	if n, err := strconv.Atoi(port); err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("%w: resolver %q has an invalid port", apperr.ErrConfiguration, addr)
	}
	return nil
}

// DefaultConfigPath returns the OS-specific config file location.
func DefaultConfigPath() (string, error) {
	dir, err := appdir.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func defaultPathHint() string {
	path, err := DefaultConfigPath()
	if err != nil {
		return "$XDG_CONFIG_HOME/asnmap/config.yaml"
	}
	return path
}

func normalizeKey(key string) string {
	return strings.ReplaceAll(key, "-", "_")
}
