package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/imroc/req/v3"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tbckr/asnmap/internal/aggregate"
	"github.com/tbckr/asnmap/internal/config"
	"github.com/tbckr/asnmap/internal/dnsquery"
	"github.com/tbckr/asnmap/internal/doh"
	"github.com/tbckr/asnmap/internal/httpclient"
	"github.com/tbckr/asnmap/internal/output"
	"github.com/tbckr/asnmap/internal/ratelimit"
	"github.com/tbckr/asnmap/internal/resolver"
	"github.com/tbckr/asnmap/internal/services"
	"github.com/tbckr/asnmap/internal/services/asn"
	"github.com/tbckr/asnmap/internal/services/cymru"
	dnssvc "github.com/tbckr/asnmap/internal/services/dns"
	"github.com/tbckr/asnmap/internal/worker"
)

// deps holds fully-resolved runtime dependencies for a subcommand.
type deps struct {
	logger *slog.Logger
	cfg    *config.Config
	// querier overrides the live DNS client when set.
	querier services.Querier
}

// buildDeps resolves and validates config and sets up the logger.
func buildDeps(cmd *cobra.Command, stderr io.Writer) (*deps, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	return &deps{cfg: cfg, logger: logger}, nil
}

// newHTTPClient creates the HTTP client used for remote ranking lists.
func (d *deps) newHTTPClient() (*req.Client, error) {
	client, err := httpclient.New(d.cfg.Proxy, d.cfg.UserAgent, d.logger, d.cfg.Verbose)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP client: %w", err)
	}
	return client, nil
}

// newQuerier returns the DNS client: rate limited, with the configured
// timeout. An https:// resolver selects DNS-over-HTTPS; otherwise queries go
// over UDP, or TCP through a SOCKS5 proxy when one is set.
func (d *deps) newQuerier() (services.Querier, error) {
	if d.querier != nil {
		return d.querier, nil
	}
	limiter := ratelimit.New(d.cfg.RateLimit, d.cfg.Concurrency)
	if doh.IsEndpoint(d.cfg.Resolver) {
		client, err := d.newHTTPClient()
		if err != nil {
			return nil, err
		}
		httpclient.AttachRateLimit(client, limiter)
		return doh.New(client, d.cfg.Timeout, d.logger), nil
	}
	dial, err := resolver.NewDialer(d.cfg.Proxy)
	if err != nil {
		return nil, fmt.Errorf("creating DNS dialer: %w", err)
	}
	return dnsquery.New(dnsquery.Options{
		Timeout: d.cfg.Timeout,
		Limiter: limiter,
		Dial:    dial,
	}, d.logger), nil
}

func (d *deps) newASNService(q services.Querier) *asn.Service {
	return asn.NewService(q, d.cfg.Resolver, asn.DefaultZone, d.logger)
}

func (d *deps) newOriginService(q services.Querier) *cymru.Service {
	return cymru.NewService(q, d.cfg.Resolver, d.cfg.ASNZone, d.logger)
}

// newEngine wires the A and origin services into an aggregation engine.
func (d *deps) newEngine() (*aggregate.Engine, error) {
	q, err := d.newQuerier()
	if err != nil {
		return nil, err
	}
	hosts := dnssvc.NewService(q, d.cfg.Resolver, d.logger)
	return aggregate.NewEngine(hosts, d.newOriginService(q), aggregate.Options{
		Concurrency: d.cfg.Concurrency,
		DedupIPs:    d.cfg.DedupIPs,
	}, d.logger), nil
}

// resolveInputs returns positional args, or reads non-empty lines from stdin
// when no args are provided. An interactive terminal with no args is an error.
func resolveInputs(cmd *cobra.Command, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	r := cmd.InOrStdin()
	if f, ok := r.(*os.File); ok && term.IsTerminal(int(f.Fd())) { //nolint:gosec // file descriptors fit in int
		return nil, fmt.Errorf("no input: pass an argument or pipe stdin")
	}
	return worker.ReadInputs(r)
}

// writeResult formats and writes a result to stdout.
func writeResult(stdout io.Writer, d *deps, result any) error {
	if err := output.Write(stdout, output.Format(d.cfg.Output), result); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
