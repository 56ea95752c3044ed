package cli

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/tbckr/asnmap/internal/apperr"
	"github.com/tbckr/asnmap/internal/owners"
	"github.com/tbckr/asnmap/internal/ranking"
	"github.com/tbckr/asnmap/internal/report"
)

func newAnalyzeCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:     "analyze",
		Short:   "Map the top N domains of a ranking list to their hosting ASNs",
		GroupID: "analysis",
		Long: `Load the top --threshold domains from --input, resolve each to its IPv4
addresses and origin ASNs, and print a per-ASN summary.

--input is a CSV file of "rank,domain" rows, "-" for stdin, or an http(s) URL.
With --prefix P the run also writes:

  P.txt            one line per domain: domain asn...
  P.csv            asn,owner,site_count,domains
  P_site_hist.txt  histogram of ASNs per site (P_site_hist.png plots it)
  P_asn_hist.txt   histogram of sites per ASN (P_asn_hist.png plots it)

--asn-file names a whitespace-separated "id name" table used to label ASNs.
--lookup-owners fills the gaps from AS<number>.asn.cymru.com TXT records.`,
		Example: `  # Top 1000 sites from a local Tranco list, reports under out/
  asnmap analyze -i top-1m.csv -t 1000 -p out/top1000

  # Remote list, owner names, JSON summary
  asnmap analyze -i https://example.org/top-1m.csv -t 100 -a asn.txt -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := d.cfg.ValidateAnalysis(); err != nil {
				return err
			}
			ctx := cmd.Context()

			client, err := d.newHTTPClient()
			if err != nil {
				return err
			}
			src := ranking.Source{HTTP: client, Stdin: cmd.InOrStdin()}
			entries, err := ranking.Load(ctx, src, d.cfg.Input, d.cfg.Threshold)
			if err != nil {
				return fmt.Errorf("loading ranking: %w", err)
			}
			if len(entries) == 0 {
				return fmt.Errorf("loading ranking: %w: %s has no domains", apperr.ErrConfiguration, d.cfg.Input)
			}
			d.logger.Info("ranking loaded", "input", d.cfg.Input, "domains", len(entries))

			names, err := owners.Load(d.cfg.ASNFile)
			if err != nil {
				return err
			}

			engine, err := d.newEngine()
			if err != nil {
				return err
			}
			idx, runErr := engine.Run(ctx, ranking.Domains(entries))
			if idx == nil {
				return runErr
			}
			if d.cfg.LookupOwners && runErr == nil {
				q, err := d.newQuerier()
				if err != nil {
					return err
				}
				asns := slices.Collect(maps.Keys(idx.ASNDomains()))
				added := names.Fill(ctx, d.newASNService(q), asns, d.cfg.Concurrency)
				d.logger.Info("owners looked up", "asns", len(asns), "added", added)
			}
			summary := report.Build(idx, names)

			if d.cfg.Prefix != "" {
				paths, err := report.WriteFiles(d.cfg.Prefix, summary)
				if err != nil {
					return errors.Join(err, runErr)
				}
				d.logger.Info("reports written", "files", paths)
			}
			if err := writeResult(cmd.OutOrStdout(), d, summary); err != nil {
				return err
			}
			return runErr
		},
	}
}
