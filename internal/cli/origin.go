package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tbckr/asnmap/internal/services/cymru"
	"github.com/tbckr/asnmap/internal/worker"
)

func newOriginCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:     "origin [ip...]",
		Short:   "Look up the origin ASN of IPv4 addresses",
		GroupID: "analysis",
		Long: `Look up the origin ASN, announced prefix, country, registry, and
allocation date of each IPv4 address with a TXT query under the ASN zone.

Addresses are read from the arguments or, without arguments, one per line
from stdin. Bulk input is processed concurrently (see --concurrency).`,
		Example: `  asnmap origin 8.8.8.8
  echo -e "8.8.8.8\n1.1.1.1" | asnmap origin -o json`,
		Args: cobra.ArbitraryArgs,
		ValidArgsFunction: func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := resolveInputs(cmd, args)
			if err != nil {
				return err
			}
			if len(inputs) == 0 {
				return fmt.Errorf("no input: pass an argument or pipe stdin")
			}
			q, err := d.newQuerier()
			if err != nil {
				return err
			}
			svc := d.newOriginService(q)

			// A single argument reports its own error; in bulk mode bad
			// inputs are logged and skipped.
			if len(inputs) == 1 {
				result, err := svc.Run(cmd.Context(), inputs[0])
				if err != nil {
					return err
				}
				return writeResult(cmd.OutOrStdout(), d, result)
			}

			results := worker.Run(cmd.Context(), inputs, d.cfg.Concurrency, func(ctx context.Context, ip string) (*cymru.Result, error) {
				return svc.Run(ctx, ip)
			})
			found := make([]*cymru.Result, 0, len(results))
			for _, r := range results {
				if r.Err != nil {
					d.logger.Warn("origin lookup skipped", "input", r.Input, "error", r.Err)
					continue
				}
				found = append(found, r.Output)
			}
			mr := svc.AggregateResults(found)
			d.logger.Info("origin lookups finished", "inputs", len(inputs), "found", mr.Found())
			if err := writeResult(cmd.OutOrStdout(), d, mr); err != nil {
				return err
			}
			return cmd.Context().Err()
		},
	}
}
