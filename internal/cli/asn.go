package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tbckr/asnmap/internal/services/asn"
	"github.com/tbckr/asnmap/internal/worker"
)

func newASNCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:     "asn [asn...]",
		Short:   "Describe autonomous systems (owner, country, registry)",
		GroupID: "analysis",
		Long: `Look up the registered description of each ASN with a TXT query for
AS<number>.asn.cymru.com. ASNs may be given as 15169 or AS15169, as
arguments or one per line on stdin.`,
		Example: `  asnmap asn AS15169 13335
  cut -d, -f1 top.csv | asnmap asn -o text`,
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
			svc := d.newASNService(q)

			if len(inputs) == 1 {
				result, err := svc.Run(cmd.Context(), inputs[0])
				if err != nil {
					return err
				}
				return writeResult(cmd.OutOrStdout(), d, result)
			}

			results := worker.Run(cmd.Context(), inputs, d.cfg.Concurrency, func(ctx context.Context, a string) (*asn.Result, error) {
				return svc.Run(ctx, a)
			})
			found := make([]*asn.Result, 0, len(results))
			for _, r := range results {
				if r.Err != nil {
					d.logger.Warn("ASN lookup skipped", "input", r.Input, "error", r.Err)
					continue
				}
				found = append(found, r.Output)
			}
			mr := svc.AggregateResults(found)
			d.logger.Info("ASN lookups finished", "inputs", len(inputs), "found", mr.Found())
			if err := writeResult(cmd.OutOrStdout(), d, mr); err != nil {
				return err
			}
			return cmd.Context().Err()
		},
	}
}
