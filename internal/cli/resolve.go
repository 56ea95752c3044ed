package cli

import (
	"github.com/spf13/cobra"

	"github.com/tbckr/asnmap/internal/report"
)

func newResolveCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:     "resolve [domain...]",
		Short:   "Map domains to the ASNs that host them",
		GroupID: "analysis",
		Long: `Resolve each domain to its IPv4 addresses and the origin ASN of every
address. Domains are read from the arguments or, without arguments, one per
line from stdin (blank lines and # comments are skipped).

Domains that cannot be resolved are kept with no ASN.`,
		Example: `  asnmap resolve example.com wikipedia.org
  cat domains.txt | asnmap resolve -o text`,
		Args: cobra.ArbitraryArgs,
		ValidArgsFunction: func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			domains, err := resolveInputs(cmd, args)
			if err != nil {
				return err
			}
			engine, err := d.newEngine()
			if err != nil {
				return err
			}
			idx, runErr := engine.Run(cmd.Context(), domains)
			if idx == nil {
				return runErr
			}
			if err := writeResult(cmd.OutOrStdout(), d, report.Build(idx, nil)); err != nil {
				return err
			}
			return runErr
		},
	}
}
