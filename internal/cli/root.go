// Package cli provides the Cobra command tree and output wiring for asnmap.
package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/tbckr/asnmap/internal/config"
	"github.com/tbckr/asnmap/internal/services"
	"github.com/tbckr/asnmap/internal/version"
)

// newRootCmd builds the top-level Cobra command. A nil querier selects the
// live DNS client built from config.
func newRootCmd(querier services.Querier) *cobra.Command {
	// d is populated by PersistentPreRunE before any subcommand's RunE runs.
	// Cobra only executes the innermost PersistentPreRunE, so subcommands
	// must not define their own (completion is the one exception).
	d := deps{querier: querier}

	cmd := &cobra.Command{
		Use:   "asnmap",
		Short: "Measure how concentrated popular websites are across autonomous systems",
		Long: `asnmap resolves the top N domains of a ranking list to their IPv4
addresses, maps every address to its origin ASN over DNS, and reports which
networks host which sites.

A queries go to the configured resolver; origin lookups are TXT queries for
the reversed address under the ASN zone (origin.asn.cymru.com by default).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			resolved, err := buildDeps(cmd, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			resolved.querier = d.querier
			d = *resolved
			return nil
		},
	}

	config.RegisterFlags(cmd.PersistentFlags())
	config.RegisterFlagCompletions(cmd)

	cmd.Version = version.Version
	cmd.SetVersionTemplate("asnmap version {{.Version}}\n")

	cmd.AddGroup(
		&cobra.Group{ID: "analysis", Title: "Analysis Commands:"},
		&cobra.Group{ID: "utility", Title: "Utility Commands:"},
	)

	cmd.AddCommand(
		newAnalyzeCmd(&d),
		newResolveCmd(&d),
		newOriginCmd(&d),
		newASNCmd(&d),
		newConfigCmd(&d),
		newCompletionCmd(),
		newVersionCmd(&d),
	)
	return cmd
}

// Execute runs the command tree with args (without the program name).
func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd := newRootCmd(nil)
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd.ExecuteContext(ctx)
}
