package config

import "github.com/spf13/cobra"

// CompleteOutputFormat provides shell completion candidates for the --output flag.
func CompleteOutputFormat(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return formatNames(), cobra.ShellCompDirectiveNoFileComp
}

// CompleteFile restricts completion to files with the given extensions.
func CompleteFile(exts ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return exts, cobra.ShellCompDirectiveFilterFileExt
	}
}

// RegisterFlagCompletions wires completion functions for the persistent flags
// registered by RegisterFlags.
func RegisterFlagCompletions(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("output", CompleteOutputFormat)
	_ = cmd.RegisterFlagCompletionFunc("config", CompleteFile("yaml", "yml"))
	_ = cmd.RegisterFlagCompletionFunc("input", CompleteFile("csv", "txt"))
	_ = cmd.RegisterFlagCompletionFunc("resolver", cobra.NoFileCompletions)
	_ = cmd.RegisterFlagCompletionFunc("asn-zone", cobra.NoFileCompletions)
}
