package cli

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tbckr/asnmap/internal/config"
	"github.com/tbckr/asnmap/internal/output"
)

func newConfigCmd(d *deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Read and write asnmap config file values",
		GroupID: "utility",
	}
	cmd.AddCommand(
		newConfigPathCmd(d),
		newConfigShowCmd(d),
		newConfigGetCmd(d),
		newConfigSetCmd(d),
		newConfigEditCmd(d),
	)
	return cmd
}

func newConfigPathCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), d.cfg.ConfigFile)
			return err
		},
	}
}

// settings is the effective configuration, keyed like the config file.
// Values come from the fully resolved config, so flags and env count too.
type settings map[string]string

func effectiveSettings(cfg *config.Config) settings {
	return settings{
		"verbose":       strconv.FormatBool(cfg.Verbose),
		"output":        cfg.Output,
		"input":         cfg.Input,
		"asn_file":      cfg.ASNFile,
		"lookup_owners": strconv.FormatBool(cfg.LookupOwners),
		"prefix":        cfg.Prefix,
		"threshold":     strconv.Itoa(cfg.Threshold),
		"resolver":      cfg.Resolver,
		"asn_zone":      cfg.ASNZone,
		"concurrency":   strconv.Itoa(cfg.Concurrency),
		"timeout":       cfg.Timeout.String(),
		"rate_limit":    strconv.FormatFloat(cfg.RateLimit, 'g', -1, 64),
		"dedup_ips":     strconv.FormatBool(cfg.DedupIPs),
		"proxy":         cfg.Proxy,
		"user_agent":    cfg.UserAgent,
	}
}

func (s settings) WriteText(w io.Writer) error {
	for _, k := range config.ValidKeys() {
		if _, err := fmt.Fprintf(w, "%s=%s\n", k, s[k]); err != nil {
			return err
		}
	}
	return nil
}

func (s settings) WriteTable(w io.Writer) error {
	keys := config.ValidKeys()
	rows := make([][]string, len(keys))
	for i, k := range keys {
		rows[i] = []string{k, s[k]}
	}
	table := output.NewWrappingTable(w, 20, 6)
	table.Header([]string{"KEY", "VALUE"})
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

func newConfigShowCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:     "show",
		Aliases: []string{"cat"},
		Short:   "Display all effective config settings",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeResult(cmd.OutOrStdout(), d, effectiveSettings(d.cfg))
		},
	}
}

func newConfigGetCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print the effective value of a config key",
		Args:  cobra.ExactArgs(1),
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return config.ValidKeys(), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			key := normalizeConfigKey(args[0])
			if err := config.ValidateKey(key); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), effectiveSettings(d.cfg)[key])
			return err
		},
	}
}

func newConfigSetCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a config value and persist it to the config file",
		Args:  cobra.ExactArgs(2),
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			switch len(args) {
			case 0:
				return config.ValidKeys(), cobra.ShellCompDirectiveNoFileComp
			case 1:
				return config.KeyCompletions(args[0]), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(_ *cobra.Command, args []string) error {
			key := normalizeConfigKey(args[0])
			value, err := config.ParseValue(key, args[1])
			if err != nil {
				return err
			}

			// Only keys already in the file are carried over, never the
			// resolved defaults, so a fresh file gains exactly one key.
			raw := map[string]any{}
			data, err := os.ReadFile(d.cfg.ConfigFile)
			if err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("reading config file: %w", err)
			}
			if len(data) > 0 {
				if err := yaml.Unmarshal(data, &raw); err != nil {
					return fmt.Errorf("parsing config file: %w", err)
				}
			}
			raw[key] = value

			out, err := yaml.Marshal(raw)
			if err != nil {
				return fmt.Errorf("marshaling config: %w", err)
			}
			if err := os.WriteFile(d.cfg.ConfigFile, out, 0o600); err != nil {
				return fmt.Errorf("writing config file: %w", err)
			}
			return nil
		},
	}
}

func newConfigEditCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Open the config file in $EDITOR",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			editor := os.Getenv("EDITOR")
			if editor == "" {
				editor = os.Getenv("VISUAL")
			}
			if editor == "" {
				editor = "vi"
			}
			c := exec.CommandContext(cmd.Context(), editor, d.cfg.ConfigFile) //nolint:gosec // editor comes from the user's environment
			c.Stdin = cmd.InOrStdin()
			c.Stdout = cmd.OutOrStdout()
			c.Stderr = cmd.ErrOrStderr()
			return c.Run()
		},
	}
}

// normalizeConfigKey converts hyphenated flag names to config keys
// (e.g. "rate-limit" → "rate_limit").
func normalizeConfigKey(key string) string {
	return strings.ReplaceAll(key, "-", "_")
}
