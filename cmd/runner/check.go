package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/goodbot/internal/config"
	"github.com/GriffinCanCode/goodbot/internal/runner"
	"github.com/GriffinCanCode/goodbot/internal/script"
)

func newCheckCmd() *cobra.Command {
	var sel dataDirSelection

	cmd := &cobra.Command{
		Use:   "check-config <file>",
		Short: "Validate a script without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			dataDir := sel.resolve(cfg.Session.DataDir, runningInContainer)
			sc, path, err := loadScript(dataDir, args[0])
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), path, sc.Summarize(), runner.OSEnvironment{})
			return nil
		},
	}

	addDataDirFlags(cmd, &sel)

	return cmd
}

func printSummary(w io.Writer, path string, sum script.Summary, env runner.EnvironmentLookup) {
	fmt.Fprintf(w, "%s is valid\n", path)
	fmt.Fprintf(w, "  steps:          %d\n", sum.Steps)
	fmt.Fprintf(w, "  prompt waits:   %d\n", sum.Prompts)
	fmt.Fprintf(w, "  pattern waits:  %d\n", sum.Patterns)
	fmt.Fprintf(w, "  process waits:  %d\n", sum.EndOfProcess)
	fmt.Fprintf(w, "  secrets:        %d\n", sum.Secrets)

	var missing []string
	seen := make(map[string]bool)
	for _, key := range sum.SecretEnvKeys {
		if seen[key] {
			continue
		}
		seen[key] = true
		if v, ok := env.LookupEnv(key); !ok || v == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		fmt.Fprintf(w, "warning: secret variables not set: %s\n", strings.Join(missing, ", "))
	}
}
