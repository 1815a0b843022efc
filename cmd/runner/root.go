package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runner",
		Short: "Drive a shell session from a script, typing like a person",
		Long: `runner replays a YAML script of commands against a fresh shell running
under a pseudo-terminal. Keystrokes arrive with human timing and the
occasional corrected typo, and each step waits for its expectation
(a pattern, a prompt, or the end of the command's process) before the
next one is typed. The session is mirrored to stdout so it can be
recorded.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newCheckCmd())

	return cmd
}

// addDataDirFlags registers the flags that override data directory
// selection.
func addDataDirFlags(cmd *cobra.Command, sel *dataDirSelection) {
	cmd.Flags().BoolVar(&sel.docker, "docker", false, "Override the automatic environment selection: read scripts from /project")
	cmd.Flags().BoolVar(&sel.noDocker, "no-docker", false, "Override the automatic environment selection: read scripts from the configured data directory")
	cmd.MarkFlagsMutuallyExclusive("docker", "no-docker")
}
