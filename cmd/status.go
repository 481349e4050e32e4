package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the retrieval mode and corpus state",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	a, err := setupApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	// Each process builds its own cache, so a fresh CLI invocation has
	// nothing cached yet; build first so status reflects a real generation.
	a.Retrieval.Refresh(cmd.Context())

	status, ok := a.Retrieval.CurrentStatus()
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "No knowledge corpus built.")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Mode:      %s\n", status.Mode)
	fmt.Fprintf(cmd.OutOrStdout(), "Fragments: %d\n", status.FragmentCount)
	fmt.Fprintf(cmd.OutOrStdout(), "Age:       %.1fs\n", status.AgeSeconds)
	return nil
}
