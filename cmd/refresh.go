package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Rebuild the knowledge corpus regardless of cache age",
	Args:  cobra.NoArgs,
	RunE:  runRefresh,
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}

func runRefresh(cmd *cobra.Command, _ []string) error {
	a, err := setupApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	result := a.Retrieval.Refresh(cmd.Context())
	if !result.Success {
		fmt.Fprintln(cmd.OutOrStdout(), "Rebuild produced an empty corpus; check adapter warnings above.")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Knowledge corpus rebuilt: %d fragments.\n", result.FragmentCount)
	return nil
}
