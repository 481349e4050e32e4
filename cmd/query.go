package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var flagTopK int

var queryCmd = &cobra.Command{
	Use:   "query <text>",
	Short: "Retrieve knowledge fragments relevant to a query",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&flagTopK, "top-k", "k", 5, "maximum fragments to return")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	a, err := setupApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	query := strings.Join(args, " ")
	docs := a.Retrieve(cmd.Context(), query, flagTopK)
	if len(docs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No relevant knowledge found.")
		return nil
	}

	for i, doc := range docs {
		fmt.Fprintf(cmd.OutOrStdout(), "%d. [%s] (score %.3f)\n%s\n\n",
			i+1, doc.Source, doc.Score, doc.Content)
	}
	return nil
}
