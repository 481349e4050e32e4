package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var flagTitle string

var recordCmd = &cobra.Command{
	Use:   "record <question> <answer>",
	Short: "Persist a question/answer exchange for future retrieval",
	Long: `record stores one successful exchange in the conversation store.
Recorded exchanges feed the conversation-history adapter on later corpus
builds, so good answers become retrievable context.`,
	Args: cobra.ExactArgs(2),
	RunE: runRecord,
}

func init() {
	recordCmd.Flags().StringVar(&flagTitle, "title", "", "conversation title (defaults to the question)")
	rootCmd.AddCommand(recordCmd)
}

func runRecord(cmd *cobra.Command, args []string) error {
	a, err := setupApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.History == nil {
		return errors.New("conversation store unavailable: check database configuration")
	}
	if err := a.History.Record(cmd.Context(), flagTitle, args[0], args[1]); err != nil {
		return fmt.Errorf("recording exchange: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Exchange recorded.")
	return nil
}
