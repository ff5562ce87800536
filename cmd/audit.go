package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/mcqgen/internal/mcq"
	"github.com/abhisek/mcqgen/internal/ui/render"
)

var auditCmd = &cobra.Command{
	Use:   "audit <bank.json>",
	Short: "Audit an existing question bank for defects",
	Long: `Reviews a JSON question bank (an array of questions, or an object with a
"questions" array such as the output of "generate --json"). When no provider
answers, local rule checks produce the report.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bank, err := loadBank(args[0])
		if err != nil {
			return err
		}

		e, err := newEngine(cmd.Context())
		if err != nil {
			return err
		}

		topic, _ := cmd.Flags().GetString("topic")
		report := e.Audit(cmd.Context(), bank, topic)

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(cmd.OutOrStdout(), report)
		}
		fmt.Fprint(cmd.OutOrStdout(), render.Report(report, bank))
		return nil
	},
}

func init() {
	auditCmd.Flags().StringP("topic", "t", "", "Topic hint for the reviewer")
	auditCmd.Flags().Bool("json", false, "Print JSON instead of formatted output")
}

func loadBank(path string) ([]mcq.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bank: %w", err)
	}
	raw, err := mcq.Sanitize(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse bank %s: %w", path, err)
	}
	var bank []mcq.Record
	if err := json.Unmarshal(raw, &bank); err != nil {
		return nil, fmt.Errorf("parse bank %s: expected an array of questions: %w", path, err)
	}
	return bank, nil
}
