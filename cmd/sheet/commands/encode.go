package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/init-pkg/trade-disclosure/domain/app"
	workbook_service "github.com/init-pkg/trade-disclosure/internal/app/workbook/service"
)

var encodeSheetName string

var encodeCmd = &cobra.Command{
	Use:   "encode <rows.json> <out.xlsx>",
	Short: "Write a JSON array of rows as a single-sheet workbook",
	Long: `encode reads a JSON array of rows, each an array of strings, numbers or
nulls, and writes them as one sheet. Numbers stay numeric cells.`,
	Args: cobra.ExactArgs(2),
	RunE: runEncode,
}

func init() {
	encodeCmd.Flags().StringVar(&encodeSheetName, "sheet", app.DefaultSheetName, "sheet name")
	rootCmd.AddCommand(encodeCmd)
}

func runEncode(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	var rows app.Sheet
	if err := json.Unmarshal(raw, &rows); err != nil {
		return fmt.Errorf("parse %s: %w", args[0], err)
	}

	content, appErr := workbook_service.New(cfg, log).Encode(rows, encodeSheetName)
	if appErr != nil {
		return appErr
	}
	if err := os.WriteFile(args[1], content, 0o644); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d rows)\n", args[1], len(rows))
	return nil
}
