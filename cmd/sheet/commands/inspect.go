package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	grid_service "github.com/init-pkg/trade-disclosure/internal/app/grid/service"
	workbook_service "github.com/init-pkg/trade-disclosure/internal/app/workbook/service"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.xlsx>",
	Short: "List the sheets of a workbook with their size and header detection",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	wb, appErr := workbook_service.New(cfg, log).Decode(data)
	if appErr != nil {
		return appErr
	}

	grid := grid_service.New()
	out := cmd.OutOrStdout()
	for _, s := range wb.Sheets {
		fmt.Fprintf(out, "%s\trows=%d\tcols=%d\theader=%t\n", s.Name, len(s.Rows), s.Rows.MaxCols(), len(s.Rows) > 0 && grid.HasHeaderRow(s.Rows))
	}
	return nil
}
