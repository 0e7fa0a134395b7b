package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/init-pkg/trade-disclosure/domain/app"
	"github.com/init-pkg/trade-disclosure/domain/errs"
	workbook_service "github.com/init-pkg/trade-disclosure/internal/app/workbook/service"
	portfolio_store_client "github.com/init-pkg/trade-disclosure/internal/clients/portfolio-store"
	"github.com/init-pkg/trade-disclosure/internal/validation"
)

var (
	pushCreds app.Credentials
	pushKey   app.PortfolioKey
	pushID    uint64
	pushSheet string
)

var pushCmd = &cobra.Command{
	Use:   "push <file.xlsx>",
	Short: "Save one sheet of a workbook to the portfolio store",
	Long: `push creates a portfolio record for --investor/--quarter/--year, or
updates record --id when given.`,
	Args: cobra.ExactArgs(1),
	RunE: runPush,
}

func init() {
	f := pushCmd.Flags()
	f.StringVar(&pushCreds.Token, "token", os.Getenv("PORTFOLIO_STORE_TOKEN"), "bearer token")
	f.StringVar(&pushCreds.Username, "username", "", "acting user")
	f.Uint64Var(&pushKey.InvestorID, "investor", 0, "investor id")
	f.StringVar((*string)(&pushKey.Quarter), "quarter", "", "Q1..Q4")
	f.IntVar(&pushKey.Year, "year", 0, "year")
	f.Uint64Var(&pushID, "id", 0, "existing record id")
	f.StringVar(&pushSheet, "sheet", "", "sheet to push, defaults to the first")
	rootCmd.AddCommand(pushCmd)
}

func runPush(cmd *cobra.Command, args []string) error {
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
	sheet, ok := wb.Current(pushSheet)
	if !ok || (pushSheet != "" && sheet.Name != pushSheet) {
		return errs.Newf(errs.KindNotFound, "sheet %q not found", pushSheet)
	}

	payload := app.SheetPayload{Data: sheet.Rows, FileName: filepath.Base(args[0])}
	store := portfolio_store_client.New(cfg, log)

	var res *app.SaveResult
	if pushID != 0 {
		res, appErr = store.Update(cmd.Context(), pushCreds, pushID, payload)
	} else {
		if appErr = validation.Struct(pushKey); appErr != nil {
			return appErr
		}
		res, appErr = store.Create(cmd.Context(), pushCreds, pushKey, payload)
	}
	if appErr != nil {
		return appErr
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s (id %d)\n", res.Message, res.RecordID)
	return nil
}
