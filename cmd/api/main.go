package main

import "github.com/init-pkg/trade-disclosure/internal/bootstrap"

// @title Trade Disclosure API
// @version 1.0
// @description Spreadsheet round-trip editing for related-person trade disclosures.
// @BasePath /api/v1
func main() {
	bootstrap.Run()
}
