package main

import (
	"os"

	"github.com/SscSPs/personal_ledger/cmd/ledger_backend/cmd"
)

// @title Personal Ledger API
// @version 1.0
// @description Accounts, transactions, categories, budgets and statistics for a personal ledger.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
