// Package main is the operator CLI for the settlement ledger.
package main

import (
	"os"

	"github.com/contractpay/settlement-backend/cmd/ledgerctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
