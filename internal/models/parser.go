package models

import "github.com/shopspring/decimal"

// StatementParser is the capability set every supported statement layout
// implements. The detector and the assembler depend only on this interface,
// so adding a new format does not touch shared logic.
//
// Identify must key on a literal signature found only in that bank's
// boilerplate. The Extract functions are only meaningful once Identify has
// confirmed the format; they return nil for values that cannot be recovered
// (extraction is best-effort and degrades field by field).
type StatementParser interface {
	Bank() BankIdentity
	Identify(text string) bool
	ExtractCurrency(text string) *string
	ExtractInitialBalance(text string) *decimal.Decimal
	ExtractFinalBalance(text string) *decimal.Decimal
	ExtractStatementDates(text string) StatementDates
	ExtractTransactions(text string, currency string) []Transaction
}
