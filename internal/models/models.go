// Package models provides the data structures shared by the format parsers,
// the counterparty classifier and the statement assembler.
package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// BankIdentity identifies one of the supported statement layouts.
// It is determined once per document and never changes afterwards.
type BankIdentity string

const (
	BankBT  BankIdentity = "BT"
	BankING BankIdentity = "ING"
	BankREV BankIdentity = "REV"
)

// TransactionType marks the direction of a transaction.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Counterparty is the classification result attached to a transaction.
// ID is nil when no rule matched; Description is then "Unknown".
type Counterparty struct {
	ID          *string `json:"id"`
	Description string  `json:"description"`
}

// Transaction represents one extracted statement entry.
//
// Amount starts out as the raw numeral string exactly as printed in the
// statement ("123,45", "1.234,56"). The assembler normalizes it to a signed
// decimal string and fills AmountValue; the sign invariant is
// AmountValue < 0 <=> Type == TypeExpense.
type Transaction struct {
	Name         string
	Date         *string // ISO YYYY-MM-DD; nil when no date could be recovered
	Amount       *string
	AmountValue  *decimal.Decimal
	Currency     string
	Type         TransactionType
	Details      []string
	Reference    *string
	Location     *string
	Counterparty Counterparty
	Tag          string
	InternalID   string
}

// StatementDates holds the reporting period of a statement.
type StatementDates struct {
	StartDate *string `json:"startDate"`
	EndDate   *string `json:"endDate"`
}

// StatementMeta is the per-document header data. All pointer fields stay nil
// when the format could not be recognized or a value could not be extracted.
type StatementMeta struct {
	Bank           *BankIdentity
	Currency       *string
	Dates          StatementDates
	InitialBalance *decimal.Decimal
	FinalBalance   *decimal.Decimal
	ChecksumValid  bool
}

// Account is one IBAN's statement history. When assembled from several
// source documents, MetaArray keeps the per-document metas that were merged
// into Meta.
type Account struct {
	IBAN         string
	Meta         StatementMeta
	MetaArray    []StatementMeta
	Transactions []Transaction
}

// RuleField selects which transaction field a classification pattern is
// matched against.
type RuleField string

const (
	FieldName      RuleField = "name"
	FieldDetails   RuleField = "details"
	FieldLocation  RuleField = "location"
	FieldReference RuleField = "reference"
)

// RulePattern is a single regex test within a counterparty rule.
type RulePattern struct {
	Field RuleField `yaml:"field" json:"field"`
	Value string    `yaml:"value" json:"value"`
}

// CounterpartyRule maps transactions to a canonical counterparty name.
// Rules and their patterns are evaluated in list order; first match wins.
type CounterpartyRule struct {
	Name     string        `yaml:"name" json:"name"`
	Patterns []RulePattern `yaml:"patterns" json:"patterns"`
	Tag      string        `yaml:"tag,omitempty" json:"tag,omitempty"`
}

// FieldValue returns the transaction field a rule pattern refers to.
// Multi-valued fields are joined with a single space before matching.
func (t *Transaction) FieldValue(field RuleField) string {
	switch field {
	case FieldName:
		return t.Name
	case FieldDetails:
		return strings.Join(t.Details, " ")
	case FieldLocation:
		if t.Location != nil {
			return *t.Location
		}
		return ""
	case FieldReference:
		if t.Reference != nil {
			return *t.Reference
		}
		return ""
	}
	return ""
}
