// Package export writes parsed accounts to their JSON and CSV output
// shapes.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"extrasjson/internal/logging"
	"extrasjson/internal/models"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

var log = logging.GetLogger()

// SetLogger allows setting a configured logger.
func SetLogger(logger logging.Logger) {
	if logger != nil {
		log = logger
	}
}

// AmountDocument is the nested amount of an output transaction.
type AmountDocument struct {
	Amount   *string `json:"amount"`
	Currency string  `json:"currency"`
}

// CounterpartyDocument is the nested counterparty of an output transaction.
type CounterpartyDocument struct {
	ID          *string `json:"id"`
	Description string  `json:"description"`
}

// TransactionDocument is one transaction in the output record.
type TransactionDocument struct {
	ProprietaryBankTransactionCode string               `json:"proprietaryBankTransactionCode"`
	BookingDate                    *string              `json:"bookingDate"`
	TransactionAmount              AmountDocument       `json:"transactionAmount"`
	Details                        []string             `json:"details"`
	TransactionID                  *string              `json:"transactionId"`
	Counterparty                   CounterpartyDocument `json:"counterparty"`
	Tag                            string               `json:"tag"`
	InternalTransactionID          string               `json:"internalTransactionId"`
}

// DatesDocument is the reporting period of an output meta.
type DatesDocument struct {
	StartDate *string `json:"startDate"`
	EndDate   *string `json:"endDate"`
}

// MetaDocument is the per-statement metadata of the output record.
type MetaDocument struct {
	Bank                 *string       `json:"bank"`
	Currency             *string       `json:"currency"`
	Dates                DatesDocument `json:"dates"`
	InitialBalance       *string       `json:"initialBalance"`
	FinalBalance         *string       `json:"finalBalance"`
	ValidCheckSumBalance bool          `json:"validCheckSumBalance"`
}

// AccountDocument is one IBAN's entry in the output record. MetaArray is
// present only in batch mode.
type AccountDocument struct {
	Meta         MetaDocument          `json:"meta"`
	MetaArray    []MetaDocument        `json:"meta_array,omitempty"`
	Transactions []TransactionDocument `json:"transactions"`
}

// Record is the full output document, keyed by IBAN.
type Record map[string]AccountDocument

func decimalString(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.StringFixed(2)
	return &s
}

func metaDocument(meta models.StatementMeta) MetaDocument {
	var bank *string
	if meta.Bank != nil {
		b := string(*meta.Bank)
		bank = &b
	}
	return MetaDocument{
		Bank:     bank,
		Currency: meta.Currency,
		Dates: DatesDocument{
			StartDate: meta.Dates.StartDate,
			EndDate:   meta.Dates.EndDate,
		},
		InitialBalance:       decimalString(meta.InitialBalance),
		FinalBalance:         decimalString(meta.FinalBalance),
		ValidCheckSumBalance: meta.ChecksumValid,
	}
}

func transactionDocument(tx models.Transaction) TransactionDocument {
	details := tx.Details
	if details == nil {
		details = []string{}
	}
	return TransactionDocument{
		ProprietaryBankTransactionCode: tx.Name,
		BookingDate:                    tx.Date,
		TransactionAmount: AmountDocument{
			Amount:   decimalString(tx.AmountValue),
			Currency: tx.Currency,
		},
		Details:       details,
		TransactionID: tx.Reference,
		Counterparty: CounterpartyDocument{
			ID:          tx.Counterparty.ID,
			Description: tx.Counterparty.Description,
		},
		Tag:                   tx.Tag,
		InternalTransactionID: tx.InternalID,
	}
}

// BuildRecord converts a single-document account to its output shape.
func BuildRecord(account models.Account) Record {
	return Record{account.IBAN: accountDocument(account, false)}
}

// BuildBatchRecord converts merged batch accounts to their output shape,
// carrying the per-document meta_array.
func BuildBatchRecord(accounts map[string]*models.Account) Record {
	record := make(Record, len(accounts))
	for iban, account := range accounts {
		record[iban] = accountDocument(*account, true)
	}
	return record
}

func accountDocument(account models.Account, withMetaArray bool) AccountDocument {
	doc := AccountDocument{
		Meta:         metaDocument(account.Meta),
		Transactions: make([]TransactionDocument, 0, len(account.Transactions)),
	}
	for _, tx := range account.Transactions {
		doc.Transactions = append(doc.Transactions, transactionDocument(tx))
	}
	if withMetaArray {
		doc.MetaArray = make([]MetaDocument, 0, len(account.MetaArray))
		for _, meta := range account.MetaArray {
			doc.MetaArray = append(doc.MetaArray, metaDocument(meta))
		}
	}
	return doc
}

// OutputFileName derives the JSON file name for a single-account record:
// "<iban>_<start>_<end>.json", falling back to a timestamped name when the
// reporting period is unknown.
func OutputFileName(account models.Account) string {
	start := account.Meta.Dates.StartDate
	end := account.Meta.Dates.EndDate
	if account.IBAN != "" && start != nil && end != nil {
		return fmt.Sprintf("%s_%s_%s.json", account.IBAN, *start, *end)
	}
	return fmt.Sprintf("transactions_%d.json", time.Now().Unix())
}

// WriteJSON writes the record as indented JSON, creating the output
// directory when needed.
func WriteJSON(path string, record Record) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output record: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing output %s: %w", path, err)
	}
	log.Info("Wrote output record", logging.Field{Key: "path", Value: path})
	return nil
}

// csvRow is the flat CSV projection of one transaction.
type csvRow struct {
	IBAN         string `csv:"iban"`
	BookingDate  string `csv:"bookingDate"`
	Code         string `csv:"proprietaryBankTransactionCode"`
	Amount       string `csv:"amount"`
	Currency     string `csv:"currency"`
	Counterparty string `csv:"counterparty"`
	Tag          string `csv:"tag"`
	Reference    string `csv:"reference"`
}

// WriteCSV writes the flat transaction list of all accounts as CSV.
func WriteCSV(path string, accounts map[string]*models.Account) error {
	var rows []csvRow
	for iban, account := range accounts {
		for _, tx := range account.Transactions {
			row := csvRow{
				IBAN:         iban,
				Code:         tx.Name,
				Currency:     tx.Currency,
				Counterparty: tx.Counterparty.Description,
				Tag:          tx.Tag,
			}
			if tx.Date != nil {
				row.BookingDate = *tx.Date
			}
			if tx.AmountValue != nil {
				row.Amount = tx.AmountValue.StringFixed(2)
			}
			if tx.Reference != nil {
				row.Reference = *tx.Reference
			}
			rows = append(rows, row)
		}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating CSV file %s: %w", path, err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return fmt.Errorf("writing CSV %s: %w", path, err)
	}
	log.Info("Wrote CSV export",
		logging.Field{Key: "path", Value: path},
		logging.Field{Key: "rows", Value: len(rows)})
	return nil
}
