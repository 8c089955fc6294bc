// Package assembler orchestrates the statement pipeline: bank detection,
// metadata extraction, transaction extraction, sign normalization,
// classification and balance reconciliation, plus the multi-document merge.
package assembler

import (
	"regexp"
	"sort"
	"strings"

	"extrasjson/internal/classifier"
	"extrasjson/internal/currencyutils"
	"extrasjson/internal/detector"
	"extrasjson/internal/logging"
	"extrasjson/internal/models"
	"extrasjson/internal/parsererror"
	"extrasjson/internal/textutils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var log = logging.GetLogger()

// SetLogger allows setting a configured logger.
func SetLogger(logger logging.Logger) {
	if logger != nil {
		log = logger
	}
}

// unknownIBAN keys accounts of statements whose IBAN could not be located.
const unknownIBAN = "UNKNOWN"

// checksumTolerance is the allowed reconciliation drift.
var checksumTolerance = decimal.NewFromFloat(0.001)

var ibanRe = regexp.MustCompile(`[A-Z]{2}\d{2}[A-Z0-9]{12,30}`)

// Document is one statement text handed to the batch pipeline.
type Document struct {
	Name string
	Text string
}

// ParseStatement runs the full single-statement pipeline. An unrecognized
// format is not fatal: the result carries a nil bank, empty meta fields and
// no transactions.
func ParseStatement(text string, rules []models.CounterpartyRule) models.Account {
	parser, ok := detector.Detect(text)
	if !ok {
		log.WithError(&parsererror.UnrecognizedFormatError{Source: "statement text"}).
			Warn("Emitting record with null meta")
		return models.Account{
			IBAN:         extractIBAN(text, nil),
			Transactions: []models.Transaction{},
		}
	}

	bank := parser.Bank()
	currency := parser.ExtractCurrency(text)

	effectiveCurrency := "RON"
	if currency != nil {
		effectiveCurrency = *currency
	}

	meta := models.StatementMeta{
		Bank:           &bank,
		Currency:       currency,
		Dates:          parser.ExtractStatementDates(text),
		InitialBalance: parser.ExtractInitialBalance(text),
		FinalBalance:   parser.ExtractFinalBalance(text),
	}

	transactions := parser.ExtractTransactions(text, effectiveCurrency)
	for i := range transactions {
		normalizeAmount(&transactions[i])
		transactions[i].InternalID = uuid.NewString()
		classifier.Apply(&transactions[i], rules)
	}

	meta.ChecksumValid = ChecksumValid(meta.InitialBalance, meta.FinalBalance, transactions)

	account := models.Account{
		IBAN:         extractIBAN(text, &bank),
		Meta:         meta,
		Transactions: transactions,
	}

	log.Info("Parsed statement",
		logging.Field{Key: "bank", Value: string(bank)},
		logging.Field{Key: "iban", Value: account.IBAN},
		logging.Field{Key: "transactions", Value: len(transactions)},
		logging.Field{Key: "checksumValid", Value: meta.ChecksumValid})
	return account
}

// normalizeAmount parses the raw extracted amount and applies the sign
// convention: expenses are negative, incomes positive. Unparseable amounts
// leave the value nil.
func normalizeAmount(tx *models.Transaction) {
	value := currencyutils.ParseLocaleAmountPtr(tx.Amount)
	if value == nil {
		return
	}
	if tx.Type == models.TypeExpense {
		negated := value.Neg()
		value = &negated
	}
	tx.AmountValue = value
}

// ChecksumValid reports whether the signed transaction sum reconciles the
// opening and closing balances within tolerance. Missing balances never
// reconcile.
func ChecksumValid(initial, final *decimal.Decimal, transactions []models.Transaction) bool {
	if initial == nil || final == nil {
		return false
	}
	sum := decimal.Zero
	for i := range transactions {
		if transactions[i].AmountValue != nil {
			sum = sum.Add(*transactions[i].AmountValue)
		}
	}
	drift := final.Sub(*initial).Sub(sum).Abs()
	return drift.LessThan(checksumTolerance)
}

// extractIBAN locates the account IBAN in the statement text. Revolut
// statements carry the IBAN in a dedicated block opened by an "IBAN" line
// rather than near the boilerplate, so the scan starts there; every other
// format takes the first IBAN-shaped token in the text.
func extractIBAN(text string, bank *models.BankIdentity) string {
	if bank != nil && *bank == models.BankREV {
		lines := textutils.Lines(text)
		for i, line := range lines {
			if !strings.HasPrefix(line, "IBAN") {
				continue
			}
			for j := i; j < len(lines); j++ {
				if m := ibanRe.FindString(lines[j]); m != "" {
					return m
				}
			}
			break
		}
	}
	if m := ibanRe.FindString(text); m != "" {
		return m
	}
	return unknownIBAN
}

// MergeMetaArray folds per-document metas into one meta for the merged
// account. Metas are sorted by start date ascending; the result takes the
// earliest start date and opening balance, and the last element's end date
// and closing balance. Inputs are assumed chronologically contiguous and
// non-overlapping; gapped or overlapping ranges are folded as-is.
func MergeMetaArray(metas []models.StatementMeta) models.StatementMeta {
	if len(metas) == 0 {
		return models.StatementMeta{}
	}

	sorted := make([]models.StatementMeta, len(metas))
	copy(sorted, metas)
	sort.SliceStable(sorted, func(i, j int) bool {
		return startDateKey(sorted[i]) < startDateKey(sorted[j])
	})

	first := sorted[0]
	last := sorted[len(sorted)-1]

	return models.StatementMeta{
		Bank:     first.Bank,
		Currency: first.Currency,
		Dates: models.StatementDates{
			StartDate: first.Dates.StartDate,
			EndDate:   last.Dates.EndDate,
		},
		InitialBalance: first.InitialBalance,
		FinalBalance:   last.FinalBalance,
	}
}

func startDateKey(meta models.StatementMeta) string {
	if meta.Dates.StartDate == nil {
		return ""
	}
	return *meta.Dates.StartDate
}

// ParseBatch parses documents sequentially and merges results per IBAN.
// A document that fails to produce transactions still contributes its meta;
// processing never aborts mid-batch.
func ParseBatch(documents []Document, rules []models.CounterpartyRule) map[string]*models.Account {
	accounts := make(map[string]*models.Account)

	for _, doc := range documents {
		parsed := ParseStatement(doc.Text, rules)

		account, ok := accounts[parsed.IBAN]
		if !ok {
			account = &models.Account{IBAN: parsed.IBAN}
			accounts[parsed.IBAN] = account
		}
		account.MetaArray = append(account.MetaArray, parsed.Meta)
		account.Transactions = append(account.Transactions, parsed.Transactions...)

		log.Debug("Merged document into account",
			logging.Field{Key: "document", Value: doc.Name},
			logging.Field{Key: "iban", Value: parsed.IBAN})
	}

	for _, account := range accounts {
		merged := MergeMetaArray(account.MetaArray)
		merged.ChecksumValid = ChecksumValid(
			merged.InitialBalance, merged.FinalBalance, account.Transactions)
		account.Meta = merged
	}

	return accounts
}
