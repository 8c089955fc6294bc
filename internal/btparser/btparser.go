// Package btparser implements the Banca Transilvania statement layout.
//
// BT statements open each transaction with one of a fixed set of
// transaction-type phrases. The transaction date is printed on its own line
// above the first transaction of a day and omitted for the rest, so the
// last seen date is carried forward.
package btparser

import (
	"regexp"
	"strings"

	"extrasjson/internal/dateutils"
	"extrasjson/internal/logging"
	"extrasjson/internal/models"
	"extrasjson/internal/textutils"

	"github.com/shopspring/decimal"
)

var log = logging.GetLogger()

// SetLogger allows setting a configured logger.
func SetLogger(logger logging.Logger) {
	if logger != nil {
		log = logger
	}
}

// Signature strings found only in BT boilerplate (trade registry and
// regulator numbers, with the spacing variants seen in the wild).
var identitySignatures = []string{
	"J12 / 4155 / 1993 • R.B. - P.J.R - 12 - 019",
	"J12/4155/1993 • R.B. - P.J.R-12-019",
	"Nr. Inreg. Registrul Comertului: J1993004155124",
}

// transactionKeywords are the known transaction-type phrases that open a
// transaction, in match-priority order.
var transactionKeywords = []string{
	"Plata la POS",
	"Retragere de numerar de la ATM BT",
	"Comision incasare OP",
	"Incasare ",
	"Incasare OP",
	"Rambursare principal credit",
	"Dobanda credit",
	"Abonament BT 24",
	"Depunere numerar ATM",
	"Plata OP intra - canal electronic",
	"365",
	"P2P BTPay",
	"Plata valutara intra",
	"Transfer intern",
}

const (
	skipStartMarker = "Clasificare BT"
	skipEndMarker   = "DataDescriere"
)

var (
	dateRe           = regexp.MustCompile(`(\d{2})/(\d{2})/(\d{4})`)
	amountRe         = regexp.MustCompile(`^\d{1,3}(?:[.,]\d{3})*(?:[.,]\d{2})$`)
	refRe            = regexp.MustCompile(`(?i)^REF[:.\s]`)
	valueLineRe      = regexp.MustCompile(`(?i)valoare tranzactie: ([\d.,]+)\s+([A-Z]{3})`)
	locationRe       = regexp.MustCompile(`(?:TID|MID)[:\s]+\S+\s+(.+?)\s+(?:RO|ROM|RON|RRN)\b`)
	initialBalanceRe = regexp.MustCompile(`SOLD ANTERIOR\s*\n\s*(\d{1,3}(?:,\d{3})*(?:\.\d{2})?)`)
	finalBalanceRe   = regexp.MustCompile(`SOLD FINAL CONT\s*\n\s*(\d{1,3}(?:[.,]\d{3})*(?:[.,]\d{2})?)`)
	currencyRe       = regexp.MustCompile(`(?i)([A-Z]{3})Cod IBAN:`)
	statementDatesRe = regexp.MustCompile(`(\d{2})/(\d{2})/(\d{4}) - (\d{2})/(\d{2})/(\d{4})`)
)

// Parser implements models.StatementParser for Banca Transilvania.
type Parser struct{}

// New creates a BT parser.
func New() *Parser {
	return &Parser{}
}

// Bank returns the BT identity.
func (p *Parser) Bank() models.BankIdentity {
	return models.BankBT
}

// Identify reports whether the text carries a BT boilerplate signature.
func (p *Parser) Identify(text string) bool {
	for _, sig := range identitySignatures {
		if strings.Contains(text, sig) {
			return true
		}
	}
	return false
}

// ExtractInitialBalance reads the amount following the "SOLD ANTERIOR"
// anchor line. The amount uses US punctuation; thousands commas are
// stripped before parsing.
func (p *Parser) ExtractInitialBalance(text string) *decimal.Decimal {
	m := initialBalanceRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	balance, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return nil
	}
	return &balance
}

// ExtractFinalBalance reads the amount following the "SOLD FINAL CONT"
// anchor line. All separators are stripped and the result is interpreted
// as cents.
func (p *Parser) ExtractFinalBalance(text string) *decimal.Decimal {
	m := finalBalanceRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	digits := strings.NewReplacer(",", "", ".", "").Replace(m[1])
	cents, err := decimal.NewFromString(digits)
	if err != nil {
		return nil
	}
	balance := cents.Div(decimal.NewFromInt(100))
	return &balance
}

// ExtractCurrency finds the account currency on the "<CUR>Cod IBAN:" line.
func (p *Parser) ExtractCurrency(text string) *string {
	for _, line := range textutils.Lines(text) {
		if m := currencyRe.FindStringSubmatch(line); m != nil {
			cur := strings.ToUpper(strings.TrimSpace(m[1]))
			return &cur
		}
	}
	return nil
}

// ExtractStatementDates reads the reporting period from the "EXTRAS CONT"
// header line.
func (p *Parser) ExtractStatementDates(text string) models.StatementDates {
	var dates models.StatementDates
	for _, line := range textutils.Lines(text) {
		if !strings.HasPrefix(line, "EXTRAS CONT") {
			continue
		}
		if m := statementDatesRe.FindStringSubmatch(line); m != nil {
			start := dateutils.ISOFromDMY(m[1], m[2], m[3])
			end := dateutils.ISOFromDMY(m[4], m[5], m[6])
			dates.StartDate = &start
			dates.EndDate = &end
			break
		}
	}
	return dates
}

// ExtractTransactions runs the BT line state machine over the statement
// text and returns the transactions in encounter order.
func (p *Parser) ExtractTransactions(text string, currency string) []models.Transaction {
	lines := textutils.Lines(text)
	var transactions []models.Transaction
	var builder models.TransactionBuilder
	var currentDate *string
	refSeen := false
	skipping := false

	finalize := func() {
		tx, ok := builder.Close()
		if !ok {
			return
		}
		if tx.Amount == nil {
			if raw := amountFromDetails(tx.Details); raw != nil {
				tx.Amount = raw
			}
		}
		// The joined-details window can match across line boundaries and
		// takes precedence over any per-line match.
		if m := locationRe.FindStringSubmatch(strings.Join(tx.Details, " ")); m != nil {
			loc := strings.TrimSpace(m[1])
			tx.Location = &loc
		}
		transactions = append(transactions, tx)
	}

	for i, line := range lines {
		if strings.HasPrefix(line, skipStartMarker) {
			skipping = true
			continue
		}
		if strings.HasPrefix(line, skipEndMarker) {
			skipping = false
			continue
		}
		if skipping {
			continue
		}

		if keyword := matchKeyword(line); keyword != "" {
			finalize()

			txType := models.TypeExpense
			if strings.HasPrefix(strings.ToLower(line), "incasare") {
				txType = models.TypeIncome
			}
			tx := models.Transaction{
				Name:     keyword,
				Currency: currency,
				Type:     txType,
			}

			rest := strings.TrimSpace(line[len(keyword):])
			if amountRe.MatchString(rest) {
				tx.Amount = &rest
			}

			// The date sits on the line above the header and is omitted
			// for repeat transactions on the same day.
			if i > 0 {
				if m := dateRe.FindStringSubmatch(lines[i-1]); m != nil {
					iso := dateutils.ISOFromDMY(m[1], m[2], m[3])
					currentDate = &iso
				}
			}
			tx.Date = currentDate

			builder.Open(tx)
			refSeen = false
			continue
		}

		// Once the reference line is consumed, nothing more is scanned or
		// accumulated for this transaction; only the amount on the line
		// right after the reference is honored as an override.
		if !builder.IsOpen() || refSeen {
			continue
		}

		if refRe.MatchString(line) {
			refSeen = true
			if i+1 < len(lines) && amountRe.MatchString(lines[i+1]) {
				builder.SetAmount(lines[i+1])
			}
			builder.SetReference(strings.TrimSpace(refRe.ReplaceAllString(line, "")))
			continue
		}

		if !builder.HasLocation() {
			if m := locationRe.FindStringSubmatch(line); m != nil {
				builder.SetLocation(strings.TrimSpace(m[1]))
			}
		}
		builder.AppendDetail(line)
	}

	finalize()

	log.Debug("Extracted BT transactions",
		logging.Field{Key: "count", Value: len(transactions)})
	return transactions
}

// matchKeyword returns the first transaction-type phrase the line starts
// with, or "" when the line is not a header.
func matchKeyword(line string) string {
	for _, keyword := range transactionKeywords {
		if strings.HasPrefix(line, keyword) {
			return keyword
		}
	}
	return ""
}

// amountFromDetails recovers a missing amount from accumulated detail
// lines. An explicit "valoare tranzactie: X CUR" marker wins over the
// first token shaped like an amount.
func amountFromDetails(details []string) *string {
	for _, line := range details {
		if m := valueLineRe.FindStringSubmatch(line); m != nil {
			raw := m[1]
			return &raw
		}
		for _, token := range strings.Fields(line) {
			if amountRe.MatchString(token) {
				t := token
				return &t
			}
		}
	}
	return nil
}
