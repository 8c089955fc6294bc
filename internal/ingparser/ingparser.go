// Package ingparser implements the ING Bank Romania statement layout.
//
// ING prints each transaction as a line ending with a "DD <Romanian month>
// YYYY" date token. Expenses carry a "#.###,##" amount at the very start of
// the header line; headers without a leading amount are provisionally
// income until finalization. Balance legends and a right-censored legal
// footer must be skipped, the footer by lookahead because its first lines
// are indistinguishable from detail text.
package ingparser

import (
	"regexp"
	"strings"

	"extrasjson/internal/currencyutils"
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

const (
	identitySignature = "RB-PJS-40 024/18.02.99"

	// Footer marker detected two lines ahead of the skip-region start.
	boilerplateMarker = "ING Bank N.V. Amsterdam"

	skipEndMarker = "DebitCreditDetalii tranzactieData"
)

// skipStartMarkers open a skip region directly (balance legend rows, in
// both diacritic spellings).
var skipStartMarkers = []string{"Sold iniţial", "Sold initial"}

// counterpartyKeywords anchor the location inside detail lines.
var counterpartyKeywords = []string{"Ordonator:", "Beneficiar:", "Terminal:"}

// referenceKeywords anchor the reference inside detail lines.
var referenceKeywords = []string{
	"Referinţă:",
	"Referinta:",
	"Numar autorizare:",
	"Autorizare:",
}

var (
	headerDateRe = regexp.MustCompile(
		`(?i)(\d{2})\s+(ianuarie|februarie|martie|aprilie|mai|iunie|iulie|august|septembrie|octombrie|noiembrie|decembrie)\s+(\d{4})$`)
	headerAmountRe   = regexp.MustCompile(`^(\d{1,3}(?:\.\d{3})*,\d{2})`)
	detailAmountRe   = regexp.MustCompile(`^(\d{1,3}(?:\.\d{3})*,\d{2})$`)
	initialBalanceRe = regexp.MustCompile(`Sold (?:iniţial|initial)\s*(\d{1,3}(?:\.\d{3})*,\d{2})`)
	// No word boundary after the currency code: a code embedded in an
	// adjacent alphanumeric run still matches. Known imprecision of the
	// format, replicated on purpose.
	currencyRe       = regexp.MustCompile(`(RON|EUR|USD)(?:[A-Z]*\d*|[A-Z]+\d*)`)
	statementDatesRe = regexp.MustCompile(`(\d{2})/(\d{2})/(\d{4})-(\d{2})/(\d{2})/(\d{4})`)
)

// Parser implements models.StatementParser for ING Bank Romania.
type Parser struct{}

// New creates an ING parser.
func New() *Parser {
	return &Parser{}
}

// Bank returns the ING identity.
func (p *Parser) Bank() models.BankIdentity {
	return models.BankING
}

// Identify reports whether the text carries the ING regulator signature.
func (p *Parser) Identify(text string) bool {
	return strings.Contains(text, identitySignature)
}

// ExtractInitialBalance reads the opening balance from the "Sold iniţial"
// legend line, falling back to the line below it when the amount wrapped.
func (p *Parser) ExtractInitialBalance(text string) *decimal.Decimal {
	lines := textutils.Lines(text)
	for i, line := range lines {
		if !hasAnyPrefix(line, skipStartMarkers) {
			continue
		}
		if m := initialBalanceRe.FindStringSubmatch(line); m != nil {
			return currencyutils.ParseLocaleAmountPtr(&m[1])
		}
		if i+1 < len(lines) {
			return currencyutils.ParseLocaleAmountPtr(&lines[i+1])
		}
		return nil
	}
	return nil
}

// ExtractFinalBalance reads the closing balance from the line below the
// "Sold final" legend.
func (p *Parser) ExtractFinalBalance(text string) *decimal.Decimal {
	lines := textutils.Lines(text)
	for i, line := range lines {
		if strings.HasPrefix(line, "Sold final") {
			if i+1 < len(lines) {
				return currencyutils.ParseLocaleAmountPtr(&lines[i+1])
			}
			return nil
		}
	}
	return nil
}

// ExtractCurrency returns the first known currency code found anywhere in
// the text.
func (p *Parser) ExtractCurrency(text string) *string {
	if m := currencyRe.FindStringSubmatch(text); m != nil {
		return &m[1]
	}
	return nil
}

// ExtractStatementDates reads the "DD/MM/YYYY-DD/MM/YYYY" reporting period.
func (p *Parser) ExtractStatementDates(text string) models.StatementDates {
	var dates models.StatementDates
	if m := statementDatesRe.FindStringSubmatch(text); m != nil {
		start := dateutils.ISOFromDMY(m[1], m[2], m[3])
		end := dateutils.ISOFromDMY(m[4], m[5], m[6])
		dates.StartDate = &start
		dates.EndDate = &end
	}
	return dates
}

// headerLine is the parsed form of an ING transaction header.
type headerLine struct {
	date   string
	amount *string
	name   string
	txType models.TransactionType
}

// parseHeaderLine recognizes a transaction header: a line ending in a
// Romanian-month date token. Returns nil for non-header lines.
func parseHeaderLine(line string) *headerLine {
	m := headerDateRe.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	month, ok := dateutils.MonthNumber(m[2])
	if !ok {
		return nil
	}

	day := m[1]
	date := dateutils.ISODate(m[3], month, atoi(day))
	rest := strings.TrimSpace(headerDateRe.ReplaceAllString(line, ""))

	if am := headerAmountRe.FindStringSubmatch(rest); am != nil {
		raw := am[1]
		name := strings.TrimSpace(strings.Replace(rest, raw, "", 1))
		return &headerLine{date: date, amount: &raw, name: name, txType: models.TypeExpense}
	}
	return &headerLine{date: date, name: rest, txType: models.TypeIncome}
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}

// ExtractTransactions runs the ING line state machine over the statement
// text. Headers are not recognized inside skip regions even when they
// match the date pattern.
func (p *Parser) ExtractTransactions(text string, currency string) []models.Transaction {
	lines := textutils.Lines(text)
	var transactions []models.Transaction
	var builder models.TransactionBuilder
	skipping := false

	finalize := func() {
		tx, ok := builder.Close()
		if !ok {
			return
		}
		resolveAmount(&tx)
		resolveLocation(&tx)
		resolveReference(&tx)
		transactions = append(transactions, tx)
	}

	for i, line := range lines {
		lookahead := i+2 < len(lines) && strings.HasPrefix(lines[i+2], boilerplateMarker)
		if hasAnyPrefix(line, skipStartMarkers) || lookahead {
			skipping = true
			finalize()
			continue
		}
		if strings.HasPrefix(line, skipEndMarker) {
			skipping = false
			continue
		}
		if skipping {
			continue
		}

		if header := parseHeaderLine(line); header != nil {
			finalize()
			loc := ""
			builder.Open(models.Transaction{
				Name:     header.name,
				Date:     &header.date,
				Amount:   header.amount,
				Currency: currency,
				Type:     header.txType,
				Location: &loc,
			})
			continue
		}

		if builder.IsOpen() {
			builder.AppendDetail(line)
		}
	}

	finalize()

	log.Debug("Extracted ING transactions",
		logging.Field{Key: "count", Value: len(transactions)})
	return transactions
}

// resolveAmount scans detail lines for a standalone amount when the header
// carried none, consuming the matched line.
func resolveAmount(tx *models.Transaction) {
	if tx.Amount != nil {
		return
	}
	for i, line := range tx.Details {
		if detailAmountRe.MatchString(line) {
			raw := line
			tx.Amount = &raw
			tx.Details = append(tx.Details[:i:i], tx.Details[i+1:]...)
			return
		}
	}
}

// resolveLocation scans detail lines for an Ordonator/Beneficiar/Terminal
// prefix, consuming the matched line.
func resolveLocation(tx *models.Transaction) {
	for i, line := range tx.Details {
		for _, keyword := range counterpartyKeywords {
			if strings.HasPrefix(line, keyword) {
				loc := strings.TrimSpace(strings.TrimPrefix(line, keyword))
				tx.Location = &loc
				tx.Details = append(tx.Details[:i:i], tx.Details[i+1:]...)
				return
			}
		}
	}
}

// resolveReference scans detail lines for a reference keyword, consuming
// the matched line. The reference is the text after the last colon.
func resolveReference(tx *models.Transaction) {
	for i, line := range tx.Details {
		for _, keyword := range referenceKeywords {
			if strings.Contains(line, keyword) {
				parts := strings.Split(line, ":")
				ref := strings.TrimSpace(parts[len(parts)-1])
				tx.Reference = &ref
				tx.Details = append(tx.Details[:i:i], tx.Details[i+1:]...)
				return
			}
		}
	}
}

func hasAnyPrefix(line string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}
