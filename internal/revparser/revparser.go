// Package revparser implements the Revolut statement layout.
//
// Revolut rows start with a "DD <abbrev-month>. YYYY" date token followed
// by the counterparty text, the transaction amount and a running balance.
// The direction of a transaction is only decidable at finalization, from a
// "De la:" sender marker in the detail lines or from a currency-exchange
// counterparty ("Schimbat în"/"To" plus the account's own currency).
package revparser

import (
	"fmt"
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
	// BIC that appears only in Revolut boilerplate.
	identitySignatureBIC = "REVOLT21"
	// Legal-entity line opening the Revolut footer.
	identitySignatureEntity = "Revolut Bank UAB Vilnius"

	transactionName = "revolut transaction"

	skipStartIBANBlock = "IBAN"
	statementPrefix    = "Extras "
	skipEndMarker      = "DatăDescriereSume retraseSume adăugateSold"

	referencePrefix = "Referință:"
	senderMarker    = "De la:"
)

// sectionEndMarkers terminate transaction parsing early: the pocket and
// returned-funds sections that follow the main table reuse the same row
// grammar and would otherwise be read as account transactions.
var sectionEndMarkers = []string{"Buzunare", "Fonduri returnate"}

// exchangeMarkers are counterparty prefixes of currency-exchange rows.
var exchangeMarkers = []string{"Schimbat în", "To"}

var (
	headerDateRe = regexp.MustCompile(
		`(?i)^(\d{1,2}) (ian|feb|mar|apr|mai|iun|iul|aug|sep|oct|nov|dec)\. (\d{4})`)
	statementDatesRe = regexp.MustCompile(
		`(?i)de la (\d{1,2}) (\w+) (\d{4}) până la (\d{1,2}) (\w+) (\d{4})`)

	// Known counterparty phrases, tried before the generic amount split.
	knownCounterpartyRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Top-Up by \*\d{4}`),
		regexp.MustCompile(`(?i)Transfer către [A-Z\- ]+`),
	}
)

// amountWithCurrencyRe builds the "#.###,## CUR" pattern for the account's
// currency.
func amountWithCurrencyRe(currency string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`(?i)(\d{1,3}(?:[.,]\d{3})*(?:[.,]\d{2}))\s*%s`, regexp.QuoteMeta(currency)))
}

func trailingAmountRe(currency string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`(\d{1,3}(?:[.,]\d{3})*(?:[.,]\d{2}))\s*%s$`, regexp.QuoteMeta(currency)))
}

// Parser implements models.StatementParser for Revolut.
type Parser struct{}

// New creates a Revolut parser.
func New() *Parser {
	return &Parser{}
}

// Bank returns the REV identity.
func (p *Parser) Bank() models.BankIdentity {
	return models.BankREV
}

// Identify reports whether the text carries Revolut boilerplate.
func (p *Parser) Identify(text string) bool {
	if strings.Contains(text, identitySignatureBIC) {
		return true
	}
	for _, line := range textutils.Lines(text) {
		if strings.HasPrefix(line, identitySignatureEntity) {
			return true
		}
	}
	return false
}

// ExtractCurrency reads the account currency from the "Extras <CUR>"
// statement title line.
func (p *Parser) ExtractCurrency(text string) *string {
	for _, line := range textutils.Lines(text) {
		if strings.HasPrefix(line, statementPrefix) {
			fields := strings.Fields(line)
			if len(fields) > 1 {
				cur := strings.ToUpper(fields[1])
				return &cur
			}
		}
	}
	return nil
}

// ExtractStatementDates reads the "de la D <month> YYYY până la D <month>
// YYYY" reporting period, with full Romanian month names.
func (p *Parser) ExtractStatementDates(text string) models.StatementDates {
	var dates models.StatementDates
	for _, line := range textutils.Lines(text) {
		m := statementDatesRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		startMonth, ok1 := dateutils.MonthNumber(m[2])
		endMonth, ok2 := dateutils.MonthNumber(m[5])
		if !ok1 || !ok2 {
			return dates
		}
		start := dateutils.ISODate(m[3], startMonth, atoi(m[1]))
		end := dateutils.ISODate(m[6], endMonth, atoi(m[4]))
		dates.StartDate = &start
		dates.EndDate = &end
		break
	}
	return dates
}

// ExtractInitialBalance reads the opening balance from the summary row:
// the one line holding exactly four currency-suffixed amounts (opening,
// withdrawn, added, closing), first position.
func (p *Parser) ExtractInitialBalance(text string) *decimal.Decimal {
	return p.balanceFromSummaryRow(text, 0)
}

// ExtractFinalBalance reads the closing balance: fourth position of the
// same summary row.
func (p *Parser) ExtractFinalBalance(text string) *decimal.Decimal {
	return p.balanceFromSummaryRow(text, 3)
}

func (p *Parser) balanceFromSummaryRow(text string, position int) *decimal.Decimal {
	currency := "RON"
	if cur := p.ExtractCurrency(text); cur != nil {
		currency = *cur
	}
	re := amountWithCurrencyRe(currency)
	for _, line := range textutils.Lines(text) {
		matches := re.FindAllStringSubmatch(line, -1)
		if len(matches) == 4 {
			return currencyutils.ParseLocaleAmountPtr(&matches[position][1])
		}
	}
	return nil
}

// header is the parsed form of a Revolut transaction row.
type header struct {
	date         string
	counterparty string
	amount       *string
}

// parseHeader recognizes a transaction row: a line starting with a
// "DD <abbrev-month>. YYYY" token. The trailing running balance is
// stripped, then the remainder is split into counterparty text and amount,
// preferring known counterparty phrases over the generic first-amount
// split.
func parseHeader(line, currency string) *header {
	m := headerDateRe.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	month, ok := dateutils.AbbrevMonthNumber(m[2])
	if !ok {
		return nil
	}
	h := &header{date: dateutils.ISODate(m[3], month, atoi(m[1]))}

	rest := strings.TrimSpace(line[len(m[0]):])
	rest = strings.TrimSpace(trailingAmountRe(currency).ReplaceAllString(rest, ""))

	amountRe := amountWithCurrencyRe(currency)

	for _, re := range knownCounterpartyRes {
		loc := re.FindStringIndex(rest)
		if loc == nil {
			continue
		}
		h.counterparty = rest[loc[0]:loc[1]]
		after := strings.TrimSpace(rest[loc[1]:])
		if am := amountRe.FindStringSubmatch(after); am != nil {
			h.amount = &am[1]
		}
		return h
	}

	if am := amountRe.FindStringSubmatchIndex(rest); am != nil {
		raw := rest[am[2]:am[3]]
		h.amount = &raw
		h.counterparty = strings.TrimSpace(rest[:am[0]])
	} else {
		h.counterparty = rest
	}
	return h
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}

// ExtractTransactions runs the Revolut line state machine. Parsing
// terminates early on a pocket/returned-funds section marker; everything
// finalized up to that point is kept.
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
		tx.Type = resolveType(&tx, currency)
		transactions = append(transactions, tx)
	}

	for _, line := range lines {
		if hasAnyPrefix(line, sectionEndMarkers) {
			finalize()
			break
		}

		if strings.HasPrefix(line, skipStartIBANBlock) ||
			strings.HasPrefix(line, statementPrefix+currency) {
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

		if h := parseHeader(line, currency); h != nil {
			finalize()
			counterparty := h.counterparty
			builder.Open(models.Transaction{
				Name:     transactionName,
				Date:     &h.date,
				Amount:   h.amount,
				Currency: currency,
				Location: &counterparty,
			})
			continue
		}

		if builder.IsOpen() {
			if strings.HasPrefix(line, referencePrefix) {
				builder.SetReference(strings.TrimSpace(strings.TrimPrefix(line, referencePrefix)))
				continue
			}
			builder.AppendDetail(line)
		}
	}

	finalize()

	log.Debug("Extracted Revolut transactions",
		logging.Field{Key: "count", Value: len(transactions)})
	return transactions
}

// resolveType decides the transaction direction at finalization: a sender
// marker in the details or an exchange into the account's own currency
// means income, anything else is an expense.
func resolveType(tx *models.Transaction, currency string) models.TransactionType {
	for _, line := range tx.Details {
		if strings.Contains(line, senderMarker) {
			return models.TypeIncome
		}
	}
	if tx.Location != nil {
		for _, marker := range exchangeMarkers {
			if strings.TrimSpace(strings.TrimPrefix(*tx.Location, marker)) == currency &&
				strings.HasPrefix(*tx.Location, marker+" ") {
				return models.TypeIncome
			}
		}
	}
	return models.TypeExpense
}

func hasAnyPrefix(line string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}
