package ingparser

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"extrasjson/internal/logging"
	"extrasjson/internal/models"
)

func init() {
	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)
	SetLogger(logging.NewLogrusAdapterFromLogger(logger))
}

func TestIdentify(t *testing.T) {
	p := New()

	assert.True(t, p.Identify("ING Bank Romania RB-PJS-40 024/18.02.99 footer"))
	assert.False(t, p.Identify("some other statement"))
}

func TestExtractTransactionsExpenseHeader(t *testing.T) {
	text := "123,45 Cumparare POS corect 01 februarie 2024"

	txs := New().ExtractTransactions(text, "RON")
	require.Len(t, txs, 1)

	tx := txs[0]
	assert.Equal(t, "Cumparare POS corect", tx.Name)
	require.NotNil(t, tx.Date)
	assert.Equal(t, "2024-02-01", *tx.Date)
	require.NotNil(t, tx.Amount)
	assert.Equal(t, "123,45", *tx.Amount)
	assert.Equal(t, models.TypeExpense, tx.Type)
}

func TestExtractTransactionsIncomeHeaderAmountFromDetails(t *testing.T) {
	text := `Incasare ordin de plata 05 martie 2024
250,00
Ordonator: ACME SRL`

	txs := New().ExtractTransactions(text, "RON")
	require.Len(t, txs, 1)

	tx := txs[0]
	assert.Equal(t, "Incasare ordin de plata", tx.Name)
	assert.Equal(t, models.TypeIncome, tx.Type)
	require.NotNil(t, tx.Amount)
	assert.Equal(t, "250,00", *tx.Amount)
	require.NotNil(t, tx.Location)
	assert.Equal(t, "ACME SRL", *tx.Location)
	// Consumed lines are removed from details.
	assert.Empty(t, tx.Details)
}

func TestExtractTransactionsReference(t *testing.T) {
	text := `10,00 Plata card 02 februarie 2024
Referinta: 123ABC`

	txs := New().ExtractTransactions(text, "RON")
	require.Len(t, txs, 1)
	require.NotNil(t, txs[0].Reference)
	assert.Equal(t, "123ABC", *txs[0].Reference)
}

func TestExtractTransactionsFooterLookaheadSkip(t *testing.T) {
	text := `10,00 Plata card 02 februarie 2024
pagina 1
altceva
ING Bank N.V. Amsterdam legal footer
99,99 Plata card 03 februarie 2024
DebitCreditDetalii tranzactieData
20,00 Plata card 04 februarie 2024`

	txs := New().ExtractTransactions(text, "RON")
	require.Len(t, txs, 2)
	assert.Equal(t, "2024-02-02", *txs[0].Date)
	// The header inside the skip region is not recognized.
	assert.Equal(t, "2024-02-04", *txs[1].Date)
}

func TestExtractTransactionsBalanceLegendFinalizes(t *testing.T) {
	text := `10,00 Plata card 02 februarie 2024
detaliu tranzactie
Sold initial
1.000,00`

	txs := New().ExtractTransactions(text, "RON")
	require.Len(t, txs, 1)
	assert.Equal(t, []string{"detaliu tranzactie"}, txs[0].Details)
}

func TestExtractInitialBalance(t *testing.T) {
	p := New()

	// Amount on the legend line itself.
	balance := p.ExtractInitialBalance("Sold initial 1.234,56\nrest")
	require.NotNil(t, balance)
	assert.Equal(t, "1234.56", balance.String())

	// Amount wrapped onto the next line.
	balance = p.ExtractInitialBalance("Sold initial\n1.234,56")
	require.NotNil(t, balance)
	assert.Equal(t, "1234.56", balance.String())
}

func TestExtractFinalBalance(t *testing.T) {
	balance := New().ExtractFinalBalance("Sold final\n2.000,00")
	require.NotNil(t, balance)
	assert.Equal(t, "2000", balance.String())
}

func TestExtractCurrency(t *testing.T) {
	cur := New().ExtractCurrency("Cont curent RON IBAN RO49INGB0000999901234567")
	require.NotNil(t, cur)
	assert.Equal(t, "RON", *cur)
}

func TestExtractStatementDates(t *testing.T) {
	dates := New().ExtractStatementDates("perioada 01/02/2024-29/02/2024")
	require.NotNil(t, dates.StartDate)
	require.NotNil(t, dates.EndDate)
	assert.Equal(t, "2024-02-01", *dates.StartDate)
	assert.Equal(t, "2024-02-29", *dates.EndDate)
}
