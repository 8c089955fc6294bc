package btparser

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

	assert.True(t, p.Identify("header\nNr. Inreg. Registrul Comertului: J1993004155124\nfooter"))
	assert.True(t, p.Identify("J12 / 4155 / 1993 • R.B. - P.J.R - 12 - 019"))
	assert.False(t, p.Identify("some unrelated statement text"))
}

func TestExtractTransactionsSimple(t *testing.T) {
	text := "01/02/2024\nPlata la POS 123,45"

	txs := New().ExtractTransactions(text, "RON")
	require.Len(t, txs, 1)

	tx := txs[0]
	assert.Equal(t, "Plata la POS", tx.Name)
	require.NotNil(t, tx.Date)
	assert.Equal(t, "2024-02-01", *tx.Date)
	require.NotNil(t, tx.Amount)
	assert.Equal(t, "123,45", *tx.Amount)
	assert.Equal(t, models.TypeExpense, tx.Type)
}

func TestExtractTransactionsCountsHeaders(t *testing.T) {
	text := `01/02/2024
Plata la POS 10,00
02/02/2024
Retragere de numerar de la ATM BT 200,00
03/02/2024
Incasare OP 300,00`

	txs := New().ExtractTransactions(text, "RON")
	require.Len(t, txs, 3)
	for _, tx := range txs {
		assert.NotNil(t, tx.Date)
	}
	assert.Equal(t, models.TypeExpense, txs[0].Type)
	assert.Equal(t, models.TypeExpense, txs[1].Type)
	assert.Equal(t, models.TypeIncome, txs[2].Type)
}

func TestExtractTransactionsDateCarriedForward(t *testing.T) {
	text := `01/02/2024
Plata la POS 10,00
Plata la POS 20,00`

	txs := New().ExtractTransactions(text, "RON")
	require.Len(t, txs, 2)
	require.NotNil(t, txs[1].Date)
	assert.Equal(t, "2024-02-01", *txs[1].Date)
}

func TestExtractTransactionsSkipRegion(t *testing.T) {
	text := `01/02/2024
Plata la POS 10,00
Clasificare BT legend
Plata la POS 99,99
DataDescriere table header
Plata la POS 20,00`

	txs := New().ExtractTransactions(text, "RON")
	require.Len(t, txs, 2)
	assert.Equal(t, "10,00", *txs[0].Amount)
	assert.Equal(t, "20,00", *txs[1].Amount)
}

func TestExtractTransactionsReferenceHaltsScanning(t *testing.T) {
	text := `01/02/2024
Retragere de numerar de la ATM BT
REF: ABC123
150,00
TID: 001 Cluj RON after ref`

	txs := New().ExtractTransactions(text, "RON")
	require.Len(t, txs, 1)

	tx := txs[0]
	require.NotNil(t, tx.Reference)
	assert.Equal(t, "ABC123", *tx.Reference)
	// Amount on the line right after the reference is still honored.
	require.NotNil(t, tx.Amount)
	assert.Equal(t, "150,00", *tx.Amount)
	// Location after the reference line is not scanned.
	assert.Nil(t, tx.Location)
}

func TestExtractTransactionsLocationFromDetails(t *testing.T) {
	text := `01/02/2024
Plata la POS 55,00
TID: 12345 MEGA IMAGE RON something`

	txs := New().ExtractTransactions(text, "RON")
	require.Len(t, txs, 1)
	require.NotNil(t, txs[0].Location)
	assert.Equal(t, "MEGA IMAGE", *txs[0].Location)
}

func TestExtractTransactionsJoinedLocationOverridesPerLine(t *testing.T) {
	// The TID/MID window on the first detail line only completes once the
	// next line is joined, and that earlier match wins over the per-line
	// match found on the second line alone.
	text := `01/02/2024
Plata la POS 55,00
MID: 77 OMV
PETROM RON TID: 99 LIDL RON`

	txs := New().ExtractTransactions(text, "RON")
	require.Len(t, txs, 1)
	require.NotNil(t, txs[0].Location)
	assert.Equal(t, "OMV PETROM", *txs[0].Location)
}

func TestExtractTransactionsAmountRecoveredFromValueLine(t *testing.T) {
	text := `01/02/2024
Plata valutara intra
detalii plata externa
valoare tranzactie: 45,67 EUR`

	txs := New().ExtractTransactions(text, "RON")
	require.Len(t, txs, 1)
	require.NotNil(t, txs[0].Amount)
	assert.Equal(t, "45,67", *txs[0].Amount)
}

func TestExtractTransactionsAmountRecoveredFromToken(t *testing.T) {
	text := `01/02/2024
Transfer intern
catre contul de economii 250,00 la termen`

	txs := New().ExtractTransactions(text, "RON")
	require.Len(t, txs, 1)
	require.NotNil(t, txs[0].Amount)
	assert.Equal(t, "250,00", *txs[0].Amount)
}

func TestExtractInitialBalance(t *testing.T) {
	text := "SOLD ANTERIOR\n1,234.56\nrest"

	balance := New().ExtractInitialBalance(text)
	require.NotNil(t, balance)
	assert.Equal(t, "1234.56", balance.String())
}

func TestExtractFinalBalance(t *testing.T) {
	// All separators are stripped and the digits interpreted as cents.
	text := "SOLD FINAL CONT\n1,234.56\nrest"

	balance := New().ExtractFinalBalance(text)
	require.NotNil(t, balance)
	assert.Equal(t, "1234.56", balance.String())
}

func TestExtractCurrency(t *testing.T) {
	text := "header\nRONCod IBAN: RO49AAAA1B31007593840000\nrest"

	cur := New().ExtractCurrency(text)
	require.NotNil(t, cur)
	assert.Equal(t, "RON", *cur)
}

func TestExtractStatementDates(t *testing.T) {
	text := "EXTRAS CONT Nr. 2 din 01/02/2024 - 29/02/2024"

	dates := New().ExtractStatementDates(text)
	require.NotNil(t, dates.StartDate)
	require.NotNil(t, dates.EndDate)
	assert.Equal(t, "2024-02-01", *dates.StartDate)
	assert.Equal(t, "2024-02-29", *dates.EndDate)
}
