package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"extrasjson/internal/models"
)

func rules() []models.CounterpartyRule {
	return []models.CounterpartyRule{
		{
			Name: "Mega Image",
			Patterns: []models.RulePattern{
				{Field: models.FieldLocation, Value: "mega image"},
			},
			Tag: "groceries",
		},
		{
			Name: "Salary",
			Patterns: []models.RulePattern{
				{Field: models.FieldName, Value: "incasare"},
				{Field: models.FieldDetails, Value: "salariu"},
			},
			Tag: "income",
		},
	}
}

func TestClassifyFirstRuleWins(t *testing.T) {
	// Both rules match; the one appearing first in the list is chosen,
	// regardless of pattern specificity.
	twoRules := []models.CounterpartyRule{
		{Name: "Broad", Patterns: []models.RulePattern{{Field: models.FieldName, Value: "pos"}}},
		{Name: "Specific", Patterns: []models.RulePattern{{Field: models.FieldName, Value: "^Plata la POS$"}}},
	}
	tx := models.Transaction{Name: "Plata la POS"}

	id := Classify(&tx, twoRules)
	require.NotNil(t, id)
	assert.Equal(t, "Broad", *id)
}

func TestClassifyCaseInsensitive(t *testing.T) {
	loc := "MEGA IMAGE CLUJ"
	tx := models.Transaction{Name: "Plata la POS", Location: &loc}

	id := Classify(&tx, rules())
	require.NotNil(t, id)
	assert.Equal(t, "Mega Image", *id)
}

func TestClassifyDetailsJoinedWithSpace(t *testing.T) {
	tx := models.Transaction{
		Name:    "Incasare OP",
		Details: []string{"plata", "salariu februarie"},
	}
	// The pattern spans the joined details string.
	r := []models.CounterpartyRule{
		{Name: "Salary", Patterns: []models.RulePattern{
			{Field: models.FieldDetails, Value: "plata salariu"},
		}},
	}

	id := Classify(&tx, r)
	require.NotNil(t, id)
	assert.Equal(t, "Salary", *id)
}

func TestClassifyTotality(t *testing.T) {
	tx := models.Transaction{Name: "something unmatched"}

	id := Classify(&tx, rules())
	assert.Nil(t, id)

	Apply(&tx, rules())
	assert.Nil(t, tx.Counterparty.ID)
	assert.Equal(t, "Unknown", tx.Counterparty.Description)
	assert.Equal(t, "", tx.Tag)
}

func TestClassifyIdempotentAndPure(t *testing.T) {
	loc := "Mega Image"
	tx := models.Transaction{Name: "Plata la POS", Location: &loc}
	ruleList := rules()

	first := Classify(&tx, ruleList)
	second := Classify(&tx, ruleList)
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, *first, *second)

	// The rule list is never mutated by classification.
	assert.Equal(t, rules(), ruleList)
}

func TestApplySetsTag(t *testing.T) {
	loc := "mega image"
	tx := models.Transaction{Name: "Plata la POS", Location: &loc}

	Apply(&tx, rules())
	require.NotNil(t, tx.Counterparty.ID)
	assert.Equal(t, "Mega Image", *tx.Counterparty.ID)
	assert.Equal(t, "Mega Image", tx.Counterparty.Description)
	assert.Equal(t, "groceries", tx.Tag)
}

func TestClassifySkipsInvalidPattern(t *testing.T) {
	r := []models.CounterpartyRule{
		{Name: "Broken", Patterns: []models.RulePattern{
			{Field: models.FieldName, Value: "("},
		}},
		{Name: "Working", Patterns: []models.RulePattern{
			{Field: models.FieldName, Value: "pos"},
		}},
	}
	tx := models.Transaction{Name: "Plata la POS"}

	id := Classify(&tx, r)
	require.NotNil(t, id)
	assert.Equal(t, "Working", *id)
}

func TestReport(t *testing.T) {
	loc := "Mega Image"
	transactions := []models.Transaction{
		{Name: "Plata la POS", Location: &loc},
		{Name: "Plata la POS", Location: &loc},
		{Name: "no match"},
	}
	for i := range transactions {
		Apply(&transactions[i], rules())
	}

	report := Report(transactions)
	assert.Equal(t, 2, report["Mega Image"].Count)
	assert.Equal(t, 1, report["Unknown"].Count)
}

func TestReportCountsWithoutMatchFields(t *testing.T) {
	// Stored records keep only the resolved counterparty; the location the
	// rule matched on is gone after a round trip. Counts must come from the
	// counterparty itself, not a re-classification.
	loc := "MEGA IMAGE CLUJ"
	tx := models.Transaction{Name: "Plata la POS", Location: &loc}
	Apply(&tx, rules())
	tx.Location = nil
	tx.Name = ""

	report := Report([]models.Transaction{tx})
	assert.Equal(t, 1, report["Mega Image"].Count)
	assert.Zero(t, report["Unknown"].Count)
}
