package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionBuilderLifecycle(t *testing.T) {
	var b TransactionBuilder

	_, ok := b.Close()
	assert.False(t, ok, "closing an idle builder yields nothing")

	b.Open(Transaction{Name: "Plata la POS"})
	assert.True(t, b.IsOpen())
	assert.False(t, b.HasAmount())

	b.AppendDetail("line one")
	b.AppendDetail("line two")
	b.SetAmount("123,45")
	b.SetReference("REF1")
	assert.True(t, b.HasAmount())

	tx, ok := b.Close()
	require.True(t, ok)
	assert.False(t, b.IsOpen())
	assert.Equal(t, "Plata la POS", tx.Name)
	assert.Equal(t, []string{"line one", "line two"}, tx.Details)
	require.NotNil(t, tx.Amount)
	assert.Equal(t, "123,45", *tx.Amount)
	require.NotNil(t, tx.Reference)
	assert.Equal(t, "REF1", *tx.Reference)

	// The builder is reset after closing.
	b.Open(Transaction{Name: "next"})
	tx, ok = b.Close()
	require.True(t, ok)
	assert.Empty(t, tx.Details)
	assert.Nil(t, tx.Amount)
}

func TestFieldValue(t *testing.T) {
	loc := "MEGA IMAGE"
	ref := "REF1"
	tx := Transaction{
		Name:      "Plata la POS",
		Details:   []string{"first", "second"},
		Location:  &loc,
		Reference: &ref,
	}

	assert.Equal(t, "Plata la POS", tx.FieldValue(FieldName))
	assert.Equal(t, "first second", tx.FieldValue(FieldDetails))
	assert.Equal(t, "MEGA IMAGE", tx.FieldValue(FieldLocation))
	assert.Equal(t, "REF1", tx.FieldValue(FieldReference))

	empty := Transaction{}
	assert.Equal(t, "", empty.FieldValue(FieldLocation))
	assert.Equal(t, "", empty.FieldValue(FieldReference))
	assert.Equal(t, "", empty.FieldValue(RuleField("bogus")))
}
