package models

// TransactionBuilder accumulates one transaction while a format state
// machine walks the statement lines. It replaces the nil-sentinel "current
// transaction" pattern: a builder is opened on a header line, appended to
// while detail lines arrive, and closed on the next header, on entering a
// skip region, or at end of input.
type TransactionBuilder struct {
	tx   Transaction
	open bool
}

// Open starts accumulating a new transaction. Any previously open
// transaction must have been closed by the caller first.
func (b *TransactionBuilder) Open(tx Transaction) {
	b.tx = tx
	b.open = true
}

// IsOpen reports whether a transaction is currently being accumulated.
func (b *TransactionBuilder) IsOpen() bool {
	return b.open
}

// AppendDetail records a raw line that was not otherwise classified.
func (b *TransactionBuilder) AppendDetail(line string) {
	b.tx.Details = append(b.tx.Details, line)
}

// SetAmount overrides the raw amount of the open transaction.
func (b *TransactionBuilder) SetAmount(raw string) {
	b.tx.Amount = &raw
}

// HasAmount reports whether a raw amount has been captured so far.
func (b *TransactionBuilder) HasAmount() bool {
	return b.tx.Amount != nil
}

// SetReference records the transaction reference.
func (b *TransactionBuilder) SetReference(ref string) {
	b.tx.Reference = &ref
}

// SetLocation records the transaction location.
func (b *TransactionBuilder) SetLocation(loc string) {
	b.tx.Location = &loc
}

// HasLocation reports whether a location has been captured so far.
func (b *TransactionBuilder) HasLocation() bool {
	return b.tx.Location != nil
}

// Close finalizes the open transaction and resets the builder. The second
// return value is false when no transaction was open.
func (b *TransactionBuilder) Close() (Transaction, bool) {
	if !b.open {
		return Transaction{}, false
	}
	tx := b.tx
	b.tx = Transaction{}
	b.open = false
	return tx, true
}
