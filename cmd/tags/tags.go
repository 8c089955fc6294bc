// Package tags syncs counterparty tags from a parsed statement back into
// the rule store and builds counterparty summaries
package tags

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"extrasjson/cmd/root"
	"extrasjson/internal/classifier"
	"extrasjson/internal/export"
	"extrasjson/internal/models"
	"extrasjson/internal/store"

	"github.com/spf13/cobra"
)

var (
	inputFile string
	report    bool
)

// Cmd represents the tags command
var Cmd = &cobra.Command{
	Use:   "tags",
	Short: "Sync counterparty tags from a statement JSON into the rule list",
	Long: `Read an already-produced statement JSON record and write each
resolved counterparty's tag back into the matching rule, then persist the
full rule list.

With --report, write a per-counterparty count summary of the record's
transactions next to the input instead.`,
	Run: tagsFunc,
}

func init() {
	Cmd.Flags().StringVarP(&inputFile, "input", "i", "", "Statement JSON produced by parse or batch (required)")
	Cmd.Flags().BoolVarP(&report, "report", "r", false, "Write a counterparty count summary instead of syncing tags")
	_ = Cmd.MarkFlagRequired("input")
}

func tagsFunc(cmd *cobra.Command, args []string) {
	transactions, err := readTransactions(inputFile)
	if err != nil {
		root.Log.Fatalf("Error reading statement JSON: %v", err)
	}

	if report {
		reportFunc(transactions)
		return
	}

	root.Log.Info("Analyzing tags...")
	if err := store.SyncTags(root.RuleStore(), transactions); err != nil {
		root.Log.Fatalf("Error syncing tags: %v", err)
	}
	root.Log.Info("Counterparty rules knowledge base updated with latest tags mapping.")
}

func reportFunc(transactions []models.Transaction) {
	summary := classifier.Report(transactions)
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		root.Log.Fatalf("Error encoding report: %v", err)
	}

	outputPath := filepath.Join(filepath.Dir(inputFile), "counterparties.json")
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		root.Log.Fatalf("Error writing report: %v", err)
	}
	root.Log.Infof("Counterparty report written to %s", outputPath)
}

// readTransactions loads the statement record and flattens all accounts'
// transactions back into the internal model, keeping the fields that tag
// sync and classification read.
func readTransactions(path string) ([]models.Transaction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var record export.Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	var transactions []models.Transaction
	for _, account := range record {
		for _, doc := range account.Transactions {
			transactions = append(transactions, models.Transaction{
				Name:      doc.ProprietaryBankTransactionCode,
				Details:   doc.Details,
				Reference: doc.TransactionID,
				Counterparty: models.Counterparty{
					ID:          doc.Counterparty.ID,
					Description: doc.Counterparty.Description,
				},
				Tag: doc.Tag,
			})
		}
	}
	return transactions, nil
}
