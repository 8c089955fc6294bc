// Package batch handles folder-level statement processing
package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"extrasjson/cmd/root"
	"extrasjson/internal/assembler"
	"extrasjson/internal/export"
	"extrasjson/internal/extractor"

	"github.com/spf13/cobra"
)

var inputDir string

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Parse every statement PDF in a folder into one merged JSON record",
	Long: `Parse all statement PDFs in a folder. Documents are processed
sequentially and merged per IBAN; a document that cannot be read or parsed
is logged and skipped without aborting the batch.`,
	Run: batchFunc,
}

func init() {
	Cmd.Flags().StringVarP(&inputDir, "folder", "f", "", "Input folder containing statement PDFs (required)")
	_ = Cmd.MarkFlagRequired("folder")
}

func batchFunc(cmd *cobra.Command, args []string) {
	root.Log.Info("Batch command called")
	root.Log.Infof("Analyzing folder: %s", inputDir)

	documents, err := collectDocuments(inputDir)
	if err != nil {
		root.Log.Fatalf("Error reading folder: %v", err)
	}
	if len(documents) == 0 {
		root.Log.Warn("No statement PDFs found in folder")
		return
	}

	rules, err := root.RuleStore().Load()
	if err != nil {
		root.Log.Fatalf("Error loading counterparty rules: %v", err)
	}

	accounts := assembler.ParseBatch(documents, rules)
	record := export.BuildBatchRecord(accounts)

	outputPath := filepath.Join(root.Cfg.Output.Directory,
		fmt.Sprintf("transactions_%d.json", time.Now().Unix()))
	if err := export.WriteJSON(outputPath, record); err != nil {
		root.Log.Fatalf("Error writing output: %v", err)
	}
	root.Log.Infof("Summary written to %s", outputPath)

	if root.Cfg.Output.CSV {
		csvPath := strings.TrimSuffix(outputPath, ".json") + ".csv"
		if err := export.WriteCSV(csvPath, accounts); err != nil {
			root.Log.Warnf("Failed to write CSV export: %v", err)
		}
	}
}

// collectDocuments extracts the text layer of every PDF in the folder.
// Extraction failures are logged and the document skipped.
func collectDocuments(dir string) ([]assembler.Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading folder %s: %w", dir, err)
	}

	var documents []assembler.Document
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		result, err := extractor.Extract(path)
		if err != nil {
			root.Log.Warnf("Skipping %s: %v", entry.Name(), err)
			continue
		}
		documents = append(documents, assembler.Document{
			Name: entry.Name(),
			Text: result.Text,
		})
	}
	return documents, nil
}
