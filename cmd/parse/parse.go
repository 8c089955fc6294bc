// Package parse handles single-statement processing
package parse

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"extrasjson/cmd/root"
	"extrasjson/internal/assembler"
	"extrasjson/internal/export"
	"extrasjson/internal/extractor"

	"github.com/spf13/cobra"
)

var inputFile string

// Cmd represents the parse command
var Cmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse a single statement PDF into a JSON record",
	Long: `Parse one bank statement PDF: extract its text layer, segment it
into transactions, classify counterparties and write the per-IBAN JSON
record to the output directory.`,
	Run: parseFunc,
}

func init() {
	Cmd.Flags().StringVarP(&inputFile, "input", "i", "", "Input statement PDF (required)")
	_ = Cmd.MarkFlagRequired("input")
}

func parseFunc(cmd *cobra.Command, args []string) {
	root.Log.Info("Parse command called")
	root.Log.Infof("Input file: %s", inputFile)

	result, err := extractor.Extract(inputFile)
	if err != nil {
		root.Log.Fatalf("Error extracting statement text: %v", err)
	}

	if root.Cfg.Output.WriteRawText {
		if err := writeRawText(inputFile, result.Text); err != nil {
			root.Log.Warnf("Failed to write raw text dump: %v", err)
		}
	}

	rules, err := root.RuleStore().Load()
	if err != nil {
		root.Log.Fatalf("Error loading counterparty rules: %v", err)
	}

	account := assembler.ParseStatement(result.Text, rules)
	record := export.BuildRecord(account)

	outputPath := filepath.Join(root.Cfg.Output.Directory, export.OutputFileName(account))
	if err := export.WriteJSON(outputPath, record); err != nil {
		root.Log.Fatalf("Error writing output: %v", err)
	}
	root.Log.Infof("Output written to %s", outputPath)
}

// writeRawText dumps the extracted text layer next to the logs for
// troubleshooting parser mismatches.
func writeRawText(inputFile, text string) error {
	logsDir := root.Cfg.Output.LogsDir
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return fmt.Errorf("creating logs directory %s: %w", logsDir, err)
	}
	base := strings.TrimSuffix(filepath.Base(inputFile), filepath.Ext(inputFile))
	path := filepath.Join(logsDir, base+"_log.txt")
	return os.WriteFile(path, []byte(text), 0o644)
}
