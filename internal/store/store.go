// Package store persists the counterparty rule list.
//
// The classifier consumes rules as plain data; this package is the only
// place that touches rule storage. Rules live in a YAML file, ordered, and
// order is significant for classification.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"extrasjson/internal/logging"
	"extrasjson/internal/models"

	"gopkg.in/yaml.v3"
)

var log = logging.GetLogger()

// SetLogger allows setting a configured logger.
func SetLogger(logger logging.Logger) {
	if logger != nil {
		log = logger
	}
}

// Repository loads and saves the ordered counterparty rule list.
type Repository interface {
	Load() ([]models.CounterpartyRule, error)
	Save(rules []models.CounterpartyRule) error
}

// YAMLRuleStore is a Repository backed by a YAML file on disk.
type YAMLRuleStore struct {
	Path string
}

// NewYAMLRuleStore creates a rule store reading and writing the given file.
func NewYAMLRuleStore(path string) *YAMLRuleStore {
	return &YAMLRuleStore{Path: path}
}

// Load reads the rule list. A missing file is not an error; it yields an
// empty list so a fresh setup classifies everything as unknown.
func (s *YAMLRuleStore) Load() ([]models.CounterpartyRule, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debug("Rule file not found, starting with empty rule list",
				logging.Field{Key: "path", Value: s.Path})
			return []models.CounterpartyRule{}, nil
		}
		return nil, fmt.Errorf("reading rule file %s: %w", s.Path, err)
	}

	var rules []models.CounterpartyRule
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("parsing rule file %s: %w", s.Path, err)
	}
	return rules, nil
}

// Save writes the full rule list back, creating the parent directory when
// needed.
func (s *YAMLRuleStore) Save(rules []models.CounterpartyRule) error {
	data, err := yaml.Marshal(rules)
	if err != nil {
		return fmt.Errorf("encoding rule list: %w", err)
	}
	if dir := filepath.Dir(s.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating rule directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(s.Path, data, 0o644); err != nil {
		return fmt.Errorf("writing rule file %s: %w", s.Path, err)
	}
	log.Info("Saved counterparty rules",
		logging.Field{Key: "path", Value: s.Path},
		logging.Field{Key: "count", Value: len(rules)})
	return nil
}

// SyncTags writes each classified transaction's tag back into the rule it
// resolved to, keyed by rule name, then persists the full rule list.
// Transactions without a resolved counterparty are ignored.
func SyncTags(repo Repository, transactions []models.Transaction) error {
	rules, err := repo.Load()
	if err != nil {
		return err
	}

	byName := make(map[string]int, len(rules))
	for i := range rules {
		byName[rules[i].Name] = i
	}

	updated := 0
	for i := range transactions {
		tx := &transactions[i]
		if tx.Counterparty.ID == nil {
			continue
		}
		idx, ok := byName[*tx.Counterparty.ID]
		if !ok {
			continue
		}
		if rules[idx].Tag != tx.Tag {
			rules[idx].Tag = tx.Tag
			updated++
		}
	}

	log.Info("Synced counterparty tags",
		logging.Field{Key: "updated", Value: updated})
	return repo.Save(rules)
}
