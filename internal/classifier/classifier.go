// Package classifier resolves counterparties for extracted transactions.
//
// Classification is a pure function of the transaction fields and the rule
// list: rules are evaluated in list order, patterns within a rule in list
// order, and the first case-insensitive regex match wins. The rule list is
// never mutated.
package classifier

import (
	"regexp"
	"sync"

	"extrasjson/internal/logging"
	"extrasjson/internal/models"
)

var log = logging.GetLogger()

// SetLogger allows setting a configured logger.
func SetLogger(logger logging.Logger) {
	if logger != nil {
		log = logger
	}
}

// unknownDescription labels transactions no rule matched.
const unknownDescription = "Unknown"

var (
	regexCacheMu sync.Mutex
	regexCache   = map[string]*regexp.Regexp{}
)

// compilePattern compiles a rule pattern case-insensitively, caching the
// result. Rule lists repeat across every transaction of a batch.
func compilePattern(value string) (*regexp.Regexp, error) {
	regexCacheMu.Lock()
	defer regexCacheMu.Unlock()
	if re, ok := regexCache[value]; ok {
		return re, nil
	}
	re, err := regexp.Compile("(?i)" + value)
	if err != nil {
		return nil, err
	}
	regexCache[value] = re
	return re, nil
}

// Classify returns the name of the first rule with a pattern matching the
// transaction, or nil when no rule matches. Invalid pattern regexes are
// logged and skipped.
func Classify(tx *models.Transaction, rules []models.CounterpartyRule) *string {
	for i := range rules {
		rule := &rules[i]
		for _, pattern := range rule.Patterns {
			re, err := compilePattern(pattern.Value)
			if err != nil {
				log.WithError(err).Warn("Skipping invalid counterparty pattern",
					logging.Field{Key: "rule", Value: rule.Name},
					logging.Field{Key: "pattern", Value: pattern.Value})
				continue
			}
			if re.MatchString(tx.FieldValue(pattern.Field)) {
				name := rule.Name
				return &name
			}
		}
	}
	return nil
}

// TagFor looks up the tag of the rule with the given name. Returns "" when
// the id is nil or no rule carries that name.
func TagFor(id *string, rules []models.CounterpartyRule) string {
	if id == nil {
		return ""
	}
	for i := range rules {
		if rules[i].Name == *id {
			return rules[i].Tag
		}
	}
	return ""
}

// Apply classifies the transaction in place, setting its counterparty and
// tag. Unmatched transactions get a nil id, the "Unknown" description and
// an empty tag.
func Apply(tx *models.Transaction, rules []models.CounterpartyRule) {
	id := Classify(tx, rules)
	description := unknownDescription
	if id != nil {
		description = *id
	}
	tx.Counterparty = models.Counterparty{ID: id, Description: description}
	tx.Tag = TagFor(id, rules)
}

// ReportEntry is one counterparty bucket of an aggregation report.
type ReportEntry struct {
	Count int `json:"count"`
}

// Report groups classified transactions by resolved counterparty
// description with per-counterparty counts. It reads the counterparty
// already on each transaction; stored records do not carry the fields the
// rules matched on.
func Report(transactions []models.Transaction) map[string]ReportEntry {
	report := make(map[string]ReportEntry)
	for i := range transactions {
		description := transactions[i].Counterparty.Description
		if description == "" {
			description = unknownDescription
		}
		entry := report[description]
		entry.Count++
		report[description] = entry
	}
	return report
}
