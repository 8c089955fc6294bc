// Package detector resolves which bank produced a statement text.
package detector

import (
	"extrasjson/internal/btparser"
	"extrasjson/internal/ingparser"
	"extrasjson/internal/logging"
	"extrasjson/internal/models"
	"extrasjson/internal/revparser"
)

var log = logging.GetLogger()

// SetLogger allows setting a configured logger.
func SetLogger(logger logging.Logger) {
	if logger != nil {
		log = logger
	}
}

// parsers holds the registered format parsers in probe order. ING is
// probed before BT because some ING statements quote BT payment
// references in transaction details.
var parsers = []models.StatementParser{
	ingparser.New(),
	btparser.New(),
	revparser.New(),
}

// Detect probes the registered parsers against the statement text and
// returns the first one whose boilerplate signature matches. The second
// return is false when no format recognizes the text.
func Detect(text string) (models.StatementParser, bool) {
	for _, p := range parsers {
		if p.Identify(text) {
			log.Debug("Detected statement format",
				logging.Field{Key: "bank", Value: string(p.Bank())})
			return p, true
		}
	}
	log.Warn("No statement format matched")
	return nil, false
}
