package sink

import (
	"fmt"
	"io"

	"github.com/wefitness/signup/pkg/clients/airtable"
	"github.com/wefitness/signup/pkg/clients/firestore"
	"github.com/wefitness/signup/pkg/config"
	"github.com/wefitness/signup/pkg/storage/sqlite"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// FromConfig builds the sink selected by cfg.SinkDriver. Missing credentials
// yield an Unconfigured sink rather than an error; only failures to open a
// configured store are returned as errors. The closer releases any resources
// held by the sink.
func FromConfig(cfg *config.Config) (Sink, io.Closer, error) {
	switch cfg.SinkDriver {
	case config.SinkFirestore:
		if !cfg.HasFirestore() {
			return Unconfigured{Reason: "firestore api key or project id missing"}, nopCloser{}, nil
		}
		client := firestore.NewClient(cfg.FirebaseAPIKey, cfg.FirebaseProjectID,
			firestore.WithBaseURL(cfg.FirestoreBaseURL))
		return NewFirestore(client, cfg.FirestoreCollection), nopCloser{}, nil

	case config.SinkAirtable:
		if !cfg.HasAirtable() {
			return Unconfigured{Reason: "airtable api key, base id or table missing"}, nopCloser{}, nil
		}
		client := airtable.NewClient(cfg.AirtableAPIKey, cfg.AirtableBaseID)
		return NewAirtable(client, cfg.AirtableLeadsTable), nopCloser{}, nil

	case config.SinkSQLite:
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite sink: %w", err)
		}
		return NewSQLite(store), store, nil

	case "":
		return Unconfigured{Reason: "no sink driver selected"}, nopCloser{}, nil
	}
	return Unconfigured{Reason: fmt.Sprintf("unknown sink driver %q", cfg.SinkDriver)}, nopCloser{}, nil
}
