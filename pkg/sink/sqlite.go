package sink

import (
	"context"

	"github.com/wefitness/signup/pkg/models"
	"github.com/wefitness/signup/pkg/storage/sqlite"
)

// SQLite writes leads to a local database file.
type SQLite struct {
	store *sqlite.Store
}

func NewSQLite(store *sqlite.Store) *SQLite {
	return &SQLite{store: store}
}

func (s *SQLite) Submit(ctx context.Context, doc models.LeadDocument) (string, error) {
	return s.store.InsertLead(ctx, doc)
}
