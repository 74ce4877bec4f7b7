package sink

import (
	"context"
	"time"

	"github.com/wefitness/signup/pkg/clients/airtable"
	"github.com/wefitness/signup/pkg/logger"
	"github.com/wefitness/signup/pkg/models"
	"github.com/wefitness/signup/pkg/utils"
)

// Airtable writes leads as rows of an Airtable table, keyed by phone hash so
// a repeated signup returns the existing record.
type Airtable struct {
	client airtable.Client
	table  string
}

func NewAirtable(client airtable.Client, table string) *Airtable {
	return &Airtable{client: client, table: table}
}

func (a *Airtable) Submit(ctx context.Context, doc models.LeadDocument) (string, error) {
	phoneHash := utils.HashString(doc.Phone)

	existing, err := a.client.FindRecord(ctx, a.table, phoneHash)
	if err != nil {
		return "", err
	}
	if existing != "" {
		logger.Info("Lead %s already exists in table %s as %s", phoneHash, a.table, existing)
		return existing, nil
	}

	return a.client.CreateRecord(ctx, a.table, map[string]interface{}{
		"name":             doc.Name,
		"email":            doc.Email,
		"phone":            doc.Phone,
		"hash":             phoneHash,
		"country":          doc.Country,
		"goal":             doc.FitnessGoal,
		"goal title":       doc.Goal.Title,
		"goal description": doc.Goal.Description,
		"submitted at":     doc.SubmittedAt.UTC().Format(time.RFC3339),
		"source":           doc.Source,
	})
}
