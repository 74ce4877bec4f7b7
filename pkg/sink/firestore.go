package sink

import (
	"context"

	"github.com/wefitness/signup/pkg/clients/firestore"
	"github.com/wefitness/signup/pkg/models"
)

// Firestore writes leads as documents in a Firestore collection.
type Firestore struct {
	client     firestore.Client
	collection string
}

func NewFirestore(client firestore.Client, collection string) *Firestore {
	return &Firestore{client: client, collection: collection}
}

func (f *Firestore) Submit(ctx context.Context, doc models.LeadDocument) (string, error) {
	return f.client.CreateDocument(ctx, f.collection, documentFields(doc))
}

func documentFields(doc models.LeadDocument) map[string]interface{} {
	return map[string]interface{}{
		"name":        doc.Name,
		"email":       doc.Email,
		"phone":       doc.Phone,
		"country":     doc.Country,
		"fitnessGoal": doc.FitnessGoal,
		"goal": map[string]interface{}{
			"id":          doc.Goal.ID,
			"title":       doc.Goal.Title,
			"description": doc.Goal.Description,
			"icon":        doc.Goal.Icon,
		},
		"submittedAt": doc.SubmittedAt,
		"source":      doc.Source,
	}
}
