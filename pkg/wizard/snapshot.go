package wizard

import (
	"github.com/wefitness/signup/pkg/models"
	"github.com/wefitness/signup/pkg/validation"
)

// Snapshot is a point-in-time view of a controller, shaped for rendering.
type Snapshot struct {
	Step       int                     `json:"step"`
	TotalSteps int                     `json:"totalSteps"`
	Progress   int                     `json:"progress"`
	Record     models.FormRecord       `json:"record"`
	Country    models.Country          `json:"country"`
	Validation map[models.Field]bool   `json:"validation"`
	CanAdvance bool                    `json:"canAdvance"`
	CanRetreat bool                    `json:"canRetreat"`
	Status     models.SubmissionStatus `json:"status"`
	Reason     string                  `json:"reason,omitempty"`
	LeadID     string                  `json:"leadId,omitempty"`
	// Celebrate is true in exactly one snapshot after a successful submit.
	Celebrate bool `json:"celebrate"`
}

// Snapshot captures the current state and consumes a pending celebration.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	flags := make(map[models.Field]bool, len(validation.Validators))
	for f := range validation.Validators {
		flags[f] = c.validLocked(f)
	}

	s := Snapshot{
		Step:       c.step,
		TotalSteps: TotalSteps,
		Progress:   c.progressLocked(),
		Record:     c.record,
		Country:    c.country,
		Validation: flags,
		CanAdvance: c.canAdvanceLocked(c.step) && c.status != models.StatusSubmitting,
		CanRetreat: c.step > 1 && c.status != models.StatusSubmitting,
		Status:     c.status,
		Reason:     c.reason,
		LeadID:     c.leadID,
		Celebrate:  c.celebrate,
	}
	c.celebrate = false
	return s
}
