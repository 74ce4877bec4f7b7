// Package wizard implements the three-step signup flow: it owns the current
// step, the entered values and the state of the final submission.
package wizard

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/wefitness/signup/pkg/logger"
	"github.com/wefitness/signup/pkg/models"
	"github.com/wefitness/signup/pkg/sink"
	"github.com/wefitness/signup/pkg/utils"
	"github.com/wefitness/signup/pkg/validation"
)

// TotalSteps is the number of steps in the flow: name, contact details, goal.
const TotalSteps = 3

// Controller drives one visitor's way through the signup steps.
// All methods are safe for concurrent use; at most one submission is in
// flight at a time.
type Controller struct {
	mu sync.Mutex

	step      int
	record    models.FormRecord
	country   models.Country
	status    models.SubmissionStatus
	reason    string
	leadID    string
	celebrate bool

	nameTouched bool
	prefilled   bool

	sink sink.Sink
	now  func() time.Time
}

// Option customizes a Controller.
type Option func(*Controller)

// WithCountry sets the initial phone country.
func WithCountry(c models.Country) Option {
	return func(ctl *Controller) { ctl.country = c }
}

// WithClock replaces time.Now for submission timestamps.
func WithClock(now func() time.Time) Option {
	return func(ctl *Controller) { ctl.now = now }
}

// New returns a controller on step 1 that hands finished signups to s.
// A nil or Unconfigured sink is accepted; submissions then fail fast.
func New(s sink.Sink, opts ...Option) *Controller {
	c := &Controller{
		step:    1,
		country: models.DefaultCountry(),
		status:  models.StatusIdle,
		sink:    s,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetField stores a raw value. Phone input is kept with the selected
// country's prefix in front of the number portion. Edits are ignored while
// a submission is in flight.
func (c *Controller) SetField(f models.Field, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status == models.StatusSubmitting {
		return
	}
	switch f {
	case models.FieldName:
		c.nameTouched = true
	case models.FieldPhone:
		value = validation.FormatPhone(validation.NumberPortion(value, c.country), c.country)
	}
	c.record.Set(f, value)
}

// SelectGoal records the chosen fitness goal id.
func (c *Controller) SelectGoal(goalID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status == models.StatusSubmitting {
		return
	}
	c.record.FitnessGoal = goalID
}

// SelectCountry switches the phone country and re-prefixes the digits
// entered so far. It fails with ErrSubmissionInFlight while a submission is
// pending.
func (c *Controller) SelectCountry(code string) error {
	next, ok := models.LookupCountry(code)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCountry, code)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status == models.StatusSubmitting {
		return ErrSubmissionInFlight
	}
	digits := validation.Digits(validation.NumberPortion(c.record.Phone, c.country))
	c.country = next
	c.record.Phone = validation.FormatPhone(digits, next)
	return nil
}

// PrefillName seeds the name from an autofill provider. It applies once and
// only while the visitor has not typed a name; it reports whether the value
// was taken.
func (c *Controller) PrefillName(candidate string) bool {
	name := validation.SanitizeName(candidate)
	if name == "" {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.prefilled || c.nameTouched || c.status == models.StatusSubmitting {
		return false
	}
	c.prefilled = true
	c.record.Name = name
	return true
}

// Valid reports the derived validation state of f.
func (c *Controller) Valid(f models.Field) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.validLocked(f)
}

func (c *Controller) validLocked(f models.Field) bool {
	return validation.Validate(f, c.record.Get(f), validation.Context{Country: c.country})
}

// CanAdvance reports whether step's input allows moving on.
func (c *Controller) CanAdvance(step int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canAdvanceLocked(step)
}

func (c *Controller) canAdvanceLocked(step int) bool {
	switch step {
	case 1:
		return c.validLocked(models.FieldName)
	case 2:
		return c.validLocked(models.FieldPhone)
	case 3:
		return c.record.FitnessGoal != ""
	}
	return false
}

// Advance moves to the next step, or submits the signup from the last step.
// Submission failures are recorded in the controller's state and also
// returned as *SubmissionError.
func (c *Controller) Advance(ctx context.Context) error {
	c.mu.Lock()

	if c.status == models.StatusSubmitting {
		c.mu.Unlock()
		return ErrSubmissionInFlight
	}
	if !c.canAdvanceLocked(c.step) {
		err := c.stepErrorLocked()
		c.mu.Unlock()
		return err
	}
	if c.step < TotalSteps {
		c.step++
		c.mu.Unlock()
		return nil
	}

	return c.submit(ctx)
}

// submit runs the final hand-off. It is entered with c.mu held and releases
// it around the sink call.
func (c *Controller) submit(ctx context.Context) error {
	if !sink.IsConfigured(c.sink) {
		c.status = models.StatusFailed
		c.reason = ReasonNotConfigured
		c.mu.Unlock()

		logger.Warn("Submission rejected: sink is not configured (%s)", unconfiguredReason(c.sink))
		return &SubmissionError{Reason: ReasonNotConfigured, Err: sink.ErrNotConfigured}
	}

	doc := c.leadLocked()
	target := c.sink
	c.status = models.StatusSubmitting
	c.reason = ""
	c.leadID = ""
	c.mu.Unlock()

	phoneHash := utils.HashString(doc.Phone)
	logger.Info("Submitting lead %s (goal %s)", phoneHash, doc.FitnessGoal)

	id, err := target.Submit(ctx, doc)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.status = models.StatusFailed
		c.reason = ReasonSubmitFailed
		logger.Error("Submission of lead %s failed: %v", phoneHash, err)
		return &SubmissionError{Reason: ReasonSubmitFailed, Err: err}
	}

	c.status = models.StatusSucceeded
	c.leadID = id
	c.celebrate = true
	c.record = models.FormRecord{}
	c.step = 1
	c.nameTouched = false
	c.prefilled = false
	logger.Info("Lead %s stored as %s", phoneHash, id)
	return nil
}

// Retreat moves back one step. It does nothing on the first step or while a
// submission is pending.
func (c *Controller) Retreat() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status == models.StatusSubmitting {
		return
	}
	if c.step > 1 {
		c.step--
	}
}

// Step returns the current step index.
func (c *Controller) Step() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// Record returns a copy of the entered values.
func (c *Controller) Record() models.FormRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.record
}

// Status returns the submission status and, when failed, its reason.
func (c *Controller) Status() (models.SubmissionStatus, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status, c.reason
}

// Progress is the share of the flow reached, in percent.
func (c *Controller) Progress() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.progressLocked()
}

func (c *Controller) progressLocked() int {
	return c.step * 100 / TotalSteps
}

func (c *Controller) leadLocked() models.LeadDocument {
	goal, ok := models.LookupGoal(c.record.FitnessGoal)
	if !ok {
		goal = models.FitnessGoal{ID: c.record.FitnessGoal}
	}
	return models.LeadDocument{
		Name:        strings.TrimSpace(c.record.Name),
		Email:       strings.ToLower(strings.TrimSpace(c.record.Email)),
		Phone:       validation.NormalizePhone(c.record.Phone, c.country),
		Country:     c.country.Code,
		FitnessGoal: c.record.FitnessGoal,
		Goal:        goal,
		SubmittedAt: c.now().UTC(),
		Source:      models.LeadSource,
	}
}

func (c *Controller) stepErrorLocked() *ValidationError {
	switch c.step {
	case 1:
		return &ValidationError{Step: 1, Field: string(models.FieldName),
			Message: fmt.Sprintf("name must be at least %d characters", validation.MinNameLength)}
	case 2:
		return &ValidationError{Step: 2, Field: string(models.FieldPhone),
			Message: fmt.Sprintf("phone number must have %d digits after %s", c.country.Digits, c.country.Prefix)}
	default:
		return &ValidationError{Step: c.step, Field: string(models.FieldFitnessGoal),
			Message: "choose a fitness goal"}
	}
}

func unconfiguredReason(s sink.Sink) string {
	switch u := s.(type) {
	case sink.Unconfigured:
		return u.Reason
	case *sink.Unconfigured:
		if u != nil {
			return u.Reason
		}
	}
	return "no sink"
}
