package wizard

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wefitness/signup/pkg/models"
	"github.com/wefitness/signup/pkg/sink"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type recordingSink struct {
	mu    sync.Mutex
	calls int
	docs  []models.LeadDocument
	err   error
}

func (s *recordingSink) Submit(_ context.Context, doc models.LeadDocument) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.docs = append(s.docs, doc)
	if s.err != nil {
		return "", s.err
	}
	return "lead-1", nil
}

func newController(t *testing.T, s sink.Sink) *Controller {
	t.Helper()
	return New(s, WithClock(func() time.Time { return fixedNow }))
}

// fillToStep3 enters valid values and moves the controller to the goal step.
func fillToStep3(t *testing.T, c *Controller) {
	t.Helper()
	ctx := context.Background()
	c.SetField(models.FieldName, "Alice")
	require.NoError(t, c.Advance(ctx))
	c.SetField(models.FieldEmail, "Alice@Example.com ")
	c.SetField(models.FieldPhone, "9999 9999")
	require.NoError(t, c.Advance(ctx))
	require.Equal(t, 3, c.Step())
}

func TestNewStartsAtFirstStep(t *testing.T) {
	c := newController(t, &recordingSink{})
	assert.Equal(t, 1, c.Step())
	assert.True(t, c.Record().IsEmpty())
	status, reason := c.Status()
	assert.Equal(t, models.StatusIdle, status)
	assert.Empty(t, reason)
	assert.Equal(t, 33, c.Progress())
}

func TestCanAdvanceStep1TracksNameLength(t *testing.T) {
	c := newController(t, &recordingSink{})

	c.SetField(models.FieldName, "Al")
	assert.False(t, c.CanAdvance(1))
	assert.False(t, c.Valid(models.FieldName))

	c.SetField(models.FieldName, "Alice")
	assert.True(t, c.CanAdvance(1))
	assert.True(t, c.Valid(models.FieldName))
}

func TestCanAdvanceStep2TracksCountryDigits(t *testing.T) {
	c := newController(t, &recordingSink{})

	c.SetField(models.FieldPhone, "9999 9999")
	assert.Equal(t, "+47 9999 9999", c.Record().Phone)
	assert.True(t, c.CanAdvance(2))

	require.NoError(t, c.SelectCountry("SE"))
	assert.Equal(t, "+46 99999999", c.Record().Phone)
	assert.False(t, c.CanAdvance(2))

	c.SetField(models.FieldPhone, "+46 70 123 45 67")
	assert.True(t, c.CanAdvance(2))

	require.NoError(t, c.SelectCountry("NO"))
	assert.Equal(t, "+47 701234567", c.Record().Phone)
	assert.False(t, c.CanAdvance(2))
}

func TestSelectCountryUnknown(t *testing.T) {
	c := newController(t, &recordingSink{})
	c.SetField(models.FieldPhone, "99999999")

	err := c.SelectCountry("DK")
	assert.ErrorIs(t, err, ErrUnknownCountry)
	assert.Equal(t, "+47 99999999", c.Record().Phone)
}

func TestCanAdvanceStep3RequiresGoal(t *testing.T) {
	c := newController(t, &recordingSink{})
	assert.False(t, c.CanAdvance(3))

	c.SelectGoal("build-muscle")
	assert.True(t, c.CanAdvance(3))
	assert.False(t, c.CanAdvance(0))
	assert.False(t, c.CanAdvance(4))
}

func TestAdvanceBlockedByValidation(t *testing.T) {
	c := newController(t, &recordingSink{})
	c.SetField(models.FieldName, "Al")

	err := c.Advance(context.Background())
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, 1, vErr.Step)
	assert.Equal(t, "name", vErr.Field)
	assert.Equal(t, 1, c.Step())
}

func TestRetreat(t *testing.T) {
	for start := 1; start <= TotalSteps; start++ {
		c := newController(t, &recordingSink{})
		c.SetField(models.FieldName, "Alice")
		c.SetField(models.FieldPhone, "99999999")
		for c.Step() < start {
			require.NoError(t, c.Advance(context.Background()))
		}

		c.Retreat()
		assert.Equal(t, max(1, start-1), c.Step(), "retreat from step %d", start)
	}
}

func TestRetreatAtFirstStepIsNoop(t *testing.T) {
	c := newController(t, &recordingSink{})
	c.Retreat()
	c.Retreat()
	assert.Equal(t, 1, c.Step())
}

func TestSubmitSuccessResetsRecord(t *testing.T) {
	s := &recordingSink{}
	c := newController(t, s)
	fillToStep3(t, c)

	c.SelectGoal("build-muscle")
	require.NoError(t, c.Advance(context.Background()))

	status, reason := c.Status()
	assert.Equal(t, models.StatusSucceeded, status)
	assert.Empty(t, reason)
	assert.True(t, c.Record().IsEmpty())
	assert.Equal(t, 1, c.Step())

	require.Equal(t, 1, s.calls)
	doc := s.docs[0]
	assert.Equal(t, "Alice", doc.Name)
	assert.Equal(t, "alice@example.com", doc.Email)
	assert.Equal(t, "4799999999", doc.Phone)
	assert.Equal(t, "NO", doc.Country)
	assert.Equal(t, "build-muscle", doc.FitnessGoal)
	assert.Equal(t, "Build Muscle", doc.Goal.Title)
	assert.Equal(t, "Gain strength and definition", doc.Goal.Description)
	assert.Equal(t, fixedNow, doc.SubmittedAt)
	assert.Equal(t, models.LeadSource, doc.Source)
}

func TestSubmitFailurePreservesRecord(t *testing.T) {
	s := &recordingSink{err: errors.New("deadline exceeded")}
	c := newController(t, s)
	fillToStep3(t, c)
	c.SelectGoal("lose-weight")
	before := c.Record()

	err := c.Advance(context.Background())
	var subErr *SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, ReasonSubmitFailed, subErr.Reason)

	status, reason := c.Status()
	assert.Equal(t, models.StatusFailed, status)
	assert.NotEmpty(t, reason)
	assert.Equal(t, before, c.Record())
	assert.Equal(t, 3, c.Step())
}

func TestRetryAfterFailure(t *testing.T) {
	s := &recordingSink{err: errors.New("unavailable")}
	c := newController(t, s)
	fillToStep3(t, c)
	c.SelectGoal("increase-stamina")

	require.Error(t, c.Advance(context.Background()))

	s.mu.Lock()
	s.err = nil
	s.mu.Unlock()

	require.NoError(t, c.Advance(context.Background()))
	status, _ := c.Status()
	assert.Equal(t, models.StatusSucceeded, status)
	assert.Equal(t, 2, s.calls)
}

func TestSubmitUnconfiguredFailsFast(t *testing.T) {
	for _, s := range []sink.Sink{nil, sink.Unconfigured{Reason: "no key"}} {
		c := newController(t, s)
		fillToStep3(t, c)
		c.SelectGoal("improve-health")

		err := c.Advance(context.Background())
		assert.ErrorIs(t, err, sink.ErrNotConfigured)

		status, reason := c.Status()
		assert.Equal(t, models.StatusFailed, status)
		assert.Equal(t, ReasonNotConfigured, reason)
		assert.Equal(t, "Alice", c.Record().Name)
	}
}

type blockingSink struct {
	calls   atomic.Int32
	release chan struct{}
	err     error
	doc     models.LeadDocument
}

func (s *blockingSink) Submit(ctx context.Context, doc models.LeadDocument) (string, error) {
	s.calls.Add(1)
	s.doc = doc
	<-s.release
	if s.err != nil {
		return "", s.err
	}
	return "lead-1", nil
}

// startSubmit runs Advance in the background and waits until the submission
// is pending.
func startSubmit(t *testing.T, c *Controller) <-chan error {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- c.Advance(context.Background()) }()

	require.Eventually(t, func() bool {
		status, _ := c.Status()
		return status == models.StatusSubmitting
	}, time.Second, 5*time.Millisecond)
	return done
}

func TestSecondAdvanceWhileSubmittingIsRejected(t *testing.T) {
	s := &blockingSink{release: make(chan struct{})}
	c := newController(t, s)
	fillToStep3(t, c)
	c.SelectGoal("build-muscle")

	done := startSubmit(t, c)

	assert.ErrorIs(t, c.Advance(context.Background()), ErrSubmissionInFlight)
	c.Retreat()
	assert.Equal(t, 3, c.Step())
	assert.False(t, c.Snapshot().CanAdvance)

	close(s.release)
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), s.calls.Load())
}

func TestEditsWhileSubmittingAreIgnored(t *testing.T) {
	s := &blockingSink{release: make(chan struct{}), err: errors.New("unavailable")}
	c := newController(t, s)
	fillToStep3(t, c)
	c.SelectGoal("build-muscle")
	before := c.Record()

	done := startSubmit(t, c)

	c.SetField(models.FieldName, "Bob")
	c.SetField(models.FieldPhone, "1111 1111")
	c.SelectGoal("lose-weight")
	assert.ErrorIs(t, c.SelectCountry("SE"), ErrSubmissionInFlight)
	assert.False(t, c.PrefillName("Carol"))
	assert.Equal(t, before, c.Record())

	close(s.release)
	require.Error(t, <-done)

	// the preserved record is exactly what was sent
	assert.Equal(t, before, c.Record())
	assert.Equal(t, "Alice", s.doc.Name)
	assert.Equal(t, "build-muscle", s.doc.FitnessGoal)
	assert.Equal(t, "NO", s.doc.Country)

	c.SetField(models.FieldName, "Bob")
	assert.Equal(t, "Bob", c.Record().Name)
}

func TestPrefillName(t *testing.T) {
	c := newController(t, &recordingSink{})

	assert.True(t, c.PrefillName("John+Doe%21"))
	assert.Equal(t, "John Doe", c.Record().Name)
	assert.True(t, c.Valid(models.FieldName))

	assert.False(t, c.PrefillName("Someone Else"))
	assert.Equal(t, "John Doe", c.Record().Name)
}

func TestPrefillNameIgnoredAfterTyping(t *testing.T) {
	c := newController(t, &recordingSink{})
	c.SetField(models.FieldName, "Ka")

	assert.False(t, c.PrefillName("Kari Nordmann"))
	assert.Equal(t, "Ka", c.Record().Name)
}

func TestPrefillNameRejectsEmptyCandidate(t *testing.T) {
	c := newController(t, &recordingSink{})
	assert.False(t, c.PrefillName("%21%21"))
	assert.True(t, c.PrefillName("Kari"))
}

func TestSnapshotCelebratesOnce(t *testing.T) {
	c := newController(t, &recordingSink{})
	fillToStep3(t, c)
	c.SelectGoal("build-muscle")
	require.NoError(t, c.Advance(context.Background()))

	first := c.Snapshot()
	assert.True(t, first.Celebrate)
	assert.Equal(t, "lead-1", first.LeadID)
	assert.Equal(t, models.StatusSucceeded, first.Status)

	assert.False(t, c.Snapshot().Celebrate)
}

func TestSnapshotReportsValidation(t *testing.T) {
	c := newController(t, &recordingSink{})
	c.SetField(models.FieldName, "Alice")
	c.SetField(models.FieldPhone, "1234")

	snap := c.Snapshot()
	assert.Equal(t, 1, snap.Step)
	assert.Equal(t, TotalSteps, snap.TotalSteps)
	assert.True(t, snap.Validation[models.FieldName])
	assert.False(t, snap.Validation[models.FieldPhone])
	assert.True(t, snap.CanAdvance)
	assert.False(t, snap.CanRetreat)
	assert.Equal(t, "NO", snap.Country.Code)
}
