package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wefitness/signup/pkg/clients/textmagic"
	"github.com/wefitness/signup/pkg/logger"
	"github.com/wefitness/signup/pkg/models"
	"github.com/wefitness/signup/pkg/sink"
	"github.com/wefitness/signup/pkg/utils"
)

const confirmationTimeout = 30 * time.Second

type leadSubmissionServiceImpl struct {
	store           sink.Sink
	textMagicClient textmagic.Client
	wg              sync.WaitGroup
}

// NewLeadSubmissionService wraps store so that each stored lead also gets a
// confirmation text message. textMagicClient may be nil to skip messaging.
// An unconfigured store is returned unchanged so callers can still detect it.
func NewLeadSubmissionService(store sink.Sink, textMagicClient textmagic.Client) sink.Sink {
	if !sink.IsConfigured(store) {
		return store
	}
	return &leadSubmissionServiceImpl{
		store:           store,
		textMagicClient: textMagicClient,
	}
}

// Submit writes the lead and, on success, sends the confirmation in the
// background. Messaging failures never fail the submission.
func (s *leadSubmissionServiceImpl) Submit(ctx context.Context, doc models.LeadDocument) (string, error) {
	id, err := s.store.Submit(ctx, doc)
	if err != nil {
		return "", err
	}

	if s.textMagicClient != nil && doc.Phone != "" {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.sendConfirmation(doc)
		}()
	}
	return id, nil
}

// Wait blocks until every confirmation started by Submit has finished.
func (s *leadSubmissionServiceImpl) Wait() {
	s.wg.Wait()
}

// Drain waits for background work behind s, such as confirmation messages,
// to finish. It returns immediately for sinks that start none.
func Drain(s sink.Sink) {
	if w, ok := s.(interface{ Wait() }); ok {
		w.Wait()
	}
}

func (s *leadSubmissionServiceImpl) sendConfirmation(doc models.LeadDocument) {
	ctx, cancel := context.WithTimeout(context.Background(), confirmationTimeout)
	defer cancel()

	phoneHash := utils.HashString(doc.Phone)
	if _, err := s.textMagicClient.SendMessage(ctx, doc.Phone, ConfirmationMessage(doc)); err != nil {
		logger.Error("Error sending confirmation to %s: %v", phoneHash, err)
		return
	}
	logger.Info("Sent confirmation to %s", phoneHash)
}

// ConfirmationMessage is the text sent after a successful signup.
func ConfirmationMessage(doc models.LeadDocument) string {
	goal := doc.Goal.Title
	if goal == "" {
		goal = doc.FitnessGoal
	}
	return fmt.Sprintf("Hi %s! Thanks for signing up with WE Online Coaching. A coach will contact you soon about your goal: %s.",
		doc.Name, goal)
}
