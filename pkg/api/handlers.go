package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wefitness/signup/pkg/autofill"
	"github.com/wefitness/signup/pkg/logger"
	"github.com/wefitness/signup/pkg/models"
	"github.com/wefitness/signup/pkg/services"
	"github.com/wefitness/signup/pkg/sink"
	"github.com/wefitness/signup/pkg/wizard"
)

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	sessions  *services.SessionService
	query     *autofill.QueryParam
	instagram *autofill.Instagram
}

// Option enables an autofill binding.
type Option func(*Handlers)

// WithQueryAutofill prefills new sessions from their ?name= parameter.
func WithQueryAutofill(p *autofill.QueryParam) Option {
	return func(h *Handlers) { h.query = p }
}

// WithInstagramAutofill enables the /auth/instagram routes.
func WithInstagramAutofill(p *autofill.Instagram) Option {
	return func(h *Handlers) { h.instagram = p }
}

// NewHandlers creates a new Handlers instance
func NewHandlers(sessions *services.SessionService, opts ...Option) *Handlers {
	h := &Handlers{sessions: sessions}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type fieldRequest struct {
	Field string `json:"field" binding:"required,oneof=name email phone"`
	Value string `json:"value"`
}

type countryRequest struct {
	Country string `json:"country" binding:"required,country"`
}

type goalRequest struct {
	Goal string `json:"goal" binding:"required,goalid"`
}

// HealthCheck handler for monitoring
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

func (h *Handlers) ListGoals(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"goals": models.FitnessGoals()})
}

func (h *Handlers) ListCountries(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"countries": models.Countries()})
}

// CreateSession starts a wizard. With the query binding active, a name
// parameter is offered to the new wizard as a prefill.
func (h *Handlers) CreateSession(c *gin.Context) {
	session := h.sessions.Create()
	resp := gin.H{"session": session.ID}

	if h.query != nil && c.Query(h.query.Param) != "" {
		candidate, err := h.query.Resolve(c.Request.Context(), c.Request)
		if err != nil {
			resp["autofillError"] = autofillMessage(err)
		} else {
			session.Wizard.PrefillName(candidate.Name)
		}
	}

	resp["state"] = session.Wizard.Snapshot()
	c.JSON(http.StatusCreated, resp)
}

func (h *Handlers) GetSession(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	h.respond(c, http.StatusOK, session, nil)
}

// DeleteSession lets the page discard a wizard, e.g. when the visitor leaves.
func (h *Handlers) DeleteSession(c *gin.Context) {
	if !h.sessions.Delete(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handlers) SetField(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	var req fieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respond(c, http.StatusBadRequest, session, gin.H{"error": "Invalid field update"})
		return
	}
	session.Wizard.SetField(models.Field(req.Field), req.Value)
	h.respond(c, http.StatusOK, session, nil)
}

func (h *Handlers) SelectCountry(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	var req countryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respond(c, http.StatusBadRequest, session, gin.H{"error": "Unsupported country"})
		return
	}
	if err := session.Wizard.SelectCountry(req.Country); err != nil {
		if errors.Is(err, wizard.ErrSubmissionInFlight) {
			h.respond(c, http.StatusConflict, session, gin.H{"error": "Your signup is already being submitted"})
			return
		}
		h.respond(c, http.StatusBadRequest, session, gin.H{"error": "Unsupported country"})
		return
	}
	h.respond(c, http.StatusOK, session, nil)
}

func (h *Handlers) SelectGoal(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	var req goalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respond(c, http.StatusBadRequest, session, gin.H{"error": "Unknown fitness goal"})
		return
	}
	session.Wizard.SelectGoal(req.Goal)
	h.respond(c, http.StatusOK, session, nil)
}

// Advance moves to the next step or submits the signup. A dropped client
// connection does not abort a pending submission.
func (h *Handlers) Advance(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	err := session.Wizard.Advance(context.WithoutCancel(c.Request.Context()))

	var validationErr *wizard.ValidationError
	var submissionErr *wizard.SubmissionError
	switch {
	case err == nil:
		logger.Debug("Session %s advanced to step %d (%d%%)", session.ID, session.Wizard.Step(), session.Wizard.Progress())
		h.respond(c, http.StatusOK, session, nil)
	case errors.As(err, &validationErr):
		h.respond(c, http.StatusUnprocessableEntity, session, gin.H{"error": validationErr.Message, "field": validationErr.Field})
	case errors.Is(err, wizard.ErrSubmissionInFlight):
		h.respond(c, http.StatusConflict, session, gin.H{"error": "Your signup is already being submitted"})
	case errors.Is(err, sink.ErrNotConfigured):
		h.respond(c, http.StatusServiceUnavailable, session, gin.H{"error": wizard.ReasonNotConfigured})
	case errors.As(err, &submissionErr):
		h.respond(c, http.StatusBadGateway, session, gin.H{"error": submissionErr.Reason})
	default:
		logger.Error("Unexpected advance error for session %s: %v", session.ID, err)
		h.respond(c, http.StatusInternalServerError, session, gin.H{"error": "Something went wrong"})
	}
}

func (h *Handlers) Retreat(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	session.Wizard.Retreat()
	h.respond(c, http.StatusOK, session, nil)
}

// StartInstagram redirects the visitor to Instagram to pick up their name.
func (h *Handlers) StartInstagram(c *gin.Context) {
	session, err := h.sessions.Get(c.Query("session"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	target, err := h.instagram.AuthCodeURL(session.ID)
	if err != nil {
		logger.Error("Error starting Instagram sign-in: %v", err)
		h.respond(c, http.StatusInternalServerError, session, gin.H{"autofillError": autofillMessage(err)})
		return
	}
	c.Redirect(http.StatusFound, target)
}

// InstagramCallback completes the redirect flow and prefills the name.
func (h *Handlers) InstagramCallback(c *gin.Context) {
	candidate, err := h.instagram.Resolve(c.Request.Context(), c.Request)
	if candidate.SessionID == "" {
		logger.Warn("Instagram callback without a valid session: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"autofillError": autofillMessage(err)})
		return
	}

	session, getErr := h.sessions.Get(candidate.SessionID)
	if getErr != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	if err != nil {
		logger.Warn("Instagram autofill failed for session %s: %v", session.ID, err)
		h.respond(c, http.StatusOK, session, gin.H{"autofillError": autofillMessage(err)})
		return
	}

	session.Wizard.PrefillName(candidate.Name)
	h.respond(c, http.StatusOK, session, nil)
}

func (h *Handlers) session(c *gin.Context) (*services.Session, bool) {
	session, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return nil, false
	}
	return session, true
}

func (h *Handlers) respond(c *gin.Context, status int, session *services.Session, extra gin.H) {
	body := gin.H{"session": session.ID}
	for k, v := range extra {
		body[k] = v
	}
	body["state"] = session.Wizard.Snapshot()
	c.JSON(status, body)
}

func autofillMessage(err error) string {
	var aErr *autofill.Error
	if errors.As(err, &aErr) {
		return aErr.Message
	}
	return "We could not fill in your name automatically. Please type it instead."
}
