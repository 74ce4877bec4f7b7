package models

import "time"

// LeadSource tags documents written by the signup wizard.
const LeadSource = "landing-wizard"

// LeadDocument is the normalized record handed to a submission sink
type LeadDocument struct {
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Phone       string      `json:"phone"` // digits only, country code included
	Country     string      `json:"country"`
	FitnessGoal string      `json:"fitnessGoal"`
	Goal        FitnessGoal `json:"goal"`
	SubmittedAt time.Time   `json:"submittedAt"`
	Source      string      `json:"source"`
}

// SubmissionStatus tracks the lifecycle of the final submit.
type SubmissionStatus string

const (
	StatusIdle       SubmissionStatus = "idle"
	StatusSubmitting SubmissionStatus = "submitting"
	StatusSucceeded  SubmissionStatus = "succeeded"
	StatusFailed     SubmissionStatus = "failed"
)
