// Package autofill supplies a candidate display name for the signup form
// without the visitor typing it.
package autofill

import (
	"context"
	"fmt"
	"net/http"
)

// Candidate is a name proposed by a provider. SessionID is set when the
// provider's redirect flow carried the wizard session through a third party.
type Candidate struct {
	Name      string
	SessionID string
}

// Provider resolves a candidate name from an incoming request.
type Provider interface {
	Name() string
	Resolve(ctx context.Context, r *http.Request) (Candidate, error)
}

// Error is a failed lookup. Message is shown to the visitor, who can still
// type the name by hand.
type Error struct {
	Provider string
	Message  string
	Err      error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s autofill: %s", e.Provider, e.Message)
	}
	return fmt.Sprintf("%s autofill: %s: %v", e.Provider, e.Message, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
