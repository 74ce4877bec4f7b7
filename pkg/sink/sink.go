// Package sink adapts the hosted stores a finished signup can be written to.
package sink

import (
	"context"
	"errors"

	"github.com/wefitness/signup/pkg/models"
)

// ErrNotConfigured is reported by the Unconfigured sink.
var ErrNotConfigured = errors.New("submission sink is not configured")

// Sink accepts one finished lead and returns the store's identifier for it.
type Sink interface {
	Submit(ctx context.Context, doc models.LeadDocument) (string, error)
}

// Unconfigured stands in for a sink whose credentials are missing. Callers
// detect it with IsConfigured before attempting a write.
type Unconfigured struct {
	Reason string
}

func (u Unconfigured) Submit(context.Context, models.LeadDocument) (string, error) {
	return "", ErrNotConfigured
}

// IsConfigured reports whether s can accept writes.
func IsConfigured(s Sink) bool {
	switch s.(type) {
	case nil, Unconfigured, *Unconfigured:
		return false
	}
	return true
}

// Func adapts a plain function to Sink.
type Func func(ctx context.Context, doc models.LeadDocument) (string, error)

func (f Func) Submit(ctx context.Context, doc models.LeadDocument) (string, error) {
	return f(ctx, doc)
}
