package autofill

import (
	"context"
	"net/http"
	"strings"

	"github.com/wefitness/signup/pkg/validation"
)

// QueryParam reads the name from a URL query parameter, e.g. a link shared
// as /?name=John+Doe.
type QueryParam struct {
	Param string
}

func NewQueryParam(param string) *QueryParam {
	if param == "" {
		param = "name"
	}
	return &QueryParam{Param: param}
}

func (q *QueryParam) Name() string { return "query" }

// Resolve returns the raw parameter value; sanitizing is left to the wizard.
func (q *QueryParam) Resolve(_ context.Context, r *http.Request) (Candidate, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(q.Param))
	if raw == "" {
		return Candidate{}, &Error{Provider: q.Name(), Message: "no name was provided"}
	}
	if validation.SanitizeName(raw) == "" {
		return Candidate{}, &Error{Provider: q.Name(), Message: "the provided name contains no usable characters"}
	}
	return Candidate{Name: raw}, nil
}
