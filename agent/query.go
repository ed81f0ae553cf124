package agent

import (
	"errors"
	"fmt"

	"github.com/etnz/fiadvisor"
)

// ErrNoProfile is returned when there is no financial data to reason about.
var ErrNoProfile = errors.New("missing financial data")

// NarrativeError wraps any failure of the narrative collaborator: authentication, quota, empty or malformed response.
type NarrativeError struct {
	Err error
}

func (e *NarrativeError) Error() string { return fmt.Sprintf("narrative generation failed: %v", e.Err) }
func (e *NarrativeError) Unwrap() error { return e.Err }

// Query is a question asked about one persona's profile.
type Query struct {
	Persona  string // display label, e.g. "Debt-Heavy Low Performer"
	Question string
	Profile  *fiadvisor.Profile
}

// Result is either a narrative answer or the reason none could be produced.
type Result struct {
	Text string
	Err  error
}

// Display returns the text to show to the user, errors are rendered as text.
func (r Result) Display() string {
	var ne *NarrativeError
	switch {
	case r.Err == nil:
		return r.Text
	case errors.Is(r.Err, ErrNoProfile):
		return "Could not get AI insights due to missing financial data."
	case errors.As(r.Err, &ne):
		return fmt.Sprintf("An error occurred with the AI model: %v", ne.Err)
	default:
		return fmt.Sprintf("An error occurred: %v", r.Err)
	}
}
