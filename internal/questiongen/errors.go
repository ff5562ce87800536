package questiongen

import (
	"fmt"
	"strings"

	"github.com/abhisek/mcqgen/internal/llm"
)

// AttemptError is the last error a chain link produced before the
// orchestrator moved on.
type AttemptError struct {
	Provider string
	Model    string
	Calls    int // Provider calls made on this link, retries included.
	Err      error
}

func (e *AttemptError) Error() string {
	return fmt.Sprintf("%s (%d calls): %v", Link{Provider: e.Provider, Model: e.Model}, e.Calls, e.Err)
}

func (e *AttemptError) Unwrap() error { return e.Err }

// GenerationError is returned once every link of a chain has failed. It
// carries each attempted link's last error. Collaborators should show a
// generic retry message instead of its text.
type GenerationError struct {
	Attempts []AttemptError
}

func (e *GenerationError) Error() string {
	if len(e.Attempts) == 0 {
		return "generation failed: no providers attempted"
	}
	parts := make([]string, len(e.Attempts))
	for i := range e.Attempts {
		parts[i] = e.Attempts[i].Error()
	}
	return fmt.Sprintf("generation failed after %d providers: %s", len(e.Attempts), strings.Join(parts, "; "))
}

func (e *GenerationError) Unwrap() []error {
	errs := make([]error, len(e.Attempts))
	for i := range e.Attempts {
		errs[i] = &e.Attempts[i]
	}
	return errs
}

// IsTransient reports whether err is worth retrying on the same provider.
func IsTransient(err error) bool {
	return llm.IsTransient(err)
}
