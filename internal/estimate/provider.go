package estimate

import "context"

// Provider is the external estimation capability: it takes a natural-language
// prompt and returns free-form text that is expected, but not guaranteed, to
// parse as a JSON array of estimates. Injected so tests can substitute a
// deterministic stub.
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
