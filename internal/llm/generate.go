// File path: internal/llm/generate.go
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultTimeout bounds a single generation request. The remote service has
// no hard SLA; expiry is surfaced as ErrGenerationFailed.
const DefaultTimeout = 90 * time.Second

// ErrGenerationFailed wraps any transport, auth, quota, or timeout failure of
// the generative service. Callers treat it as terminal for the request.
var ErrGenerationFailed = errors.New("generation service failed")

// Generate runs a single prompt against the provider under a deadline and
// returns the raw model text. Downstream parsing cannot proceed without a
// response, so failures are never swallowed.
func Generate(ctx context.Context, provider Provider, prompt string, timeout time.Duration) (string, error) {
	if provider == nil {
		return "", fmt.Errorf("%w: no provider configured", ErrGenerationFailed)
	}
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("%w: empty prompt", ErrGenerationFailed)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	raw, err := provider.Chat(ctx, []Message{{Role: "user", Content: prompt}})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	return raw, nil
}
