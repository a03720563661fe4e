package embedding

import (
	"context"
	"errors"
)

// Provider abstracts embedding backends. Embed may fail; callers are
// expected to degrade to "no signal" rather than treat a failure as
// evidence of mismatch.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// ErrUnavailable is returned by the placeholder provider.
var ErrUnavailable = errors.New("embedding provider not configured")

// PlaceholderProvider is used when no provider is configured; every call
// fails so matching falls back to keyword signals only.
type PlaceholderProvider struct{}

func (PlaceholderProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	return nil, ErrUnavailable
}
