package auth

import "context"

// ClaimsDecorator can enrich a claim set before a token is signed.
// Decorators add claims on top of the canonical set; the set's
// deduplication keeps repeated additions harmless. Implementations must not
// depend on the subject, token id, email or uid claims being mutable —
// those are fixed at build time.
type ClaimsDecorator interface {
	Decorate(ctx context.Context, identity Identity, set *ClaimSet) error
}

// ClaimsDecoratorFunc adapts a function into a ClaimsDecorator.
type ClaimsDecoratorFunc func(ctx context.Context, identity Identity, set *ClaimSet) error

// Decorate satisfies the ClaimsDecorator interface.
func (f ClaimsDecoratorFunc) Decorate(ctx context.Context, identity Identity, set *ClaimSet) error {
	if f == nil {
		return nil
	}
	return f(ctx, identity, set)
}

type noopClaimsDecorator struct{}

func (noopClaimsDecorator) Decorate(context.Context, Identity, *ClaimSet) error {
	return nil
}

func normalizeClaimsDecorator(d ClaimsDecorator) ClaimsDecorator {
	if d == nil {
		return noopClaimsDecorator{}
	}
	return d
}
