// Package ctxutil provides context helpers shared by long-running operations.
package ctxutil

import "context"

// Canceled returns nil while ctx is active. Once ctx is done it returns the
// recorded cancellation cause (see context.WithCancelCause) or, without one,
// ctx.Err(). Check it at the entry of blocking operations.
func Canceled(ctx context.Context) error {
	if ctx.Err() == nil {
		return nil
	}
	return context.Cause(ctx)
}
