// Package optimistic generalizes the snapshot/apply/call/rollback pattern
// used by like and follow toggles: apply the hoped-for state immediately,
// reconcile with the server response, and restore the exact prior state when
// the request fails.
package optimistic

import "context"

// Do applies optimistic, runs call, then settles: on success the server's
// reconciled value is installed and returned; on failure the prior value is
// restored exactly, avoiding double-adjustment bugs, and the error is
// returned with the prior value.
func Do[T any](ctx context.Context, prior, optimistic T, set func(T), call func(context.Context) (T, error)) (T, error) {
	set(optimistic)
	reconciled, err := call(ctx)
	if err != nil {
		set(prior)
		return prior, err
	}
	set(reconciled)
	return reconciled, nil
}
