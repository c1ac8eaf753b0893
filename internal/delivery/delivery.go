// Package delivery defines the contract every transport front end satisfies.
package delivery

import "context"

// Delivery is a long-running server that blocks in Serve until the context
// is cancelled or the listener fails.
type Delivery interface {
	Serve(ctx context.Context) error
}
