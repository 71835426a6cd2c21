// Package port defines interfaces between the application core and its adapters.
package port

import "context"

// Notifier surfaces outcomes to the user.
// Implementations must be safe for use from the UI event loop.
type Notifier interface {
	// Success shows a success notification and returns its id.
	Success(ctx context.Context, message string) string

	// Error shows an error notification and returns its id.
	Error(ctx context.Context, message string) string
}
