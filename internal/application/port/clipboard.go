package port

//go:generate mockgen -source=clipboard.go -destination=mocks/mock_clipboard.go

import "context"

// Clipboard provides access to the system clipboard.
type Clipboard interface {
	// WriteText writes text to the clipboard.
	WriteText(ctx context.Context, text string) error
}
