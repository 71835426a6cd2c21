// Package clipboard adapts the system clipboard to the application port.
package clipboard

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/castellan/castellan/internal/application/port"
)

type systemClipboard struct{}

// New creates a clipboard backed by the system clipboard.
func New() port.Clipboard {
	return &systemClipboard{}
}

func (*systemClipboard) WriteText(_ context.Context, text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard not supported on this platform")
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("clipboard write failed: %w", err)
	}
	return nil
}
