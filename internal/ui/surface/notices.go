package surface

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/castellan/castellan/internal/application/port"
	"github.com/castellan/castellan/internal/logging"
)

// maxNotices bounds the retained notice history.
const maxNotices = 5

// NoticeLevel classifies a notice for rendering.
type NoticeLevel int

const (
	NoticeSuccess NoticeLevel = iota
	NoticeError
)

// Notice is one transient status message shown in the footer.
type Notice struct {
	ID    string
	Level NoticeLevel
	Text  string
}

// Notices collects status messages from actions and use cases. It is the
// surface's implementation of the notifier port.
type Notices struct {
	mu    sync.Mutex
	items []Notice
}

var _ port.Notifier = (*Notices)(nil)

// NewNotices creates an empty notice store.
func NewNotices() *Notices {
	return &Notices{}
}

// Success records a success notice and returns its id.
func (n *Notices) Success(ctx context.Context, message string) string {
	logging.FromContext(ctx).Debug().Str("notice", message).Msg("success notice")
	return n.push(Notice{ID: uuid.NewString(), Level: NoticeSuccess, Text: message})
}

// Error records an error notice and returns its id.
func (n *Notices) Error(ctx context.Context, message string) string {
	logging.FromContext(ctx).Debug().Str("notice", message).Msg("error notice")
	return n.push(Notice{ID: uuid.NewString(), Level: NoticeError, Text: message})
}

// Latest returns the most recent notice, or nil.
func (n *Notices) Latest() *Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.items) == 0 {
		return nil
	}
	latest := n.items[len(n.items)-1]
	return &latest
}

// Dismiss removes a notice by id. Unknown ids are a no-op.
func (n *Notices) Dismiss(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, item := range n.items {
		if item.ID == id {
			n.items = append(n.items[:i], n.items[i+1:]...)
			return
		}
	}
}

func (n *Notices) push(notice Notice) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = append(n.items, notice)
	if len(n.items) > maxNotices {
		n.items = n.items[len(n.items)-maxNotices:]
	}
	return notice.ID
}
