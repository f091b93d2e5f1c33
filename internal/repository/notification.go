package repository

import "context"

// NotificationReadRepository stores per-viewer read flags keyed by notification id.
type NotificationReadRepository interface {
	// ReadSet returns which of ids the viewer has read.
	ReadSet(ctx context.Context, viewerID string, ids []string) (map[string]bool, error)

	// MarkRead records ids as read for the viewer. Marking an already read id is a no-op.
	MarkRead(ctx context.Context, viewerID string, ids ...string) error
}
