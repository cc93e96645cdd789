package service

import (
	"context"

	"log/slog"

	"github.com/langsoc/coursebot/core/logger"
)

// BroadcastStore lists broadcast recipients.
type BroadcastStore interface {
	AllUserIDs(ctx context.Context) ([]int64, error)
}

// Broadcast resolves the audience for admin announcements. Delivery is
// the transport layer's job; this only decides who receives.
type Broadcast struct {
	store BroadcastStore
}

// NewBroadcast builds the broadcast service.
func NewBroadcast(store BroadcastStore) *Broadcast {
	return &Broadcast{store: store}
}

// Recipients returns every known chat id.
func (b *Broadcast) Recipients(ctx context.Context) ([]int64, error) {
	ids, err := b.store.AllUserIDs(ctx)
	if err != nil {
		return nil, err
	}
	logger.Debug(ctx, "service.broadcast", "broadcast.audience",
		slog.Int("recipients", len(ids)),
	)
	return ids, nil
}
